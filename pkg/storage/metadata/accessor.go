// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Accessor reads and writes one field of an entity. Accessors are closures
// bound when metadata is built, so no reflection happens per field access.
type Accessor struct {
	get func(entity interface{}) (interface{}, error)
	set func(entity, value interface{}) error
}

// NewAccessor builds an Accessor from raw getter and setter functions.
func NewAccessor(
	get func(entity interface{}) (interface{}, error),
	set func(entity, value interface{}) error) Accessor {
	return Accessor{get: get, set: set}
}

// Get reads the field. A nil pointer, slice or map comes back as nil.
func (a Accessor) Get(entity interface{}) (interface{}, error) {
	v, err := a.get(entity)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return nil, nil
	}
	return v, nil
}

// Set writes the field. A nil value resets the field to its zero value.
func (a Accessor) Set(entity, value interface{}) error {
	return a.set(entity, value)
}

func (a Accessor) valid() bool {
	return a.get != nil && a.set != nil
}

// Field binds an accessor to a field of struct E through typed getter and
// setter functions.
func Field[E any, T any](get func(*E) T, set func(*E, T)) Accessor {
	return Accessor{
		get: func(entity interface{}) (interface{}, error) {
			e, err := asEntity[E](entity)
			if err != nil {
				return nil, err
			}
			return get(e), nil
		},
		set: func(entity, value interface{}) error {
			e, err := asEntity[E](entity)
			if err != nil {
				return err
			}
			if value == nil {
				var zero T
				set(e, zero)
				return nil
			}
			v, ok := value.(T)
			if !ok {
				var zero T
				return errors.Wrapf(ErrInvalidEntity,
					"cannot assign %T to a field of type %T", value, zero)
			}
			set(e, v)
			return nil
		},
	}
}

func asEntity[E any](entity interface{}) (*E, error) {
	e, ok := entity.(*E)
	if !ok || e == nil {
		return nil, errors.Wrapf(ErrInvalidEntity,
			"expected %T, got %T", (*E)(nil), entity)
	}
	return e, nil
}

// Record is a schemaless entity holding column values by name.
type Record map[string]interface{}

// RecordField binds an accessor to one entry of a Record.
func RecordField(name string) Accessor {
	return Accessor{
		get: func(entity interface{}) (interface{}, error) {
			r, ok := entity.(Record)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidEntity, "expected Record, got %T", entity)
			}
			return r[name], nil
		},
		set: func(entity, value interface{}) error {
			r, ok := entity.(Record)
			if !ok || r == nil {
				return errors.Wrapf(ErrInvalidEntity, "expected Record, got %T", entity)
			}
			r[name] = value
			return nil
		},
	}
}

// isNull returns true for nil and for nil pointers, slices, maps and
// interfaces wrapped in a non-nil interface.
func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func typeName(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
