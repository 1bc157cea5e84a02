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

package codec

import (
	"reflect"

	"github.com/pkg/errors"
)

type enumCodec struct {
	source reflect.Type
	names  []string
	values map[string]int64
}

// Enum returns a codec storing an integer enum as its name. names[i] is
// the name of the enum value i.
func Enum(t reflect.Type, names ...string) Codec {
	values := make(map[string]int64, len(names))
	for i, n := range names {
		values[n] = int64(i)
	}
	return enumCodec{source: t, names: names, values: values}
}

func (c enumCodec) SourceType() reflect.Type { return c.source }
func (c enumCodec) TargetType() reflect.Type { return stringType }

func (c enumCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != c.source {
		return nil, errors.Wrapf(ErrInvalidValue,
			"expected enum of type %s, got %s", c.source, rv.Type())
	}
	i := rv.Int()
	if i < 0 || i >= int64(len(c.names)) {
		return nil, errors.Wrapf(ErrInvalidValue,
			"value %d is not a valid %s", i, c.source)
	}
	return c.names[i], nil
}

func (c enumCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	name, ok := wire.(string)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue,
			"expected enum name, got %T", wire)
	}
	i, ok := c.values[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue,
			"%q is not a valid %s", name, c.source)
	}
	v := reflect.New(c.source).Elem()
	v.SetInt(i)
	return v.Interface(), nil
}
