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

package row

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mocks/mock_row.go -package=mocks github.com/uber/cqlmapper/pkg/storage/row Row

var (
	// ErrColumnNotFound indicates that the row has no such column.
	ErrColumnNotFound = errors.New("column not found in row")

	// ErrTypeMismatch indicates that a column value cannot be read as the
	// requested type.
	ErrTypeMismatch = errors.New("column type mismatch")
)

// Row is a single result row returned by the driver.
type Row interface {
	// IsNull returns true if the column is absent or holds no value.
	IsNull(name string) bool
	// Scalar reads a column as a value of type t.
	Scalar(name string, t reflect.Type) (interface{}, error)
	// List reads a list column as a slice of elem.
	List(name string, elem reflect.Type) (interface{}, error)
	// Set reads a set column as a slice of elem.
	Set(name string, elem reflect.Type) (interface{}, error)
	// Map reads a map column as a map of key to value.
	Map(name string, key, value reflect.Type) (interface{}, error)
	// ColumnNames returns the names of the columns in the row.
	ColumnNames() []string
}

// MapRow is a Row over the column map produced by gocql MapScan. The driver
// reports null scalars as zero values, so IsNull only detects absent
// columns, nil values and nil collections.
type MapRow map[string]interface{}

// IsNull implements Row.
func (r MapRow) IsNull(name string) bool {
	v, ok := r[name]
	if !ok || v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Ptr:
		return rv.IsNil()
	}
	return false
}

// Scalar implements Row.
func (r MapRow) Scalar(name string, t reflect.Type) (interface{}, error) {
	v, ok := r[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "column %q", name)
	}
	if v == nil {
		return nil, nil
	}
	out, err := convert(reflect.ValueOf(v), t)
	if err != nil {
		return nil, errors.Wrapf(err, "column %q", name)
	}
	return out.Interface(), nil
}

// List implements Row.
func (r MapRow) List(name string, elem reflect.Type) (interface{}, error) {
	return r.Scalar(name, reflect.SliceOf(elem))
}

// Set implements Row.
func (r MapRow) Set(name string, elem reflect.Type) (interface{}, error) {
	return r.Scalar(name, reflect.SliceOf(elem))
}

// Map implements Row.
func (r MapRow) Map(name string, key, value reflect.Type) (interface{}, error) {
	return r.Scalar(name, reflect.MapOf(key, value))
}

// ColumnNames implements Row. Names are sorted.
func (r MapRow) ColumnNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// convert adapts a driver value to t. The driver hands back int for cql
// int columns, so signed integers are narrowed with an overflow check.
func convert(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Type() == t {
		return v, nil
	}
	switch {
	case isSigned(v.Kind()) && isSigned(t.Kind()):
		if reflect.Zero(t).OverflowInt(v.Int()) {
			return reflect.Value{}, errors.Wrapf(ErrTypeMismatch,
				"value %d overflows %s", v.Int(), t)
		}
		return v.Convert(t), nil
	case v.Kind() == reflect.Slice && t.Kind() == reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := convert(v.Index(i), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(e)
		}
		return out, nil
	case v.Kind() == reflect.Map && t.Kind() == reflect.Map:
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		out := reflect.MakeMapWithSize(t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := convert(iter.Key(), t.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			e, err := convert(iter.Value(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(k, e)
		}
		return out, nil
	case v.Kind() == reflect.Interface && !v.IsNil():
		return convert(v.Elem(), t)
	}
	return reflect.Value{}, errors.Wrapf(ErrTypeMismatch,
		"cannot read %s as %s", v.Type(), t)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
