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

var emptyStructType = reflect.TypeOf(struct{}{})

func invalid(expected reflect.Type, got interface{}) error {
	return errors.Wrapf(ErrInvalidValue,
		"expected value of type %s, got %T", expected, got)
}

type listCodec struct {
	elem   Codec
	source reflect.Type
	target reflect.Type
}

// List returns a codec for a list column. The in-memory value is a slice
// of the element codec source type.
func List(elem Codec) Codec {
	return listCodec{
		elem:   elem,
		source: reflect.SliceOf(elem.SourceType()),
		target: reflect.SliceOf(elem.TargetType()),
	}
}

func (c listCodec) SourceType() reflect.Type { return c.source }
func (c listCodec) TargetType() reflect.Type { return c.target }

func (c listCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != c.source {
		return nil, invalid(c.source, value)
	}
	if rv.IsNil() {
		return nil, nil
	}
	return convertSlice(rv, c.target, c.elem.Encode)
}

func (c listCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(wire)
	if rv.Kind() != reflect.Slice {
		return nil, invalid(c.target, wire)
	}
	return convertSlice(rv, c.source, c.elem.Decode)
}

func convertSlice(
	rv reflect.Value,
	to reflect.Type,
	convert func(interface{}) (interface{}, error)) (interface{}, error) {
	out := reflect.MakeSlice(to, rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e, err := convertElem(rv.Index(i).Interface(), to.Elem(), convert)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out.Index(i).Set(e)
	}
	return out.Interface(), nil
}

func convertElem(
	v interface{},
	to reflect.Type,
	convert func(interface{}) (interface{}, error)) (reflect.Value, error) {
	c, err := convert(v)
	if err != nil {
		return reflect.Value{}, err
	}
	if c == nil {
		return reflect.Value{}, errors.Wrap(ErrInvalidValue,
			"collections cannot hold null values")
	}
	rv := reflect.ValueOf(c)
	if !rv.Type().AssignableTo(to) {
		return reflect.Value{}, invalid(to, c)
	}
	return rv, nil
}

type setCodec struct {
	elem   Codec
	source reflect.Type
	target reflect.Type
}

// Set returns a codec for a set column. The in-memory value is a
// map[T]struct{}; on the wire a set is a slice.
func Set(elem Codec) Codec {
	return setCodec{
		elem:   elem,
		source: reflect.MapOf(elem.SourceType(), emptyStructType),
		target: reflect.SliceOf(elem.TargetType()),
	}
}

func (c setCodec) SourceType() reflect.Type { return c.source }
func (c setCodec) TargetType() reflect.Type { return c.target }

func (c setCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != c.source {
		return nil, invalid(c.source, value)
	}
	if rv.IsNil() {
		return nil, nil
	}
	out := reflect.MakeSlice(c.target, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		e, err := convertElem(iter.Key().Interface(), c.target.Elem(), c.elem.Encode)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, e)
	}
	return out.Interface(), nil
}

func (c setCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(wire)
	if rv.Kind() != reflect.Slice {
		return nil, invalid(c.target, wire)
	}
	out := reflect.MakeMapWithSize(c.source, rv.Len())
	present := reflect.ValueOf(struct{}{})
	for i := 0; i < rv.Len(); i++ {
		e, err := convertElem(rv.Index(i).Interface(), c.source.Key(), c.elem.Decode)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out.SetMapIndex(e, present)
	}
	return out.Interface(), nil
}

type mapCodec struct {
	key    Codec
	value  Codec
	source reflect.Type
	target reflect.Type
}

// Map returns a codec for a map column.
func Map(key, value Codec) Codec {
	return mapCodec{
		key:    key,
		value:  value,
		source: reflect.MapOf(key.SourceType(), value.SourceType()),
		target: reflect.MapOf(key.TargetType(), value.TargetType()),
	}
}

func (c mapCodec) SourceType() reflect.Type { return c.source }
func (c mapCodec) TargetType() reflect.Type { return c.target }

func (c mapCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != c.source {
		return nil, invalid(c.source, value)
	}
	if rv.IsNil() {
		return nil, nil
	}
	return convertMap(rv, c.target, c.key.Encode, c.value.Encode)
}

func (c mapCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(wire)
	if rv.Kind() != reflect.Map {
		return nil, invalid(c.target, wire)
	}
	return convertMap(rv, c.source, c.key.Decode, c.value.Decode)
}

func convertMap(
	rv reflect.Value,
	to reflect.Type,
	convertKey func(interface{}) (interface{}, error),
	convertValue func(interface{}) (interface{}, error)) (interface{}, error) {
	out := reflect.MakeMapWithSize(to, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := convertElem(iter.Key().Interface(), to.Key(), convertKey)
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}
		v, err := convertElem(iter.Value().Interface(), to.Elem(), convertValue)
		if err != nil {
			return nil, errors.Wrapf(err, "map value for key %v", iter.Key().Interface())
		}
		out.SetMapIndex(k, v)
	}
	return out.Interface(), nil
}
