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

// Package codec converts in-memory values to and from the values handed to
// the Cassandra driver.
package codec

import (
	"math"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidValue indicates a value whose type does not match the codec.
	ErrInvalidValue = errors.New("invalid value for codec")

	// ErrEncoding indicates a failed generic (JSON) marshal or unmarshal.
	ErrEncoding = errors.New("encoding error")
)

// Codec is an encode/decode pair between an in-memory type and the type
// the driver binds for the column.
type Codec interface {
	// Encode converts an in-memory value into its wire value.
	Encode(value interface{}) (interface{}, error)
	// Decode converts a wire value into its in-memory value.
	Decode(wire interface{}) (interface{}, error)
	// SourceType is the in-memory type.
	SourceType() reflect.Type
	// TargetType is the wire type.
	TargetType() reflect.Type
}

var (
	bytesType  = reflect.TypeOf([]byte(nil))
	stringType = reflect.TypeOf("")
	int16Type  = reflect.TypeOf(int16(0))
	int32Type  = reflect.TypeOf(int32(0))
	int64Type  = reflect.TypeOf(int64(0))
)

type nativeCodec struct {
	source reflect.Type
	target reflect.Type
}

// Native returns the codec for a scalar type the driver understands.
// Unsigned integers are widened to the next signed CQL integer and named
// types are converted to their underlying kind.
func Native(t reflect.Type) Codec {
	return nativeCodec{source: t, target: wireType(t)}
}

func wireType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Uint8:
		return int16Type
	case reflect.Uint16:
		return int32Type
	case reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Int:
		return int64Type
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Bool, reflect.String, reflect.Float32, reflect.Float64:
		return basicTypes[t.Kind()]
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesType
		}
	}
	return t
}

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   int16Type,
	reflect.Int32:   int32Type,
	reflect.Int64:   int64Type,
	reflect.Bool:    reflect.TypeOf(false),
	reflect.String:  stringType,
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
}

func (c nativeCodec) SourceType() reflect.Type { return c.source }
func (c nativeCodec) TargetType() reflect.Type { return c.target }

func (c nativeCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != c.source {
		return nil, errors.Wrapf(ErrInvalidValue,
			"expected value of type %s, got %s", c.source, rv.Type())
	}
	if c.source == c.target {
		return value, nil
	}
	switch c.source.Kind() {
	case reflect.Uint, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return nil, errors.Wrapf(ErrInvalidValue,
				"value %d overflows %s", rv.Uint(), c.target)
		}
	}
	return rv.Convert(c.target).Interface(), nil
}

func (c nativeCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(wire)
	if rv.Type() != c.target {
		if !isSignedInt(rv.Kind()) || !isSignedInt(c.target.Kind()) ||
			reflect.Zero(c.target).OverflowInt(rv.Int()) {
			return nil, errors.Wrapf(ErrInvalidValue,
				"expected wire value of type %s, got %s", c.target, rv.Type())
		}
		rv = rv.Convert(c.target)
	}
	if c.source == c.target {
		return rv.Interface(), nil
	}
	switch c.source.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		i := rv.Int()
		if i < 0 || reflect.Zero(c.source).OverflowUint(uint64(i)) {
			return nil, errors.Wrapf(ErrInvalidValue,
				"wire value %d overflows %s", i, c.source)
		}
	}
	return rv.Convert(c.source).Interface(), nil
}

func isSignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
