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
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// JSONMapper marshals arbitrary values to JSON and back.
type JSONMapper interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type stdJSONMapper struct{}

// NewJSONMapper returns a JSONMapper backed by encoding/json.
func NewJSONMapper() JSONMapper {
	return stdJSONMapper{}
}

func (stdJSONMapper) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (stdJSONMapper) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type jsonCodec struct {
	source reflect.Type
	mapper JSONMapper
}

// JSON returns a codec storing values of type t as JSON text.
func JSON(t reflect.Type, mapper JSONMapper) Codec {
	return jsonCodec{source: t, mapper: mapper}
}

func (c jsonCodec) SourceType() reflect.Type { return c.source }
func (c jsonCodec) TargetType() reflect.Type { return stringType }

func (c jsonCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	if reflect.TypeOf(value) != c.source {
		return nil, errors.Wrapf(ErrInvalidValue,
			"expected value of type %s, got %T", c.source, value)
	}
	return ForceEncodeToJSON(c.mapper, value)
}

func (c jsonCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	s, ok := wire.(string)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue,
			"expected json text, got %T", wire)
	}
	return ForceDecodeFromJSON(c.mapper, s, c.source)
}

// ForceEncodeToJSON marshals v to JSON. Strings are returned unchanged.
func ForceEncodeToJSON(mapper JSONMapper, v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := mapper.Marshal(v)
	if err != nil {
		return "", errors.Wrapf(ErrEncoding, "cannot marshal %T: %v", v, err)
	}
	return string(b), nil
}

// ForceDecodeFromJSON unmarshals s into a new value of type t. A string
// target receives s unchanged.
func ForceDecodeFromJSON(
	mapper JSONMapper,
	s string,
	t reflect.Type) (interface{}, error) {
	if t == stringType {
		return s, nil
	}
	v := reflect.New(t)
	if err := mapper.Unmarshal([]byte(s), v.Interface()); err != nil {
		return nil, errors.Wrapf(ErrEncoding, "cannot unmarshal %q into %s: %v", s, t, err)
	}
	return v.Elem().Interface(), nil
}
