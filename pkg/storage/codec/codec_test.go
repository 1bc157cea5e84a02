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
	"testing"

	"github.com/gocql/gocql"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type status int32

const (
	statusActive status = iota
	statusDeleted
)

type label string

type payload struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type CodecSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

// TestNativeRoundTrip tests that decode(encode(v)) == v for scalar values
func (s *CodecSuite) TestNativeRoundTrip() {
	data := []struct {
		value interface{}
		wire  interface{}
	}{
		{int64(42), int64(42)},
		{int32(7), int32(7)},
		{"name", "name"},
		{true, true},
		{3.5, 3.5},
		{uint8(200), int16(200)},
		{uint16(60000), int32(60000)},
		{uint32(4000000000), int64(4000000000)},
		{uint64(12), int64(12)},
		{12, int64(12)},
		{label("x"), "x"},
		{[]byte("raw"), []byte("raw")},
		{gocql.TimeUUID(), nil},
	}
	for _, d := range data {
		c := Native(reflect.TypeOf(d.value))
		wire, err := c.Encode(d.value)
		s.NoError(err)
		if d.wire != nil {
			s.Equal(d.wire, wire)
		}
		back, err := c.Decode(wire)
		s.NoError(err)
		s.Equal(d.value, back)
	}
}

// TestNativeNil tests that nil passes through native codecs
func (s *CodecSuite) TestNativeNil() {
	c := Native(reflect.TypeOf(int64(0)))
	v, err := c.Encode(nil)
	s.NoError(err)
	s.Nil(v)
	v, err = c.Decode(nil)
	s.NoError(err)
	s.Nil(v)
}

// TestNativeErrors tests type and overflow checks
func (s *CodecSuite) TestNativeErrors() {
	c := Native(reflect.TypeOf(int64(0)))
	_, err := c.Encode("11")
	s.Equal(ErrInvalidValue, errors.Cause(err))

	c = Native(reflect.TypeOf(uint64(0)))
	_, err = c.Encode(^uint64(0))
	s.Equal(ErrInvalidValue, errors.Cause(err))
	_, err = c.Decode(int64(-1))
	s.Equal(ErrInvalidValue, errors.Cause(err))

	c = Native(reflect.TypeOf(int32(0)))
	v, err := c.Decode(int64(5))
	s.NoError(err)
	s.Equal(int32(5), v)
	_, err = c.Decode(int64(1) << 40)
	s.Error(err)
	_, err = c.Decode("5")
	s.Error(err)
}

// TestEnum tests the enum codec
func (s *CodecSuite) TestEnum() {
	c := Enum(reflect.TypeOf(statusActive), "ACTIVE", "DELETED")
	s.Equal(reflect.TypeOf(""), c.TargetType())

	wire, err := c.Encode(statusDeleted)
	s.NoError(err)
	s.Equal("DELETED", wire)

	v, err := c.Decode("ACTIVE")
	s.NoError(err)
	s.Equal(statusActive, v)

	_, err = c.Decode("UNKNOWN")
	s.Error(err)
	_, err = c.Encode(status(9))
	s.Error(err)
	_, err = c.Encode(int32(1))
	s.Error(err)
}

// TestJSON tests the json codec and the forced json helpers
func (s *CodecSuite) TestJSON() {
	c := JSON(reflect.TypeOf(payload{}), NewJSONMapper())
	wire, err := c.Encode(payload{Name: "a", Size: 2})
	s.NoError(err)
	s.Equal(`{"name":"a","size":2}`, wire)

	v, err := c.Decode(wire)
	s.NoError(err)
	s.Equal(payload{Name: "a", Size: 2}, v)

	_, err = c.Decode("{")
	s.Equal(ErrEncoding, errors.Cause(err))

	str, err := ForceEncodeToJSON(NewJSONMapper(), "as-is")
	s.NoError(err)
	s.Equal("as-is", str)

	_, err = ForceEncodeToJSON(NewJSONMapper(), make(chan int))
	s.Equal(ErrEncoding, errors.Cause(err))

	out, err := ForceDecodeFromJSON(NewJSONMapper(), "as-is", reflect.TypeOf(""))
	s.NoError(err)
	s.Equal("as-is", out)

	out, err = ForceDecodeFromJSON(NewJSONMapper(), "12", reflect.TypeOf(int64(0)))
	s.NoError(err)
	s.Equal(int64(12), out)
}

// TestPborUUID tests conversion between pborman and gocql uuids
func (s *CodecSuite) TestPborUUID() {
	c := PborUUID()
	id := uuid.NewRandom()

	wire, err := c.Encode(id)
	s.NoError(err)
	s.Equal(id.String(), wire.(gocql.UUID).String())

	back, err := c.Decode(wire)
	s.NoError(err)
	s.True(uuid.Equal(id, back.(uuid.UUID)))

	_, err = c.Encode(uuid.UUID([]byte{1, 2}))
	s.Error(err)
}

// TestCounter tests that counters encode their delta
func (s *CodecSuite) TestCounter() {
	c := CounterCodec()
	counter := NewCounter(10)
	counter.Incr(5)
	counter.Decr(2)
	s.Equal(int64(13), counter.Get())

	wire, err := c.Encode(counter)
	s.NoError(err)
	s.Equal(int64(3), wire)

	v, err := c.Decode(int64(13))
	s.NoError(err)
	s.Equal(&Counter{Value: 13}, v)

	_, err = c.Encode(int64(1))
	s.Error(err)
}

// TestList tests the list codec
func (s *CodecSuite) TestList() {
	c := List(Native(reflect.TypeOf(uint32(0))))
	s.Equal(reflect.TypeOf([]uint32{}), c.SourceType())
	s.Equal(reflect.TypeOf([]int64{}), c.TargetType())

	wire, err := c.Encode([]uint32{1, 2, 3})
	s.NoError(err)
	s.Equal([]int64{1, 2, 3}, wire)

	v, err := c.Decode(wire)
	s.NoError(err)
	s.Equal([]uint32{1, 2, 3}, v)

	v, err = c.Encode([]uint32(nil))
	s.NoError(err)
	s.Nil(v)

	_, err = c.Encode([]string{"a"})
	s.Error(err)
}

// TestSet tests the set codec
func (s *CodecSuite) TestSet() {
	c := Set(Native(reflect.TypeOf("")))
	in := map[string]struct{}{"a": {}, "b": {}}

	wire, err := c.Encode(in)
	s.NoError(err)
	s.ElementsMatch([]string{"a", "b"}, wire)

	v, err := c.Decode(wire)
	s.NoError(err)
	s.Equal(in, v)
}

// TestMap tests the map codec
func (s *CodecSuite) TestMap() {
	c := Map(
		Native(reflect.TypeOf(label(""))),
		Enum(reflect.TypeOf(statusActive), "ACTIVE", "DELETED"))
	in := map[label]status{"x": statusActive, "y": statusDeleted}

	wire, err := c.Encode(in)
	s.NoError(err)
	s.Equal(map[string]string{"x": "ACTIVE", "y": "DELETED"}, wire)

	v, err := c.Decode(wire)
	s.NoError(err)
	s.Equal(in, v)

	_, err = c.Decode(map[string]string{"x": "NOPE"})
	s.Error(err)
}

// TestCollectionNullElement tests that null elements are rejected
func (s *CodecSuite) TestCollectionNullElement() {
	c := List(PborUUID())
	_, err := c.Encode([]uuid.UUID{nil})
	s.Equal(ErrInvalidValue, errors.Cause(err))
}
