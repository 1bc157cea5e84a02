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

package cql

import (
	"math/big"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeOf tests the go to cql type mapping
func TestTypeOf(t *testing.T) {
	data := []struct {
		in  interface{}
		out string
	}{
		{"", "text"},
		{true, "boolean"},
		{int8(1), "tinyint"},
		{int16(1), "smallint"},
		{int32(1), "int"},
		{int64(1), "bigint"},
		{1, "bigint"},
		{float32(1), "float"},
		{float64(1), "double"},
		{[]byte{}, "blob"},
		{gocql.UUID{}, "uuid"},
		{time.Time{}, "timestamp"},
		{time.Second, "bigint"},
		{big.NewInt(1), "varint"},
		{net.IP{}, "inet"},
		{[]string{}, "list<text>"},
		{map[string]int32{}, "map<text, int>"},
	}
	for _, d := range data {
		typ, err := TypeOf(reflect.TypeOf(d.in))
		require.NoError(t, err)
		assert.Equal(t, d.out, typ.String(), "%T", d.in)
	}
}

// TestTypeOfUnsupported tests that unknown go types are rejected
func TestTypeOfUnsupported(t *testing.T) {
	_, err := TypeOf(reflect.TypeOf(struct{}{}))
	assert.Error(t, err)
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))

	_, err = TypeOf(reflect.TypeOf([]struct{}{}))
	assert.Error(t, err)
}

// TestGoType tests that GoType reverses TypeOf for scalar types
func TestGoType(t *testing.T) {
	for _, v := range []interface{}{"", true, int32(1), int64(1),
		float64(1), []byte{}, gocql.UUID{}, time.Time{}, []string{}} {
		typ, err := TypeOf(reflect.TypeOf(v))
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeOf(v), GoType(typ))
	}
	assert.Equal(t, reflect.TypeOf([]int64{}), GoType(SetOf(Native(Bigint))))
}

// TestEquivalent tests type equivalence rules
func TestEquivalent(t *testing.T) {
	assert.True(t, Native(Blob).Equivalent(Native(Custom)))
	assert.True(t, Native(Custom).Equivalent(Native(Blob)))
	assert.True(t, Native(Text).Equivalent(Native(Varchar)))
	assert.False(t, Native(Text).Equivalent(Native(Blob)))
	assert.True(t, MapOf(Native(Text), Native(Int)).Equivalent(
		MapOf(Native(Varchar), Native(Int))))
	assert.False(t, ListOf(Native(Text)).Equivalent(SetOf(Native(Text))))
	assert.False(t, ListOf(Native(Text)).Equivalent(ListOf(Native(Int))))
	assert.False(t, Native(List).Equivalent(ListOf(Native(Int))))
}

// TestParseConsistency tests consistency level parsing
func TestParseConsistency(t *testing.T) {
	c, err := ParseConsistency("LOCAL_QUORUM")
	assert.NoError(t, err)
	assert.Equal(t, gocql.LocalQuorum, c)

	_, err = ParseConsistency("SOMETIMES")
	assert.Error(t, err)
}

// TestParseDataType tests parsing of cql type names
func TestParseDataType(t *testing.T) {
	data := map[string]DataType{
		"text":      Text,
		" BIGINT ":  Bigint,
		"timeuuid":  TimeUUID,
		"map":       Map,
		"timestamp": Timestamp,
	}
	for name, expected := range data {
		actual, err := ParseDataType(name)
		assert.NoError(t, err, name)
		assert.Equal(t, expected, actual, name)
	}

	_, err := ParseDataType("frozen")
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
}
