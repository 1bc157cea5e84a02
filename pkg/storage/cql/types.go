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
	"fmt"
	"math/big"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// DataType is the kind of a CQL column type.
type DataType int

// CQL data types supported by the mapper.
const (
	Custom DataType = iota
	Ascii
	Bigint
	Blob
	Boolean
	Counter
	Decimal
	Double
	Float
	Int
	Text
	Timestamp
	UUID
	Varchar
	Varint
	TimeUUID
	Inet
	Date
	Time
	Smallint
	Tinyint
	List
	Set
	Map
)

var dataTypeNames = map[DataType]string{
	Custom:    "custom",
	Ascii:     "ascii",
	Bigint:    "bigint",
	Blob:      "blob",
	Boolean:   "boolean",
	Counter:   "counter",
	Decimal:   "decimal",
	Double:    "double",
	Float:     "float",
	Int:       "int",
	Text:      "text",
	Timestamp: "timestamp",
	UUID:      "uuid",
	Varchar:   "varchar",
	Varint:    "varint",
	TimeUUID:  "timeuuid",
	Inet:      "inet",
	Date:      "date",
	Time:      "time",
	Smallint:  "smallint",
	Tinyint:   "tinyint",
	List:      "list",
	Set:       "set",
	Map:       "map",
}

// ErrUnsupportedType is returned when a Go type has no CQL counterpart.
var ErrUnsupportedType = errors.New("unsupported cql type")

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// ParseDataType returns the data type named by a CQL type name such as
// "bigint".
func ParseDataType(name string) (DataType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range dataTypeNames {
		if n == name {
			return t, nil
		}
	}
	return Custom, errors.Wrapf(ErrUnsupportedType, "unknown cql type %q", name)
}

// Type is a possibly parameterized CQL type, e.g. map<text, int>.
type Type struct {
	Kind DataType
	Args []Type
}

// Native returns the non parameterized type of the given kind.
func Native(kind DataType) Type {
	return Type{Kind: kind}
}

// ListOf returns list<elem>.
func ListOf(elem Type) Type {
	return Type{Kind: List, Args: []Type{elem}}
}

// SetOf returns set<elem>.
func SetOf(elem Type) Type {
	return Type{Kind: Set, Args: []Type{elem}}
}

// MapOf returns map<key, value>.
func MapOf(key, value Type) Type {
	return Type{Kind: Map, Args: []Type{key, value}}
}

// IsCollection returns true for list, set and map types.
func (t Type) IsCollection() bool {
	return t.Kind == List || t.Kind == Set || t.Kind == Map
}

func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Kind.String()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Kind, strings.Join(args, ", "))
}

// Equivalent compares two types the way the schema validator does:
// a custom live type is accepted where a blob is expected and text is
// an alias of varchar.
func (t Type) Equivalent(other Type) bool {
	if normalize(t.Kind) != normalize(other.Kind) {
		return false
	}
	if len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equivalent(other.Args[i]) {
			return false
		}
	}
	return true
}

func normalize(kind DataType) DataType {
	switch kind {
	case Custom:
		return Blob
	case Varchar:
		return Text
	}
	return kind
}

var (
	uuidType      = reflect.TypeOf(gocql.UUID{})
	timeType      = reflect.TypeOf(time.Time{})
	durationType  = reflect.TypeOf(time.Duration(0))
	bytesType     = reflect.TypeOf([]byte(nil))
	bigIntType    = reflect.TypeOf((*big.Int)(nil))
	ipType        = reflect.TypeOf(net.IP(nil))
	stringType    = reflect.TypeOf("")
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// TypeOf maps a Go wire type to its CQL type. Slices map to lists and maps
// to maps; sets are declared explicitly by property metadata since their
// wire form is also a slice.
func TypeOf(t reflect.Type) (Type, error) {
	switch t {
	case uuidType:
		return Native(UUID), nil
	case timeType:
		return Native(Timestamp), nil
	case durationType:
		return Native(Bigint), nil
	case bytesType:
		return Native(Blob), nil
	case bigIntType:
		return Native(Varint), nil
	case ipType:
		return Native(Inet), nil
	}

	switch t.Kind() {
	case reflect.String:
		return Native(Text), nil
	case reflect.Bool:
		return Native(Boolean), nil
	case reflect.Int8:
		return Native(Tinyint), nil
	case reflect.Int16:
		return Native(Smallint), nil
	case reflect.Int32:
		return Native(Int), nil
	case reflect.Int, reflect.Int64:
		return Native(Bigint), nil
	case reflect.Float32:
		return Native(Float), nil
	case reflect.Float64:
		return Native(Double), nil
	case reflect.Slice:
		elem, err := TypeOf(t.Elem())
		if err != nil {
			return Type{}, err
		}
		return ListOf(elem), nil
	case reflect.Map:
		key, err := TypeOf(t.Key())
		if err != nil {
			return Type{}, err
		}
		value, err := TypeOf(t.Elem())
		if err != nil {
			return Type{}, err
		}
		return MapOf(key, value), nil
	}
	return Type{}, errors.Wrapf(ErrUnsupportedType, "no cql type for go type %s", t)
}

// GoType returns the Go type the driver uses for a CQL type. It is the
// inverse of TypeOf for the types the mapper reads back from rows.
func GoType(t Type) reflect.Type {
	switch t.Kind {
	case Ascii, Text, Varchar:
		return stringType
	case Bigint, Counter, Time:
		return reflect.TypeOf(int64(0))
	case Blob, Custom:
		return bytesType
	case Boolean:
		return reflect.TypeOf(false)
	case Double:
		return reflect.TypeOf(float64(0))
	case Float:
		return reflect.TypeOf(float32(0))
	case Int:
		return reflect.TypeOf(int32(0))
	case Smallint:
		return reflect.TypeOf(int16(0))
	case Tinyint:
		return reflect.TypeOf(int8(0))
	case Timestamp, Date:
		return timeType
	case UUID, TimeUUID:
		return uuidType
	case Varint:
		return bigIntType
	case Inet:
		return ipType
	case List, Set:
		return reflect.SliceOf(GoType(t.Args[0]))
	case Map:
		return reflect.MapOf(GoType(t.Args[0]), GoType(t.Args[1]))
	}
	return interfaceType
}

// ParseConsistency parses a consistency level name such as LOCAL_QUORUM.
func ParseConsistency(s string) (gocql.Consistency, error) {
	c, err := gocql.ParseConsistencyWrapper(s)
	if err != nil {
		return gocql.Any, errors.Wrapf(err, "invalid consistency %q", s)
	}
	return c, nil
}
