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
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MapRowSuite struct {
	suite.Suite
	row MapRow
	id  gocql.UUID
	now time.Time
}

func TestMapRowSuite(t *testing.T) {
	suite.Run(t, new(MapRowSuite))
}

func (s *MapRowSuite) SetupTest() {
	s.id = gocql.TimeUUID()
	s.now = time.Now().UTC()
	s.row = MapRow{
		"id":      int64(10),
		"count":   3,
		"uuid":    s.id,
		"created": s.now,
		"tags":    []string{"a", "b"},
		"scores":  []int{1, 2},
		"attrs":   map[string]int{"x": 1},
		"empty":   []string(nil),
		"nothing": nil,
	}
}

// TestIsNull tests null detection for absent and nil columns
func (s *MapRowSuite) TestIsNull() {
	s.False(s.row.IsNull("id"))
	s.False(s.row.IsNull("tags"))
	s.True(s.row.IsNull("empty"))
	s.True(s.row.IsNull("nothing"))
	s.True(s.row.IsNull("missing"))
}

// TestScalar tests reading and converting scalar columns
func (s *MapRowSuite) TestScalar() {
	v, err := s.row.Scalar("id", reflect.TypeOf(int64(0)))
	s.NoError(err)
	s.Equal(int64(10), v)

	v, err = s.row.Scalar("count", reflect.TypeOf(int32(0)))
	s.NoError(err)
	s.Equal(int32(3), v)

	v, err = s.row.Scalar("uuid", reflect.TypeOf(gocql.UUID{}))
	s.NoError(err)
	s.Equal(s.id, v)

	v, err = s.row.Scalar("created", reflect.TypeOf(time.Time{}))
	s.NoError(err)
	s.Equal(s.now, v)

	v, err = s.row.Scalar("nothing", reflect.TypeOf(""))
	s.NoError(err)
	s.Nil(v)
}

// TestScalarErrors tests missing and mismatched columns
func (s *MapRowSuite) TestScalarErrors() {
	_, err := s.row.Scalar("missing", reflect.TypeOf(""))
	s.Equal(ErrColumnNotFound, errors.Cause(err))

	_, err = s.row.Scalar("id", reflect.TypeOf(""))
	s.Equal(ErrTypeMismatch, errors.Cause(err))

	_, err = s.row.Scalar("id", reflect.TypeOf(int8(0)))
	s.NoError(err)
	s.row["id"] = int64(1000)
	_, err = s.row.Scalar("id", reflect.TypeOf(int8(0)))
	s.Equal(ErrTypeMismatch, errors.Cause(err))
}

// TestCollections tests reading list, set and map columns
func (s *MapRowSuite) TestCollections() {
	v, err := s.row.List("tags", reflect.TypeOf(""))
	s.NoError(err)
	s.Equal([]string{"a", "b"}, v)

	v, err = s.row.Set("scores", reflect.TypeOf(int32(0)))
	s.NoError(err)
	s.Equal([]int32{1, 2}, v)

	v, err = s.row.Map("attrs", reflect.TypeOf(""), reflect.TypeOf(int32(0)))
	s.NoError(err)
	s.Equal(map[string]int32{"x": 1}, v)

	v, err = s.row.List("empty", reflect.TypeOf(""))
	s.NoError(err)
	s.Equal([]string(nil), v)
}

// TestColumnNames tests that column names are sorted
func (s *MapRowSuite) TestColumnNames() {
	s.Equal([]string{"attrs", "count", "created", "empty", "id",
		"nothing", "scores", "tags", "uuid"}, s.row.ColumnNames())
}
