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

package statement

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/metadata/metadatatest"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

const eventColumns = "SELECT id,type,date,name,owner,labels,value FROM events"

// TestSelectSlice tests the predicates and options of slice queries
func (s *StatementSuite) TestSelectSlice() {
	date := gocql.TimeUUID()
	data := []struct {
		slice        Slice
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			Slice{Partition: []interface{}{int64(1), "click"}},
			eventColumns + " WHERE id = ? AND type = ?",
			[]interface{}{int64(1), "click"},
		},
		{
			Slice{Partition: []interface{}{int64(1), []string{"a", "b"}}, PartitionIn: true, Limit: 5},
			eventColumns + " WHERE id = ? AND type IN (?,?) LIMIT 5",
			[]interface{}{int64(1), "a", "b"},
		},
		{
			Slice{
				Partition:    []interface{}{int64(1), "click"},
				Clustering:   []interface{}{date, []string{"x", "y"}},
				ClusteringIn: true,
			},
			eventColumns + " WHERE id = ? AND type = ? AND date = ? AND name IN (?,?)",
			[]interface{}{int64(1), "click", date, "x", "y"},
		},
		{
			Slice{
				Partition:   []interface{}{int64(1), "click"},
				Clustering:  []interface{}{date},
				From:        "a",
				To:          "m",
				ExclusiveTo: true,
				Reversed:    true,
				Limit:       10,
			},
			eventColumns + " WHERE id = ? AND type = ? AND date = ? AND name >= ? AND name < ? " +
				"ORDER BY date ASC LIMIT 10",
			[]interface{}{int64(1), "click", date, "a", "m"},
		},
		{
			Slice{
				Partition:      []interface{}{int64(1), "click"},
				From:           date,
				ExclusiveFrom:  true,
				AllowFiltering: true,
			},
			eventColumns + " WHERE id = ? AND type = ? AND date > ? ALLOW FILTERING",
			[]interface{}{int64(1), "click", date},
		},
		{
			Slice{Partition: []interface{}{int64(1), "click"}, To: date},
			eventColumns + " WHERE id = ? AND type = ? AND date <= ?",
			[]interface{}{int64(1), "click", date},
		},
	}
	for _, d := range data {
		sel, err := SelectSlice(s.event, d.slice)
		s.NoError(err)
		sql, args := s.sql(sel)
		s.Equal(d.expectedSQL, sql)
		s.Equal(d.expectedArgs, args)
	}
}

// TestSelectSliceReversedAscending tests that reversing an ascending key
// orders rows descending
func (s *StatementSuite) TestSelectSliceReversedAscending() {
	sel, err := SelectSlice(s.stats, Slice{Partition: []interface{}{"home"}, Reversed: true})
	s.NoError(err)
	sql, _ := s.sql(sel)
	s.Equal("SELECT page,day,views,clicks FROM stats WHERE page = ? ORDER BY day DESC", sql)
}

// TestInvalidSlices tests the slices the key layout cannot serve
func (s *StatementSuite) TestInvalidSlices() {
	date := gocql.TimeUUID()
	data := []struct {
		entity   *metadata.EntityMeta
		slice    Slice
		expected error
	}{
		{s.users, Slice{Partition: []interface{}{int64(1)}}, ErrInvalidSlice},
		{s.event, Slice{Partition: []interface{}{int64(1)}}, ErrInvalidSlice},
		{s.event, Slice{Partition: []interface{}{"1", "click"}}, metadata.ErrComponentType},
		{s.event, Slice{Partition: []interface{}{int64(1), nil}}, metadata.ErrComponentNull},
		{
			s.event,
			Slice{
				Partition:    []interface{}{int64(1), "click"},
				Clustering:   []interface{}{[]gocql.UUID{date}},
				ClusteringIn: true,
			},
			ErrInvalidSlice,
		},
		{
			s.event,
			Slice{
				Partition:    []interface{}{int64(1), "click"},
				Clustering:   []interface{}{date, []string{"x"}},
				ClusteringIn: true,
				From:         "a",
			},
			ErrInvalidSlice,
		},
		{
			s.event,
			Slice{Partition: []interface{}{int64(1), "click"}, Clustering: []interface{}{date, "n"}, To: "z"},
			ErrInvalidSlice,
		},
		{
			s.event,
			Slice{Partition: []interface{}{int64(1), "click"}, Clustering: []interface{}{date}, From: 3},
			metadata.ErrComponentType,
		},
	}
	for i, d := range data {
		_, err := SelectSlice(d.entity, d.slice)
		s.Equal(d.expected, errors.Cause(err), "slice %d", i)
	}
}

// TestDeleteSlice tests range deletes
func (s *StatementSuite) TestDeleteSlice() {
	date := gocql.TimeUUID()
	del, err := DeleteSlice(s.event, Slice{
		Partition:  []interface{}{int64(1), "click"},
		Clustering: []interface{}{date},
		From:       "a",
	})
	s.NoError(err)
	sql, args := s.sql(del)
	s.Equal("DELETE FROM events WHERE id = ? AND type = ? AND date = ? AND name >= ?", sql)
	s.Equal([]interface{}{int64(1), "click", date, "a"}, args)

	_, err = DeleteSlice(s.event, Slice{Partition: []interface{}{int64(1), "click"}, Limit: 1})
	s.Equal(ErrInvalidSlice, errors.Cause(err))
}

// TestSelectPartitions tests the distinct partition key query
func (s *StatementSuite) TestSelectPartitions() {
	sql, _ := s.sql(SelectPartitions(s.event, 100))
	s.Equal("SELECT DISTINCT id,type FROM events LIMIT 100", sql)

	sql, _ = s.sql(SelectPartitions(s.users, 0))
	s.Equal("SELECT DISTINCT id FROM users", sql)
}

// TestConditionalWrites tests IF clauses of updates, deletes and inserts
func (s *StatementSuite) TestConditionalWrites() {
	upd, values, err := UpdateForChanges(s.users, &metadatatest.User{ID: 1}, false,
		Change{Type: AssignValue, Property: s.prop(s.users, "name"), Value: "b"})
	s.NoError(err)
	upd, err = UpdateIf(s.users, upd, Condition{Property: s.prop(s.users, "age"), Value: int32(3)})
	s.NoError(err)
	s.True(upd.IsCAS())
	sql, args, err := qb.Bind(upd, values...)
	s.NoError(err)
	s.Equal("UPDATE users SET name = :name WHERE id = :id IF age = ?", sql)
	s.Equal([]interface{}{"b", int64(1), int32(3)}, args)

	upd, err = UpdateIf(s.users, qb.Update("users").Set("name", qb.BindMarker("name")))
	s.NoError(err)
	sql, _ = s.sql(upd)
	s.Equal("UPDATE users SET name = :name IF EXISTS", sql)

	del, err := DeleteIf(s.event, DeleteEntity(s.event, false),
		Condition{Property: s.prop(s.event, "owner")},
		Condition{Property: s.prop(s.event, "labels"), Value: []string{"x"}})
	s.NoError(err)
	sql, args = s.sql(del)
	s.Equal("DELETE FROM events WHERE id = :id AND type = :type AND date = :date AND name = :name "+
		"IF owner = null AND labels = ?", sql)
	s.Equal([]interface{}{[]string{"x"}}, args)

	del, err = DeleteIf(s.users, DeleteEntity(s.users, false))
	s.NoError(err)
	sql, _ = s.sql(del)
	s.Equal("DELETE FROM users WHERE id = :id IF EXISTS", sql)

	insert, err := InsertIfNotExists(s.event, time.Minute)
	s.NoError(err)
	s.True(insert.IsCAS())
	sql, _ = s.sql(insert)
	s.Equal("INSERT INTO events (id,type,date,name,owner,labels,value) "+
		"VALUES (:id,:type,:date,:name,:owner,:labels,:value) IF NOT EXISTS USING TTL 60", sql)

	_, err = InsertIfNotExists(s.stats, 0)
	s.Equal(metadata.ErrUnsupportedConversion, errors.Cause(err))
}

// TestInvalidConditions tests conditions on key, counter and foreign columns
func (s *StatementSuite) TestInvalidConditions() {
	data := []Condition{
		{},
		{Property: s.users.IDMeta(), Value: int64(1)},
		{Property: s.prop(s.users, "visits"), Value: int64(1)},
		{Property: s.prop(s.event, "owner"), Value: "x"},
	}
	for i, c := range data {
		_, err := UpdateIf(s.users, qb.Update("users").Set("name", "x"), c)
		s.Equal(ErrInvalidCondition, errors.Cause(err), "condition %d", i)
	}
}
