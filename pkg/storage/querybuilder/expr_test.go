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

package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqToSql(t *testing.T) {
	b := Eq{"id": 1}
	sql, args, err := b.ToSQL()
	assert.NoError(t, err)

	expectedSQL := "id = ?"
	assert.Equal(t, expectedSQL, sql)

	expectedArgs := []interface{}{1}
	assert.Equal(t, expectedArgs, args)
}

func TestEqInToSql(t *testing.T) {
	b := Eq{"id": []int{1, 2, 3}}
	sql, args, err := b.ToSQL()
	assert.NoError(t, err)

	expectedSQL := "id IN (?,?,?)"
	assert.Equal(t, expectedSQL, sql)

	expectedArgs := []interface{}{1, 2, 3}
	assert.Equal(t, expectedArgs, args)
}

func TestEqBlobIsNotInList(t *testing.T) {
	b := Eq{"raw": []byte("abc")}
	sql, args, err := b.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "raw = ?", sql)
	assert.Equal(t, []interface{}{[]byte("abc")}, args)
}

func TestEqInEmptyToSql(t *testing.T) {
	_, _, err := Eq{"id": []int{}}.ToSQL()
	assert.Error(t, err)
}

func TestEqSortedKeys(t *testing.T) {
	sql, args, err := Eq{"b": 2, "a": 1}.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "a = ? AND b = ?", sql)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestEqBindMarker(t *testing.T) {
	sql, args, err := Eq{"id": BindMarker("id")}.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "id = :id", sql)
	assert.Empty(t, args)
}

func TestEqNilToSql(t *testing.T) {
	_, _, err := Eq{"name": nil}.ToSQL()
	assert.Error(t, err)
}

// TestComparisonToSql tests the range comparison operators
func TestComparisonToSql(t *testing.T) {
	data := []struct {
		pred        Sqlizer
		expectedSQL string
	}{
		{Lt{"id": 1}, "id < ?"},
		{LtOrEq{"id": 1}, "id <= ?"},
		{Gt{"id": 1}, "id > ?"},
		{GtOrEq{"id": 1}, "id >= ?"},
	}
	for _, d := range data {
		sql, args, err := d.pred.ToSQL()
		assert.NoError(t, err)
		assert.Equal(t, d.expectedSQL, sql)
		assert.Equal(t, []interface{}{1}, args)
	}

	_, _, err := Lt{"id": []int{1, 2}}.ToSQL()
	assert.Error(t, err)
}

func TestInToSql(t *testing.T) {
	sql, args, err := In("name", BindMarker("name")).ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "name IN (:name)", sql)
	assert.Empty(t, args)

	sql, args, err = In("name", "a", "b").ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "name IN (?,?)", sql)
	assert.Equal(t, []interface{}{"a", "b"}, args)

	_, _, err = In("name").ToSQL()
	assert.Error(t, err)
}

func TestAndToSql(t *testing.T) {
	b := And{Eq{"a": 1}, expression("b = ?", 2), Eq{"c": BindMarker("c")}}
	sql, args, err := b.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "a = ? AND b = ? AND c = :c", sql)
	assert.Equal(t, []interface{}{1, 2}, args)

	sql, args, err = And{}.ToSQL()
	assert.NoError(t, err)
	assert.Empty(t, sql)
	assert.Empty(t, args)
}

func TestExprToSql(t *testing.T) {
	sql, args, err := Expr("ttl(?)", 30).ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "ttl(?)", sql)
	assert.Equal(t, []interface{}{30}, args)

	sql, _, _ = Null.ToSQL()
	assert.Equal(t, "null", sql)
}
