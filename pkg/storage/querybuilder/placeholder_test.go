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

func TestScanMarkers(t *testing.T) {
	data := []struct {
		sql      string
		expected []marker
	}{
		{"SELECT a FROM t", nil},
		{"x = ? AND y = :y", []marker{{}, {named: true, name: "y"}}},
		{"x = :x_1 AND y = ?", []marker{{named: true, name: "x_1"}, {}}},
		{"c = 'a?b:c' AND d = ?", []marker{{}}},
		{"c = 'it''s ?' AND \"Col?\" = :v", []marker{{named: true, name: "v"}}},
		{"m = {'k': ?}", []marker{{}}},
		{"h[:key] = null", []marker{{named: true, name: "key"}}},
	}
	for _, d := range data {
		assert.Equal(t, d.expected, scanMarkers(d.sql), d.sql)
	}
}

// TestBindInterleaves tests that args and values follow the statement order
func TestBindInterleaves(t *testing.T) {
	stmt := Update("users").
		Using("TTL ?", 10).
		Set("name", BindMarker("name")).
		Set("age", 3).
		Where(Eq{"id": BindMarker("id")}).
		IfOnly(Eq{"age": 2})

	sql, args, err := Bind(stmt, "bob", int64(7))
	assert.NoError(t, err)
	assert.Equal(t,
		"UPDATE users USING TTL ? SET name = :name, age = ? WHERE id = :id IF age = ?", sql)
	assert.Equal(t, []interface{}{10, "bob", 3, int64(7), 2}, args)
}

func TestBindNoValues(t *testing.T) {
	sql, args, err := Bind(Select("a").From("t").Where(Eq{"b": 1}))
	assert.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t WHERE b = ?", sql)
	assert.Equal(t, []interface{}{1}, args)
}

func TestBindErrors(t *testing.T) {
	_, _, err := Bind(Select("a").From("t").Where(Eq{"b": BindMarker("b")}))
	assert.Error(t, err)

	_, _, err = Bind(Select("a").From("t").Where(Eq{"b": BindMarker("b")}), 1, 2)
	assert.Error(t, err)

	_, _, err = Bind(Expr("SELECT a FROM t WHERE b = ?"))
	assert.Error(t, err)

	_, _, err = Bind(Expr("SELECT a FROM t", 1))
	assert.Error(t, err)

	_, _, err = Bind(Select("a"))
	assert.Error(t, err)
}
