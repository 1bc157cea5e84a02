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

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uber/cqlmapper/pkg/storage/metadata/metadatatest"
)

// TestScriptSimpleID tests the script of an entity with indexes and counters
func TestScriptSimpleID(t *testing.T) {
	script, err := NewTableCreator().Script(metadatatest.UserMeta())
	assert.NoError(t, err)
	assert.Equal(t, "users", script.Table)
	assert.Equal(t, []string{
		"CREATE TABLE users(id bigint, name text, age int, status text, tags set<text>, " +
			"emails list<text>, prefs map<text, int>, friends list<timeuuid>, " +
			"PRIMARY KEY(id)) WITH comment = 'users of the system'",
		"CREATE INDEX users_name ON users(name)",
	}, script.Statements)
}

// TestScriptCompoundKey tests the script of an entity with a compound key
func TestScriptCompoundKey(t *testing.T) {
	script, err := NewTableCreator().Script(metadatatest.EventMeta())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE events(id bigint, type text, date timeuuid, name text, owner text static, " +
			"labels list<text>, value text, PRIMARY KEY((id, type), date, name)) " +
			"WITH CLUSTERING ORDER BY (date DESC, name ASC)",
	}, script.Statements)
}

// TestScriptClusteredCounter tests the script of a clustered counter entity
func TestScriptClusteredCounter(t *testing.T) {
	script, err := NewTableCreator().Script(metadatatest.StatsMeta())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE stats(page text, day text, views counter, clicks counter, " +
			"PRIMARY KEY(page, day)) WITH CLUSTERING ORDER BY (day ASC) " +
			"AND comment = 'Create table for clustered counter entity \"Stats\"'",
	}, script.Statements)
}

// TestCounterTableScript tests the script of the shared counter table
func TestCounterTableScript(t *testing.T) {
	script := NewTableCreator().CounterTableScript()
	assert.Equal(t, "cqlmapper_counters", script.Table)
	assert.Equal(t, []string{
		"CREATE TABLE cqlmapper_counters(fqcn text, primary_key text, property_name text, " +
			"counter_value counter, PRIMARY KEY((fqcn, primary_key), property_name)) " +
			"WITH CLUSTERING ORDER BY (property_name ASC) " +
			"AND comment = 'Create default counter table \"cqlmapper_counters\"'",
	}, script.Statements)
}
