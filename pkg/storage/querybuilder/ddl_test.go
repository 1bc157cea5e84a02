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
	"github.com/uber/cqlmapper/pkg/storage/cql"
)

func TestCreateTableSimpleKey(t *testing.T) {
	b := CreateTable("users").
		IfNotExists().
		PartitionKey("id", cql.Native(cql.Bigint)).
		Column("name", cql.Native(cql.Text)).
		Column("tags", cql.SetOf(cql.Native(cql.Text))).
		Comment("users' table")

	sql, args, err := b.ToSQL()
	assert.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS users(id bigint, name text, tags set<text>, "+
			"PRIMARY KEY(id)) WITH comment = 'users'' table'", sql)
	assert.Equal(t, CreateTableStmtType, b.StmtType())
	assert.Equal(t, []string{"id", "name", "tags"}, b.GetData().GetColumns())
}

func TestCreateTableCompoundKey(t *testing.T) {
	b := CreateTable("events").
		PartitionKey("id", cql.Native(cql.Bigint)).
		PartitionKey("type", cql.Native(cql.Text)).
		ClusteringKey("date", cql.Native(cql.TimeUUID), cql.Desc).
		ClusteringKey("name", cql.Native(cql.Text), cql.Asc).
		StaticColumn("owner", cql.Native(cql.Text)).
		Column("value", cql.Native(cql.Text))

	sql, _, err := b.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE events(id bigint, type text, date timeuuid, name text, "+
			"owner text static, value text, PRIMARY KEY((id, type), date, name)) "+
			"WITH CLUSTERING ORDER BY (date DESC, name ASC)", sql)
}

func TestCreateTableErrors(t *testing.T) {
	_, _, err := CreateTable("").PartitionKey("id", cql.Native(cql.Int)).ToSQL()
	assert.Error(t, err)

	_, _, err = CreateTable("t").Column("a", cql.Native(cql.Int)).ToSQL()
	assert.Error(t, err)
}

func TestCreateIndex(t *testing.T) {
	b := CreateIndex("users_name").IfNotExists().On("users", "name")
	sql, _, err := b.ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "CREATE INDEX IF NOT EXISTS users_name ON users(name)", sql)
	assert.Equal(t, CreateIndexStmtType, b.StmtType())
	assert.Equal(t, "users", b.GetData().GetResource())

	_, _, err = CreateIndex("x").ToSQL()
	assert.Error(t, err)
}
