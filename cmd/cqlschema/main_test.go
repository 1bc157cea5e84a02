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

package main

import (
	"bytes"
	"testing"

	"github.com/gocql/gocql"
	"github.com/pborman/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/schema"
	"github.com/uber/cqlmapper/pkg/storage/statement"
)

const testEntities = `
entities:
  - name: User
    table: Users
    comment: users of the system
    partition:
      - {name: id, type: bigint}
    columns:
      - {name: name, type: text, indexed: true}
      - {name: tags, kind: set, type: text}
      - {name: prefs, kind: map, key: text, type: int}
    counters: [visits]
  - name: Event
    table: events
    schema_update: true
    partition:
      - {name: id, type: bigint}
      - {name: type, type: varchar}
    clustering:
      - {name: date, type: timeuuid, order: desc}
    columns:
      - {name: owner, type: text, static: true}
      - {name: labels, kind: list, type: text}
  - name: Stats
    table: stats
    clustered_counter: true
    partition:
      - {name: page, type: text}
    clustering:
      - {name: day, type: text}
    counters: [views]
`

type CQLSchemaTestSuite struct {
	suite.Suite
	entities []*metadata.EntityMeta
}

func TestCQLSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(CQLSchemaTestSuite))
}

func (suite *CQLSchemaTestSuite) SetupTest() {
	entities, err := parseEntities([]byte(testEntities))
	suite.Require().NoError(err)
	suite.Require().Len(entities, 3)
	suite.entities = entities
}

// TestParseEntities tests the metadata built from descriptions
func (suite *CQLSchemaTestSuite) TestParseEntities() {
	users, events, stats := suite.entities[0], suite.entities[1], suite.entities[2]

	suite.Equal("users", users.TableName())
	suite.False(users.IDMeta().IsEmbeddedID())
	suite.True(users.HasCounters())
	name, ok := users.Property("name")
	suite.True(ok)
	suite.True(name.IsIndexed())

	suite.True(events.IDMeta().IsEmbeddedID())
	suite.True(events.IsSchemaUpdateEnabled())
	suite.Equal([]string{"id", "type", "date"}, events.IDMeta().ColumnNames(false))
	suite.Equal([]cql.ClusteringOrder{cql.Desc}, events.IDMeta().CompoundKey().ClusteringOrders())

	suite.True(stats.IsClusteredCounter())
}

// TestRecordValues tests that record entities encode through the metadata
func (suite *CQLSchemaTestSuite) TestRecordValues() {
	events := suite.entities[1]
	date := gocql.TimeUUID()
	record := metadata.Record{
		"key":    metadata.Record{"id": int64(7), "type": "click", "date": date},
		"owner":  "bob",
		"labels": []string{"a"},
	}
	values, err := statement.KeyValues(events, record, false)
	suite.NoError(err)
	suite.Equal([]interface{}{int64(7), "click", date}, values)

	owner, ok := events.Property("owner")
	suite.True(ok)
	v, err := owner.GetAndEncodeForWire(record)
	suite.NoError(err)
	suite.Equal("bob", v)
}

// TestPrintDDL tests the rendered script of all entities
func (suite *CQLSchemaTestSuite) TestPrintDDL() {
	var out bytes.Buffer
	suite.NoError(printDDL(&out, suite.entities))
	suite.Equal(
		"CREATE TABLE users(id bigint, name text, tags set<text>, prefs map<text, int>, "+
			"PRIMARY KEY(id)) WITH comment = 'users of the system';\n"+
			"CREATE INDEX users_name ON users(name);\n"+
			"CREATE TABLE events(id bigint, type text, date timeuuid, owner text static, "+
			"labels list<text>, PRIMARY KEY((id, type), date)) "+
			"WITH CLUSTERING ORDER BY (date DESC);\n"+
			"CREATE TABLE stats(page text, day text, views counter, PRIMARY KEY(page, day)) "+
			"WITH CLUSTERING ORDER BY (day ASC) "+
			"AND comment = 'Create table for clustered counter entity \"Stats\"';\n"+
			"CREATE TABLE cqlmapper_counters(fqcn text, primary_key text, property_name text, "+
			"counter_value counter, PRIMARY KEY((fqcn, primary_key), property_name)) "+
			"WITH CLUSTERING ORDER BY (property_name ASC) "+
			"AND comment = 'Create default counter table \"cqlmapper_counters\"';\n",
		out.String())
}

// TestUUIDColumns tests pborman uuid records and timeuuid map keys
func (suite *CQLSchemaTestSuite) TestUUIDColumns() {
	entities, err := parseEntities([]byte(`
entities:
  - name: Session
    table: sessions
    partition:
      - {name: id, type: uuid, uuid: pborman}
    columns:
      - {name: parent, type: timeuuid, uuid: pborman}
      - {name: seen, kind: map, key: timeuuid, type: text, uuid: pborman}
      - {name: agent, type: text, uuid: pborman}
`))
	suite.Require().NoError(err)
	sessions := entities[0]

	id := uuid.NewRandom()
	wire, err := sessions.IDMeta().Encode(id)
	suite.NoError(err)
	suite.Equal(gocql.UUID(id.Array()), wire)
	back, err := sessions.IDMeta().Decode(wire)
	suite.NoError(err)
	suite.Equal(id, back)

	parent, ok := sessions.Property("parent")
	suite.Require().True(ok)
	typ, err := parent.CQLType()
	suite.NoError(err)
	suite.Equal("timeuuid", typ.String())

	seen, ok := sessions.Property("seen")
	suite.Require().True(ok)
	typ, err = seen.CQLType()
	suite.NoError(err)
	suite.Equal("map<timeuuid, text>", typ.String())
	key, err := seen.EncodeKey(id)
	suite.NoError(err)
	suite.Equal(gocql.UUID(id.Array()), key)

	agent, ok := sessions.Property("agent")
	suite.Require().True(ok)
	v, err := agent.Encode("curl")
	suite.NoError(err)
	suite.Equal("curl", v)
}

// TestPrintStates tests the sorted table report
func (suite *CQLSchemaTestSuite) TestPrintStates() {
	var out bytes.Buffer
	printStates(&out, map[string]schema.TableState{
		"users":  schema.Validated,
		"events": schema.Created,
		"stats":  schema.Failed,
	})
	suite.Equal("events\tcreated\nstats\tfailed\nusers\tvalidated\n", out.String())
}

// TestInvalidDescriptions tests rejected entity descriptions
func (suite *CQLSchemaTestSuite) TestInvalidDescriptions() {
	data := []string{
		`entities: [{name: A, table: a}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: counter}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: list}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: frozen}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: int}], clustering: [{name: c, type: int, order: up}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: int}], columns: [{name: c, type: int, kind: tuple}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: int}], columns: [{name: c, type: int, kind: list, indexed: true}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: int}], columns: [{name: c, type: int, static: true}]}]`,
		`entities: [{name: A, table: a, partition: [{name: id, type: uuid, uuid: ulid}]}]`,
		`entities: [`,
	}
	for _, d := range data {
		_, err := parseEntities([]byte(d))
		suite.Error(err, d)
	}
}
