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

// Package schema creates and validates the tables backing entities.
package schema

import (
	"fmt"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
	"github.com/uber/cqlmapper/pkg/storage/statement"
)

// Script is the DDL creating one table: CREATE TABLE first, then one
// CREATE INDEX per indexed column.
type Script struct {
	Table      string
	Statements []string
}

// TableCreator renders the DDL of entity tables.
type TableCreator struct{}

// NewTableCreator returns a TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

func (c *TableCreator) primaryKey(
	create qb.CreateTableBuilder,
	idMeta *metadata.PropertyMeta,
) (qb.CreateTableBuilder, error) {
	if !idMeta.IsEmbeddedID() {
		t, err := idMeta.CQLType()
		if err != nil {
			return create, err
		}
		return create.PartitionKey(idMeta.CQLName(), t), nil
	}
	key := idMeta.CompoundKey()
	for _, comp := range key.Partition().Components() {
		t, err := comp.CQLType()
		if err != nil {
			return create, err
		}
		create = create.PartitionKey(comp.Name, t)
	}
	for _, comp := range key.Clustering().Components() {
		t, err := comp.CQLType()
		if err != nil {
			return create, err
		}
		create = create.ClusteringKey(comp.Name, t, comp.Order)
	}
	return create, nil
}

// Script renders the DDL of the entity table. Counters of a regular entity
// live in the counter table and get no column.
func (c *TableCreator) Script(entity *metadata.EntityMeta) (Script, error) {
	table := entity.TableName()
	create, err := c.primaryKey(qb.CreateTable(table), entity.IDMeta())
	if err != nil {
		return Script{}, err
	}

	var indexes []string
	for _, p := range entity.TableColumns() {
		t, err := p.CQLType()
		if err != nil {
			return Script{}, err
		}
		if p.IsStatic() {
			create = create.StaticColumn(p.CQLName(), t)
		} else {
			create = create.Column(p.CQLName(), t)
		}
		if p.IsIndexed() {
			idx, _, err := qb.CreateIndex(p.IndexName(table)).On(table, p.CQLName()).ToSQL()
			if err != nil {
				return Script{}, err
			}
			indexes = append(indexes, idx)
		}
	}

	if entity.IsClusteredCounter() {
		create = create.Comment(fmt.Sprintf("Create table for clustered counter entity \"%s\"", entity.ClassName()))
	} else if len(entity.Comment()) > 0 {
		create = create.Comment(entity.Comment())
	}

	stmt, _, err := create.ToSQL()
	if err != nil {
		return Script{}, err
	}
	return Script{Table: table, Statements: append([]string{stmt}, indexes...)}, nil
}

// CounterTableScript renders the DDL of the shared counter table.
func (c *TableCreator) CounterTableScript() Script {
	text := cql.Native(cql.Text)
	stmt, _, _ := qb.CreateTable(statement.CounterTable).
		PartitionKey(statement.CounterFQCN, text).
		PartitionKey(statement.CounterPrimaryKey, text).
		ClusteringKey(statement.CounterPropertyName, text, cql.Asc).
		Column(statement.CounterValue, cql.Native(cql.Counter)).
		Comment(fmt.Sprintf("Create default counter table \"%s\"", statement.CounterTable)).
		ToSQL()
	return Script{Table: statement.CounterTable, Statements: []string{stmt}}
}
