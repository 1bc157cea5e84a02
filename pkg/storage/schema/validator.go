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
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/statement"
)

// TableValidator checks live table metadata against entity metadata.
type TableValidator struct {
	cfg *Config
}

// NewTableValidator returns a TableValidator for the given flags.
func NewTableValidator(cfg *Config) *TableValidator {
	if cfg == nil {
		cfg = &Config{}
	}
	return &TableValidator{cfg: cfg}
}

// Validate compares the live table with the entity. With schema update
// enabled, missing non key columns are tolerated and returned.
func (v *TableValidator) Validate(
	entity *metadata.EntityMeta,
	table cql.TableMetadata,
) ([]string, error) {
	if err := v.validateKey(entity, table); err != nil {
		return nil, err
	}

	tolerateMissing := v.cfg.SchemaUpdateEnabled || entity.IsSchemaUpdateEnabled()
	var tolerated []string
	for _, p := range entity.TableColumns() {
		column, ok := table.Column(p.CQLName())
		if !ok {
			if tolerateMissing {
				tolerated = append(tolerated, p.CQLName())
				continue
			}
			return nil, errors.Wrapf(metadata.ErrSchemaMissing,
				"Cannot find column '%s' in the table '%s'", p.CQLName(), table.Name())
		}
		if err := v.validateColumn(p, column, table.Name()); err != nil {
			return nil, err
		}
	}
	return tolerated, nil
}

func (v *TableValidator) validateKey(entity *metadata.EntityMeta, table cql.TableMetadata) error {
	idMeta := entity.IDMeta()
	if !idMeta.IsEmbeddedID() {
		expected, err := idMeta.CQLType()
		if err != nil {
			return err
		}
		column, err := findColumn(table, idMeta.CQLName())
		if err != nil {
			return err
		}
		if err := checkType(column, table.Name(), expected); err != nil {
			return err
		}
		return checkRole(column, table.Name(), cql.PartitionKeyColumn)
	}

	key := idMeta.CompoundKey()
	for _, comp := range key.Partition().Components() {
		if err := validateComponent(comp, table, cql.PartitionKeyColumn); err != nil {
			return err
		}
	}
	for _, comp := range key.Clustering().Components() {
		if err := validateComponent(comp, table, cql.ClusteringColumn); err != nil {
			return err
		}
	}
	return nil
}

func validateComponent(comp metadata.Component, table cql.TableMetadata, kind cql.ColumnKind) error {
	expected, err := comp.CQLType()
	if err != nil {
		return err
	}
	column, err := findColumn(table, comp.Name)
	if err != nil {
		return err
	}
	if err := checkType(column, table.Name(), expected); err != nil {
		return err
	}
	if err := checkRole(column, table.Name(), kind); err != nil {
		return err
	}
	if kind == cql.ClusteringColumn && column.Order != comp.Order {
		return errors.Wrapf(metadata.ErrSchemaMismatch,
			"Column '%s' of table '%s' should have clustering order '%s'",
			comp.Name, table.Name(), comp.Order)
	}
	return nil
}

func (v *TableValidator) validateColumn(p *metadata.PropertyMeta, column *cql.ColumnInfo, table string) error {
	expected, err := p.CQLType()
	if err != nil {
		return err
	}
	if err := checkType(column, table, expected); err != nil {
		return err
	}
	if p.IsStatic() != (column.Kind == cql.StaticColumn) {
		return errors.Wrapf(metadata.ErrSchemaMismatch,
			"Column '%s' of table '%s' static state mismatch: expected static=%t",
			column.Name, table, p.IsStatic())
	}
	if p.Kind() == metadata.SimpleProperty && !v.cfg.RelaxIndexValidation &&
		p.IsIndexed() != column.Indexed() {
		return errors.Wrapf(metadata.ErrSchemaMismatch,
			"Column '%s' of table '%s' index state mismatch: expected indexed=%t",
			column.Name, table, p.IsIndexed())
	}
	return nil
}

// ValidateCounterTable checks the shared counter table layout.
func (v *TableValidator) ValidateCounterTable(ks cql.KeyspaceMetadata) error {
	table, ok := ks.Table(statement.CounterTable)
	if !ok {
		return errors.Wrapf(metadata.ErrSchemaMissing,
			"Cannot find table '%s' from keyspace '%s'", statement.CounterTable, ks.Name())
	}
	text := cql.Native(cql.Text)
	expected := []struct {
		name string
		typ  cql.Type
		kind cql.ColumnKind
	}{
		{statement.CounterFQCN, text, cql.PartitionKeyColumn},
		{statement.CounterPrimaryKey, text, cql.PartitionKeyColumn},
		{statement.CounterPropertyName, text, cql.ClusteringColumn},
		{statement.CounterValue, cql.Native(cql.Counter), cql.RegularColumn},
	}
	for _, e := range expected {
		column, ok := table.Column(e.name)
		if !ok {
			return errors.Wrapf(metadata.ErrSchemaMissing,
				"Cannot find column '%s' from table '%s'", e.name, table.Name())
		}
		if err := checkType(column, table.Name(), e.typ); err != nil {
			return err
		}
		if e.kind != cql.RegularColumn {
			if err := checkRole(column, table.Name(), e.kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func findColumn(table cql.TableMetadata, name string) (*cql.ColumnInfo, error) {
	column, ok := table.Column(name)
	if !ok {
		return nil, errors.Wrapf(metadata.ErrSchemaMissing,
			"Cannot find column '%s' in the table '%s'", name, table.Name())
	}
	return column, nil
}

func checkType(column *cql.ColumnInfo, table string, expected cql.Type) error {
	if !column.Type.Equivalent(expected) {
		return errors.Wrapf(metadata.ErrSchemaMismatch,
			"Column '%s' of table '%s' of type '%s' should be of type '%s' indeed",
			column.Name, table, column.Type, expected)
	}
	return nil
}

func checkRole(column *cql.ColumnInfo, table string, kind cql.ColumnKind) error {
	if column.Kind == kind {
		return nil
	}
	if kind == cql.PartitionKeyColumn {
		return errors.Wrapf(metadata.ErrSchemaMismatch,
			"Column '%s' of table '%s' should be a partition key component", column.Name, table)
	}
	return errors.Wrapf(metadata.ErrSchemaMismatch,
		"Column '%s' of table '%s' should be a clustering key component", column.Name, table)
}
