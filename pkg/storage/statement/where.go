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

// Package statement generates the CQL statements used to read and write
// entities. Values are bound through named markers in column order.
package statement

import (
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

var (
	// ErrInvalidChange indicates a change that cannot apply to its property.
	ErrInvalidChange = errors.New("invalid change")

	// ErrInvalidQuery indicates a typed query that cannot load the entity.
	ErrInvalidQuery = errors.New("invalid typed query")

	// ErrNotCounter indicates a counter statement on a non counter property.
	ErrNotCounter = errors.New("not a counter")

	// ErrInvalidSlice indicates a slice query the key layout cannot serve.
	ErrInvalidSlice = errors.New("invalid slice query")

	// ErrInvalidCondition indicates an IF condition on a key or counter column.
	ErrInvalidCondition = errors.New("invalid condition")
)

// keyColumns returns the primary key columns of the id property. With
// onlyStatic only the partition columns are returned.
func keyColumns(idMeta *metadata.PropertyMeta, onlyStatic bool) []string {
	return idMeta.ColumnNames(onlyStatic)
}

// InsertPrimaryKey adds every primary key column of idMeta to insert with
// a bind marker.
func InsertPrimaryKey(insert qb.InsertBuilder, idMeta *metadata.PropertyMeta) qb.InsertBuilder {
	return insert.BindColumns(keyColumns(idMeta, false)...)
}

// SelectWhere restricts sel to one row by key. With onlyStatic it targets
// the partition.
func SelectWhere(sel qb.SelectBuilder, idMeta *metadata.PropertyMeta, onlyStatic bool) qb.SelectBuilder {
	for _, c := range keyColumns(idMeta, onlyStatic) {
		sel = sel.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return sel
}

// DeleteWhere restricts del to one row by key. With onlyStatic it targets
// the partition.
func DeleteWhere(del qb.DeleteBuilder, idMeta *metadata.PropertyMeta, onlyStatic bool) qb.DeleteBuilder {
	for _, c := range keyColumns(idMeta, onlyStatic) {
		del = del.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return del
}

// UpdateWhere restricts upd to one row by key. With onlyStatic it targets
// the partition.
func UpdateWhere(upd qb.UpdateBuilder, idMeta *metadata.PropertyMeta, onlyStatic bool) qb.UpdateBuilder {
	for _, c := range keyColumns(idMeta, onlyStatic) {
		upd = upd.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return upd
}

// SelectField adds the columns of prop to sel.
func SelectField(sel qb.SelectBuilder, prop *metadata.PropertyMeta) qb.SelectBuilder {
	return sel.Columns(prop.ColumnNames(false)...)
}

// KeyValues reads the primary key of target and encodes it, one value per
// key column.
func KeyValues(entity *metadata.EntityMeta, target interface{}, onlyStatic bool) ([]interface{}, error) {
	idMeta := entity.IDMeta()
	id, err := idMeta.GetValue(target)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errors.Wrapf(metadata.ErrComponentNull,
			"the primary key of entity '%s' should not be null", entity.ClassName())
	}
	if idMeta.IsEmbeddedID() {
		return idMeta.EncodeToComponents(id, onlyStatic)
	}
	encoded, err := idMeta.Encode(id)
	if err != nil {
		return nil, err
	}
	return []interface{}{encoded}, nil
}

// GenerateWhereClauseForUpdate restricts upd to the row of target with
// named key markers and returns the key values in marker order. They bind
// after the values of the SET clause. A static changed property restricts
// the clause to the partition.
func GenerateWhereClauseForUpdate(
	entity *metadata.EntityMeta,
	target interface{},
	changed *metadata.PropertyMeta,
	upd qb.UpdateBuilder,
) (qb.UpdateBuilder, []interface{}, error) {
	onlyStatic := changed != nil && changed.IsStatic()
	values, err := KeyValues(entity, target, onlyStatic)
	if err != nil {
		return upd, nil, err
	}
	return UpdateWhere(upd, entity.IDMeta(), onlyStatic), values, nil
}
