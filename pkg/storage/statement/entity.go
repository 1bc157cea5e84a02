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
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

// Columns returns every column of the entity table, key columns first.
// Counters of a regular entity live in the counter table and are left out.
func Columns(entity *metadata.EntityMeta) []string {
	columns := keyColumns(entity.IDMeta(), false)
	for _, p := range entity.TableColumns() {
		columns = append(columns, p.CQLName())
	}
	return columns
}

// Insert builds an INSERT of every column with one bind marker per column.
// A zero ttl or timestamp is omitted.
func Insert(entity *metadata.EntityMeta, ttl time.Duration, timestamp int64) (qb.InsertBuilder, error) {
	if entity.IsClusteredCounter() {
		return qb.InsertBuilder{}, errors.Wrapf(metadata.ErrUnsupportedConversion,
			"cannot insert clustered counter entity '%s', use counter updates", entity.ClassName())
	}
	insert := InsertPrimaryKey(qb.Insert(entity.TableName()), entity.IDMeta())
	for _, p := range entity.TableColumns() {
		insert = insert.BindColumns(p.CQLName())
	}
	if ttl > 0 {
		insert = insert.Using(fmt.Sprintf("TTL %d", int64(ttl/time.Second)))
	}
	if timestamp > 0 {
		insert = insert.Using(fmt.Sprintf("TIMESTAMP %d", timestamp))
	}
	return insert, nil
}

// BoundValuesForInsert returns the values bound by Insert, in column order.
// A null collection that defaults to empty is written as empty.
func BoundValuesForInsert(entity *metadata.EntityMeta, target interface{}) ([]interface{}, error) {
	values, err := KeyValues(entity, target, false)
	if err != nil {
		return nil, err
	}
	for _, p := range entity.TableColumns() {
		v, err := p.GetValue(target)
		if err != nil {
			return nil, err
		}
		if v == nil && p.IsCollection() {
			v = p.NullValueForCollection()
		}
		var encoded interface{}
		if v != nil {
			if encoded, err = p.Encode(v); err != nil {
				return nil, err
			}
		}
		values = append(values, encoded)
	}
	return values, nil
}

// SelectEntity builds the SELECT loading one entity by key.
func SelectEntity(entity *metadata.EntityMeta) qb.SelectBuilder {
	sel := qb.Select(Columns(entity)...).From(entity.TableName())
	return SelectWhere(sel, entity.IDMeta(), false)
}

// DeleteEntity builds the DELETE of one entity by key. With onlyStatic the
// whole partition is deleted.
func DeleteEntity(entity *metadata.EntityMeta, onlyStatic bool) qb.DeleteBuilder {
	return DeleteWhere(qb.Delete(entity.TableName()), entity.IDMeta(), onlyStatic)
}
