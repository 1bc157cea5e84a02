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
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

// Shared counter table storing the counters of regular entities.
const (
	CounterTable        = "cqlmapper_counters"
	CounterFQCN         = "fqcn"
	CounterPrimaryKey   = "primary_key"
	CounterPropertyName = "property_name"
	CounterValue        = "counter_value"
)

func counterWhere(upd qb.UpdateBuilder) qb.UpdateBuilder {
	for _, c := range []string{CounterFQCN, CounterPrimaryKey, CounterPropertyName} {
		upd = upd.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return upd
}

// IncrCounter increments one counter of the shared table. It binds the
// delta, then the counter key.
func IncrCounter() qb.UpdateBuilder {
	return counterWhere(qb.Update(CounterTable).Add(CounterValue, qb.BindMarker(CounterValue)))
}

// DecrCounter decrements one counter of the shared table. It binds the
// delta, then the counter key.
func DecrCounter() qb.UpdateBuilder {
	return counterWhere(qb.Update(CounterTable).Remove(CounterValue, qb.BindMarker(CounterValue)))
}

// SelectCounter reads one counter of the shared table.
func SelectCounter() qb.SelectBuilder {
	sel := qb.Select(CounterValue).From(CounterTable)
	for _, c := range []string{CounterFQCN, CounterPrimaryKey, CounterPropertyName} {
		sel = sel.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return sel
}

// DeleteCounter deletes one counter of the shared table.
func DeleteCounter() qb.DeleteBuilder {
	del := qb.Delete(CounterTable)
	for _, c := range []string{CounterFQCN, CounterPrimaryKey, CounterPropertyName} {
		del = del.Where(qb.Eq{c: qb.BindMarker(c)})
	}
	return del
}

// DeleteAllCounters deletes every counter of one entity instance.
func DeleteAllCounters() qb.DeleteBuilder {
	return qb.Delete(CounterTable).
		Where(qb.Eq{CounterFQCN: qb.BindMarker(CounterFQCN)}).
		Where(qb.Eq{CounterPrimaryKey: qb.BindMarker(CounterPrimaryKey)})
}

// CounterKey returns the key of a counter in the shared table: the entity
// class, the primary key of target as JSON and the counter column.
func CounterKey(entity *metadata.EntityMeta, target interface{}, prop *metadata.PropertyMeta) ([]interface{}, error) {
	if !prop.IsCounter() {
		return nil, errors.Wrapf(ErrNotCounter,
			"property '%s' of entity '%s' is not a counter", prop.Name(), entity.ClassName())
	}
	idMeta := entity.IDMeta()
	id, err := idMeta.GetValue(target)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errors.Wrapf(metadata.ErrComponentNull,
			"the primary key of entity '%s' should not be null", entity.ClassName())
	}
	pk, err := idMeta.ForceEncodeToJSON(id)
	if err != nil {
		return nil, err
	}
	return []interface{}{entity.ClassName(), pk, prop.CQLName()}, nil
}

func checkClusteredCounter(entity *metadata.EntityMeta, props ...*metadata.PropertyMeta) error {
	if !entity.IsClusteredCounter() {
		return errors.Wrapf(ErrNotCounter,
			"entity '%s' is not a clustered counter", entity.ClassName())
	}
	for _, p := range props {
		if !p.IsCounter() {
			return errors.Wrapf(ErrNotCounter,
				"property '%s' of entity '%s' is not a counter", p.Name(), entity.ClassName())
		}
	}
	return nil
}

// IncrClusteredCounter increments one counter column of a clustered
// counter entity. It binds the delta, then the key.
func IncrClusteredCounter(entity *metadata.EntityMeta, prop *metadata.PropertyMeta) (qb.UpdateBuilder, error) {
	if err := checkClusteredCounter(entity, prop); err != nil {
		return qb.UpdateBuilder{}, err
	}
	col := prop.CQLName()
	upd := qb.Update(entity.TableName()).Add(col, qb.BindMarker(col))
	return UpdateWhere(upd, entity.IDMeta(), false), nil
}

// DecrClusteredCounter decrements one counter column of a clustered
// counter entity.
func DecrClusteredCounter(entity *metadata.EntityMeta, prop *metadata.PropertyMeta) (qb.UpdateBuilder, error) {
	if err := checkClusteredCounter(entity, prop); err != nil {
		return qb.UpdateBuilder{}, err
	}
	col := prop.CQLName()
	upd := qb.Update(entity.TableName()).Remove(col, qb.BindMarker(col))
	return UpdateWhere(upd, entity.IDMeta(), false), nil
}

// SelectClusteredCounters reads every counter column of one row.
func SelectClusteredCounters(entity *metadata.EntityMeta) (qb.SelectBuilder, error) {
	if err := checkClusteredCounter(entity); err != nil {
		return qb.SelectBuilder{}, err
	}
	return SelectEntity(entity), nil
}

// DeleteClusteredCounters deletes one row of a clustered counter entity.
func DeleteClusteredCounters(entity *metadata.EntityMeta) (qb.DeleteBuilder, error) {
	if err := checkClusteredCounter(entity); err != nil {
		return qb.DeleteBuilder{}, err
	}
	return DeleteEntity(entity, false), nil
}
