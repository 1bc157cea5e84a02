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
	"reflect"

	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

// Slice selects a range of rows of a compound key entity. Values are raw
// component values; they are validated and encoded against the key.
type Slice struct {
	// Partition holds one value per partition component. With PartitionIn
	// the last value holds the candidates of the last partition component.
	Partition   []interface{}
	PartitionIn bool

	// Clustering is an equality prefix of the clustering components. With
	// ClusteringIn the last value holds the candidates of the last
	// clustering component.
	Clustering   []interface{}
	ClusteringIn bool

	// From and To bound the clustering component that follows the prefix.
	// Bounds are inclusive unless marked exclusive, and compare column
	// values whatever the clustering order.
	From          interface{}
	To            interface{}
	ExclusiveFrom bool
	ExclusiveTo   bool

	// Reversed reads rows against the clustering order.
	Reversed       bool
	Limit          uint64
	AllowFiltering bool
}

// keyGroup validates and encodes the values of one segment of a compound
// key.
type keyGroup struct {
	group      *metadata.ComponentGroup
	validate   func(string, ...interface{}) error
	validateIn func(string, ...interface{}) error
	encode     func(...interface{}) ([]interface{}, error)
	encodeIn   func(...interface{}) ([]interface{}, error)
}

func partitionGroup(key *metadata.CompoundKey) keyGroup {
	return keyGroup{
		group:      key.Partition(),
		validate:   key.ValidatePartitionComponents,
		validateIn: key.ValidatePartitionComponentsIn,
		encode:     key.EncodePartitionComponents,
		encodeIn:   key.EncodePartitionComponentsIN,
	}
}

func clusteringGroup(key *metadata.CompoundKey) keyGroup {
	return keyGroup{
		group:      key.Clustering(),
		validate:   key.ValidateClusteringComponents,
		validateIn: key.ValidateClusteringComponentsIn,
		encode:     key.EncodeClusteringKeys,
		encodeIn:   key.EncodeClusteringKeysIN,
	}
}

// candidates expands an IN value into its elements. A value of the
// component type itself, such as a blob, is a single candidate.
func candidates(v interface{}, elem reflect.Type) []interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type() == elem {
		return []interface{}{v}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// predicates returns one equality per value, or an IN on the last
// component when in is set.
func (g keyGroup) predicates(className string, values []interface{}, in bool) ([]qb.Sqlizer, error) {
	names := g.group.Names()
	if !in {
		if err := g.validate(className, values...); err != nil {
			return nil, err
		}
		encoded, err := g.encode(values...)
		if err != nil {
			return nil, err
		}
		preds := make([]qb.Sqlizer, len(encoded))
		for i, v := range encoded {
			preds[i] = qb.Eq{names[i]: v}
		}
		return preds, nil
	}

	if err := g.validateIn(className, values...); err != nil {
		return nil, err
	}
	last := len(values) - 1
	if last != g.group.Len()-1 {
		return nil, errors.Wrapf(ErrInvalidSlice,
			"IN only applies to the last component '%s' for querying on entity '%s'",
			names[len(names)-1], className)
	}
	encoded, err := g.encode(values[:last]...)
	if err != nil {
		return nil, err
	}
	inValues, err := g.encodeIn(candidates(values[last], g.group.Component(last).Type())...)
	if err != nil {
		return nil, err
	}
	preds := make([]qb.Sqlizer, 0, len(values))
	for i, v := range encoded {
		preds = append(preds, qb.Eq{names[i]: v})
	}
	return append(preds, qb.In(names[last], inValues...)), nil
}

func sliceKey(entity *metadata.EntityMeta) (*metadata.CompoundKey, error) {
	if !entity.IDMeta().IsEmbeddedID() {
		return nil, errors.Wrapf(ErrInvalidSlice,
			"entity '%s' has no compound key to slice on", entity.ClassName())
	}
	return entity.IDMeta().CompoundKey(), nil
}

// slicePredicates returns the WHERE predicates of a slice in key order.
func slicePredicates(entity *metadata.EntityMeta, key *metadata.CompoundKey, s Slice) ([]qb.Sqlizer, error) {
	className := entity.ClassName()
	if len(s.Partition) != key.Partition().Len() {
		return nil, errors.Wrapf(ErrInvalidSlice,
			"a slice of entity '%s' needs all '%d' partition components, got '%d'",
			className, key.Partition().Len(), len(s.Partition))
	}
	preds, err := partitionGroup(key).predicates(className, s.Partition, s.PartitionIn)
	if err != nil {
		return nil, err
	}
	if len(s.Clustering) > 0 {
		clustering, err := clusteringGroup(key).predicates(className, s.Clustering, s.ClusteringIn)
		if err != nil {
			return nil, err
		}
		preds = append(preds, clustering...)
	}

	bounds, err := rangePredicate(className, key, s)
	if err != nil {
		return nil, err
	}
	if len(bounds) > 0 {
		preds = append(preds, bounds)
	}
	return preds, nil
}

// rangePredicate bounds the clustering component following the prefix.
func rangePredicate(className string, key *metadata.CompoundKey, s Slice) (qb.And, error) {
	if s.From == nil && s.To == nil {
		return nil, nil
	}
	if s.ClusteringIn {
		return nil, errors.Wrapf(ErrInvalidSlice,
			"a range cannot follow an IN restriction for querying on entity '%s'", className)
	}
	pos := len(s.Clustering)
	if pos >= key.Clustering().Len() {
		return nil, errors.Wrapf(ErrInvalidSlice,
			"no clustering component is left to bound for querying on entity '%s'", className)
	}
	column := key.Clustering().Component(pos).Name

	var preds qb.And
	if s.From != nil {
		v, err := boundValue(className, key, s.Clustering, s.From)
		if err != nil {
			return nil, err
		}
		if s.ExclusiveFrom {
			preds = append(preds, qb.Gt{column: v})
		} else {
			preds = append(preds, qb.GtOrEq{column: v})
		}
	}
	if s.To != nil {
		v, err := boundValue(className, key, s.Clustering, s.To)
		if err != nil {
			return nil, err
		}
		if s.ExclusiveTo {
			preds = append(preds, qb.Lt{column: v})
		} else {
			preds = append(preds, qb.LtOrEq{column: v})
		}
	}
	return preds, nil
}

// boundValue validates and encodes a bound at the position after prefix.
func boundValue(className string, key *metadata.CompoundKey, prefix []interface{}, bound interface{}) (interface{}, error) {
	values := append(append([]interface{}{}, prefix...), bound)
	if err := key.ValidateClusteringComponents(className, values...); err != nil {
		return nil, err
	}
	encoded, err := key.EncodeClusteringKeys(values...)
	if err != nil {
		return nil, err
	}
	return encoded[len(encoded)-1], nil
}

func reverse(o cql.ClusteringOrder) cql.ClusteringOrder {
	if o == cql.Desc {
		return cql.Asc
	}
	return cql.Desc
}

// SelectSlice builds the SELECT of the rows of a slice.
func SelectSlice(entity *metadata.EntityMeta, s Slice) (qb.SelectBuilder, error) {
	sel := qb.Select(Columns(entity)...).From(entity.TableName())
	key, err := sliceKey(entity)
	if err != nil {
		return sel, err
	}
	preds, err := slicePredicates(entity, key, s)
	if err != nil {
		return sel, err
	}
	for _, p := range preds {
		sel = sel.Where(p)
	}
	if s.Reversed {
		if column, ok := key.OrderingComponent(); ok {
			sel = sel.OrderBy(column + " " + reverse(key.ClusteringOrders()[0]).String())
		}
	}
	if s.Limit > 0 {
		sel = sel.Limit(s.Limit)
	}
	if s.AllowFiltering {
		sel = sel.AllowFiltering()
	}
	return sel, nil
}

// DeleteSlice builds the DELETE of the rows of a slice. A delete takes no
// read options.
func DeleteSlice(entity *metadata.EntityMeta, s Slice) (qb.DeleteBuilder, error) {
	del := qb.Delete(entity.TableName())
	if s.Reversed || s.Limit > 0 || s.AllowFiltering {
		return del, errors.Wrapf(ErrInvalidSlice,
			"a delete on entity '%s' takes no read options", entity.ClassName())
	}
	key, err := sliceKey(entity)
	if err != nil {
		return del, err
	}
	preds, err := slicePredicates(entity, key, s)
	if err != nil {
		return del, err
	}
	for _, p := range preds {
		del = del.Where(p)
	}
	return del, nil
}

// SelectPartitions builds the SELECT DISTINCT of the partition keys of the
// entity table. A zero limit reads every partition.
func SelectPartitions(entity *metadata.EntityMeta, limit uint64) qb.SelectBuilder {
	sel := qb.Select(keyColumns(entity.IDMeta(), true)...).
		From(entity.TableName()).
		Distinct()
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	return sel
}
