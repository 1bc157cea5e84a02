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

package metadata

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/codec"
	"github.com/uber/cqlmapper/pkg/storage/cql"
)

// Component is one column of a compound primary key.
type Component struct {
	// Name is the column name.
	Name string
	// Codec converts the field value to the bound column value.
	Codec codec.Codec
	// Accessor reads and writes the field on the key instance.
	Accessor Accessor
	// Order is the clustering order, ignored for partition components.
	Order cql.ClusteringOrder
	// TimeUUID stores a uuid component as timeuuid.
	TimeUUID bool
}

// Type returns the declared in-memory type of the component.
func (c Component) Type() reflect.Type {
	return c.Codec.SourceType()
}

// CQLType returns the column type of the component.
func (c Component) CQLType() (cql.Type, error) {
	t, err := cql.TypeOf(c.Codec.TargetType())
	if err != nil {
		return cql.Type{}, err
	}
	if c.TimeUUID && t.Kind == cql.UUID {
		return cql.Native(cql.TimeUUID), nil
	}
	return t, nil
}

type groupKind int

const (
	partitionGroup groupKind = iota
	clusteringGroup
)

type groupMessages struct {
	atLeastOne string
	atMost     string
	null       string
	wrongType  string
	tooMany    string
}

var messages = map[groupKind]groupMessages{
	partitionGroup: {
		atLeastOne: "There should be at least one partition key component provided for querying on entity '%s'",
		atMost:     "The partition key components count should be less or equal to '%d' for querying on entity '%s'",
		null:       "The '%dth' partition key component should not be null",
		wrongType:  "The type '%s' of partition key component '%v' for querying on entity '%s' is not valid. It should be '%s'",
		tooMany:    "There should be no more than '%d' partition components to be encoded for class '%s'",
	},
	clusteringGroup: {
		atLeastOne: "There should be at least one clustering key provided for querying on entity '%s'",
		atMost:     "There should be at most %d value(s) of clustering component(s) provided for querying on entity '%s'",
		null:       "The '%dth' clustering key should not be null",
		wrongType:  "The type '%s' of clustering key '%v' for querying on entity '%s' is not valid. It should be '%s'",
		tooMany:    "There should be no more than '%d' clustering components to be encoded for class '%s'",
	},
}

// ComponentGroup is the ordered partition or clustering segment of a
// compound primary key. Declaration order is significant and never changes.
type ComponentGroup struct {
	kind       groupKind
	components []Component
}

// NewPartitionComponents returns the partition segment of a compound key.
func NewPartitionComponents(components ...Component) *ComponentGroup {
	return newGroup(partitionGroup, components)
}

// NewClusteringComponents returns the clustering segment of a compound key.
// It may be empty for an entity without clustering columns.
func NewClusteringComponents(components ...Component) *ComponentGroup {
	return newGroup(clusteringGroup, components)
}

func newGroup(kind groupKind, components []Component) *ComponentGroup {
	c := make([]Component, len(components))
	copy(c, components)
	return &ComponentGroup{kind: kind, components: c}
}

// Len returns the number of components.
func (g *ComponentGroup) Len() int {
	return len(g.components)
}

// Component returns the i-th component.
func (g *ComponentGroup) Component(i int) Component {
	return g.components[i]
}

// Components returns a copy of the components in declaration order.
func (g *ComponentGroup) Components() []Component {
	c := make([]Component, len(g.components))
	copy(c, g.components)
	return c
}

// Names returns the column names in declaration order.
func (g *ComponentGroup) Names() []string {
	names := make([]string, len(g.components))
	for i, c := range g.components {
		names[i] = c.Name
	}
	return names
}

// Types returns the declared types in declaration order.
func (g *ComponentGroup) Types() []reflect.Type {
	types := make([]reflect.Type, len(g.components))
	for i, c := range g.components {
		types[i] = c.Type()
	}
	return types
}

// Accessors returns the field accessors in declaration order.
func (g *ComponentGroup) Accessors() []Accessor {
	accessors := make([]Accessor, len(g.components))
	for i, c := range g.components {
		accessors[i] = c.Accessor
	}
	return accessors
}

// Codecs returns the codecs in declaration order.
func (g *ComponentGroup) Codecs() []codec.Codec {
	codecs := make([]codec.Codec, len(g.components))
	for i, c := range g.components {
		codecs[i] = c.Codec
	}
	return codecs
}

// Orders returns the clustering orders in declaration order.
func (g *ComponentGroup) Orders() []cql.ClusteringOrder {
	orders := make([]cql.ClusteringOrder, len(g.components))
	for i, c := range g.components {
		orders[i] = c.Order
	}
	return orders
}

// Validate checks values provided for a query: at least one, at most one
// per component, none null and each of the declared type at its position.
func (g *ComponentGroup) Validate(className string, values ...interface{}) error {
	if err := g.validateCount(className, values); err != nil {
		return err
	}
	for i, v := range values {
		if err := g.validateValue(className, i, v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateIn is Validate for IN queries: the last value may be a slice of
// candidates, each of which must be of the type declared at that position.
func (g *ComponentGroup) ValidateIn(className string, values ...interface{}) error {
	if err := g.validateCount(className, values); err != nil {
		return err
	}
	last := len(values) - 1
	for i, v := range values[:last] {
		if err := g.validateValue(className, i, v); err != nil {
			return err
		}
	}

	candidates := values[last]
	if isNull(candidates) {
		return g.nullError(last)
	}
	rv := reflect.ValueOf(candidates)
	if rv.Kind() != reflect.Slice || rv.Type() == g.components[last].Type() {
		return g.validateValue(className, last, candidates)
	}
	if rv.Len() == 0 {
		return errors.Wrapf(ErrComponentCount, messages[g.kind].atLeastOne, className)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := g.validateValue(className, last, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (g *ComponentGroup) validateCount(className string, values []interface{}) error {
	if len(values) == 0 {
		return errors.Wrapf(ErrComponentCount, messages[g.kind].atLeastOne, className)
	}
	if len(values) > len(g.components) {
		return errors.Wrapf(ErrComponentCount, messages[g.kind].atMost, len(g.components), className)
	}
	return nil
}

func (g *ComponentGroup) validateValue(className string, i int, v interface{}) error {
	if isNull(v) {
		return g.nullError(i)
	}
	expected := g.components[i].Type()
	if reflect.TypeOf(v) != expected {
		return errors.Wrapf(ErrComponentType, messages[g.kind].wrongType,
			typeName(v), v, className, expected)
	}
	return nil
}

func (g *ComponentGroup) nullError(i int) error {
	return errors.Wrapf(ErrComponentNull, messages[g.kind].null, i+1)
}

// encode encodes up to Len() raw values with the codec at each position.
func (g *ComponentGroup) encode(className string, raw []interface{}) ([]interface{}, error) {
	if len(raw) > len(g.components) {
		return nil, errors.Wrapf(ErrComponentCount, messages[g.kind].tooMany,
			len(g.components), className)
	}
	out := make([]interface{}, len(raw))
	for i, v := range raw {
		encoded, err := g.components[i].Codec.Encode(v)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode component '%s' of '%s'",
				g.components[i].Name, className)
		}
		out[i] = encoded
	}
	return out, nil
}

// encodeIn encodes every raw value with the codec of the last component.
func (g *ComponentGroup) encodeIn(className string, raw []interface{}) ([]interface{}, error) {
	if len(g.components) == 0 {
		return nil, errors.Wrapf(ErrComponentCount, messages[g.kind].atLeastOne, className)
	}
	last := g.components[len(g.components)-1]
	out := make([]interface{}, len(raw))
	for i, v := range raw {
		encoded, err := last.Codec.Encode(v)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode IN value %d of component '%s' of '%s'",
				i, last.Name, className)
		}
		out[i] = encoded
	}
	return out, nil
}
