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
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/row"
)

// CompoundKey describes a primary key made of partition and clustering
// components, held in an instance of a dedicated key type.
type CompoundKey struct {
	className  string
	partition  *ComponentGroup
	clustering *ComponentGroup
	newKey     func() interface{}
}

// NewCompoundKey builds the compound key metadata. newKey returns an empty
// key instance the components are decoded into.
func NewCompoundKey(
	className string,
	newKey func() interface{},
	partition *ComponentGroup,
	clustering *ComponentGroup) (*CompoundKey, error) {
	if partition == nil || partition.Len() == 0 {
		return nil, errors.Wrapf(ErrInvalidMetadata,
			"compound key '%s' should have at least one partition component", className)
	}
	if clustering == nil {
		clustering = NewClusteringComponents()
	}
	if newKey == nil {
		return nil, errors.Wrapf(ErrInvalidMetadata,
			"compound key '%s' has no instance factory", className)
	}
	seen := make(map[string]bool)
	for _, c := range append(partition.Components(), clustering.Components()...) {
		if err := validateName(c.Name); err != nil {
			return nil, errors.Wrapf(err, "compound key '%s'", className)
		}
		if seen[c.Name] {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"compound key '%s' declares component '%s' twice", className, c.Name)
		}
		if c.Codec == nil || !c.Accessor.valid() {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"component '%s' of compound key '%s' needs a codec and an accessor", c.Name, className)
		}
		seen[c.Name] = true
	}
	return &CompoundKey{
		className:  className,
		partition:  partition,
		clustering: clustering,
		newKey:     newKey,
	}, nil
}

// ClassName returns the name of the key type.
func (k *CompoundKey) ClassName() string {
	return k.className
}

// Partition returns the partition components.
func (k *CompoundKey) Partition() *ComponentGroup {
	return k.partition
}

// Clustering returns the clustering components.
func (k *CompoundKey) Clustering() *ComponentGroup {
	return k.clustering
}

// Len returns the total number of components.
func (k *CompoundKey) Len() int {
	return k.partition.Len() + k.clustering.Len()
}

// IsCompositePartitionKey returns true if the partition key has more than
// one column.
func (k *CompoundKey) IsCompositePartitionKey() bool {
	return k.partition.Len() > 1
}

// IsClustered returns true if the key has clustering columns.
func (k *CompoundKey) IsClustered() bool {
	return k.clustering.Len() > 0
}

// OrderingComponent returns the first clustering column.
func (k *CompoundKey) OrderingComponent() (string, bool) {
	if !k.IsClustered() {
		return "", false
	}
	return k.clustering.Component(0).Name, true
}

// ClusteringOrders returns the clustering order of every clustering column.
func (k *CompoundKey) ClusteringOrders() []cql.ClusteringOrder {
	return k.clustering.Orders()
}

// LastPartitionKeyName returns the name of the last partition column.
func (k *CompoundKey) LastPartitionKeyName() string {
	return k.partition.Component(k.partition.Len() - 1).Name
}

// Components returns the partition components, followed by the clustering
// components unless onlyStatic is set.
func (k *CompoundKey) Components(onlyStatic bool) []Component {
	components := k.partition.Components()
	if !onlyStatic {
		components = append(components, k.clustering.Components()...)
	}
	return components
}

// ComponentNames returns the names of Components(onlyStatic).
func (k *CompoundKey) ComponentNames(onlyStatic bool) []string {
	components := k.Components(onlyStatic)
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}
	return names
}

// EncodeToComponents reads every component field of key and encodes it.
// With onlyStatic only the partition components are considered.
func (k *CompoundKey) EncodeToComponents(key interface{}, onlyStatic bool) ([]interface{}, error) {
	components := k.Components(onlyStatic)
	out := make([]interface{}, len(components))
	for i, c := range components {
		v, err := c.Accessor.Get(key)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read component '%s' of '%s'", c.Name, k.className)
		}
		encoded, err := c.Codec.Encode(v)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode component '%s' of '%s'", c.Name, k.className)
		}
		out[i] = encoded
	}
	return out, nil
}

// DecodeFromComponents decodes one wire value per component into a new key
// instance.
func (k *CompoundKey) DecodeFromComponents(components []interface{}) (interface{}, error) {
	if len(components) != k.Len() {
		return nil, errors.Wrapf(ErrComponentSizeMismatch,
			"There should be exactly '%d' Cassandra columns to decode into an '%s' instance",
			k.Len(), k.className)
	}
	key := k.newKey()
	for i, c := range k.Components(false) {
		decoded, err := c.Codec.Decode(components[i])
		if err != nil {
			return nil, errors.Wrapf(err, "cannot decode component '%s' of '%s'", c.Name, k.className)
		}
		if err := c.Accessor.Set(key, decoded); err != nil {
			return nil, errors.Wrapf(err, "cannot set component '%s' of '%s'", c.Name, k.className)
		}
	}
	return key, nil
}

// EncodePartitionComponents encodes a prefix of the partition components.
func (k *CompoundKey) EncodePartitionComponents(raw ...interface{}) ([]interface{}, error) {
	return k.partition.encode(k.className, raw)
}

// EncodeClusteringKeys encodes a prefix of the clustering components.
func (k *CompoundKey) EncodeClusteringKeys(raw ...interface{}) ([]interface{}, error) {
	return k.clustering.encode(k.className, raw)
}

// EncodePartitionComponentsIN encodes IN candidates for the last partition
// component.
func (k *CompoundKey) EncodePartitionComponentsIN(raw ...interface{}) ([]interface{}, error) {
	return k.partition.encodeIn(k.className, raw)
}

// EncodeClusteringKeysIN encodes IN candidates for the last clustering
// component.
func (k *CompoundKey) EncodeClusteringKeysIN(raw ...interface{}) ([]interface{}, error) {
	return k.clustering.encodeIn(k.className, raw)
}

// ValidatePartitionComponents validates partition values for a query.
func (k *CompoundKey) ValidatePartitionComponents(entityClassName string, values ...interface{}) error {
	return k.partition.Validate(entityClassName, values...)
}

// ValidatePartitionComponentsIn validates partition values for an IN query.
func (k *CompoundKey) ValidatePartitionComponentsIn(entityClassName string, values ...interface{}) error {
	return k.partition.ValidateIn(entityClassName, values...)
}

// ValidateClusteringComponents validates clustering values for a query.
func (k *CompoundKey) ValidateClusteringComponents(entityClassName string, values ...interface{}) error {
	return k.clustering.Validate(entityClassName, values...)
}

// ValidateClusteringComponentsIn validates clustering values for an IN
// query.
func (k *CompoundKey) ValidateClusteringComponentsIn(entityClassName string, values ...interface{}) error {
	return k.clustering.ValidateIn(entityClassName, values...)
}

// ExtractPartitionComponents returns the partition part of a full list of
// component values.
func (k *CompoundKey) ExtractPartitionComponents(components []interface{}) []interface{} {
	n := k.partition.Len()
	if len(components) < n {
		n = len(components)
	}
	return components[:n]
}

// ExtractClusteringComponents returns the clustering part of a full list of
// component values.
func (k *CompoundKey) ExtractClusteringComponents(components []interface{}) []interface{} {
	if len(components) <= k.partition.Len() {
		return []interface{}{}
	}
	return components[k.partition.Len():]
}

// ExtractFromRow reads every component present in the row as its wire type.
// Components absent from the row are left nil.
func (k *CompoundKey) ExtractFromRow(r row.Row) ([]interface{}, error) {
	present := make(map[string]bool)
	for _, name := range r.ColumnNames() {
		present[name] = true
	}
	components := k.Components(false)
	out := make([]interface{}, len(components))
	for i, c := range components {
		if !present[c.Name] {
			continue
		}
		v, err := r.Scalar(c.Name, c.Codec.TargetType())
		if err != nil {
			return nil, errors.Wrapf(ErrRowAccess,
				"cannot read component '%s' of '%s' from row: %v", c.Name, k.className, err)
		}
		out[i] = v
	}
	return out, nil
}

// ValidateExtractedComponents fails if any extracted component is missing.
func (k *CompoundKey) ValidateExtractedComponents(components []interface{}) error {
	for i, c := range k.Components(false) {
		if i >= len(components) || isNull(components[i]) {
			return errors.Wrapf(ErrComponentNull,
				"The component '%s' for embedded id '%s' cannot be found in Cassandra",
				c.Name, k.className)
		}
	}
	return nil
}
