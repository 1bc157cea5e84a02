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
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/uber/cqlmapper/pkg/storage/codec"
	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
)

const defaultIDName = "key"

// componentDesc describes one primary key column. UUID selects the record
// value type of uuid columns: gocql (default) or pborman.
type componentDesc struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Order string `yaml:"order"`
	UUID  string `yaml:"uuid"`
}

// columnDesc describes one regular column. Type is the element type of
// list and set columns and the value type of map columns.
type columnDesc struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Kind    string `yaml:"kind"`
	Key     string `yaml:"key"`
	UUID    string `yaml:"uuid"`
	Static  bool   `yaml:"static"`
	Indexed bool   `yaml:"indexed"`
	Index   string `yaml:"index"`
}

// entityDesc describes a record entity.
type entityDesc struct {
	Name             string          `yaml:"name"`
	Table            string          `yaml:"table"`
	Comment          string          `yaml:"comment"`
	ID               string          `yaml:"id"`
	SchemaUpdate     bool            `yaml:"schema_update"`
	ClusteredCounter bool            `yaml:"clustered_counter"`
	Partition        []componentDesc `yaml:"partition"`
	Clustering       []componentDesc `yaml:"clustering"`
	Columns          []columnDesc    `yaml:"columns"`
	Counters         []string        `yaml:"counters"`
}

type entitiesFile struct {
	Entities []entityDesc `yaml:"entities"`
}

// loadEntities reads the entity descriptions of a YAML file.
func loadEntities(path string) ([]*metadata.EntityMeta, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseEntities(data)
}

func parseEntities(data []byte) ([]*metadata.EntityMeta, error) {
	var file entitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "invalid entities file")
	}
	entities := make([]*metadata.EntityMeta, 0, len(file.Entities))
	for _, desc := range file.Entities {
		entity, err := buildEntity(desc)
		if err != nil {
			return nil, errors.Wrapf(err, "entity %s", desc.Name)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// scalarCodec returns the codec of a native type name. Only types whose Go
// representation maps back to the same column type are accepted. uuidRepr
// only applies to uuid and timeuuid types.
func scalarCodec(name, uuidRepr string) (codec.Codec, bool, error) {
	dt, err := cql.ParseDataType(name)
	if err != nil {
		return nil, false, err
	}
	declared := cql.Native(dt)
	if declared.IsCollection() || dt == cql.Custom {
		return nil, false, errors.Wrapf(cql.ErrUnsupportedType,
			"type %s is not a native type", declared)
	}
	goType := cql.GoType(declared)
	mapped, err := cql.TypeOf(goType)
	if err != nil {
		return nil, false, err
	}
	timeUUID := dt == cql.TimeUUID
	if !timeUUID && !mapped.Equivalent(declared) {
		return nil, false, errors.Wrapf(cql.ErrUnsupportedType,
			"type %s cannot be described, use %s", declared, mapped)
	}

	switch strings.ToLower(uuidRepr) {
	case "", "gocql":
	case "pborman":
		if dt == cql.UUID || timeUUID {
			return codec.PborUUID(), timeUUID, nil
		}
	default:
		return nil, false, fmt.Errorf("invalid uuid representation %q", uuidRepr)
	}
	return codec.Native(goType), timeUUID, nil
}

func parseOrder(order string) (cql.ClusteringOrder, error) {
	switch strings.ToLower(order) {
	case "", "asc":
		return cql.Asc, nil
	case "desc":
		return cql.Desc, nil
	}
	return cql.Asc, fmt.Errorf("invalid clustering order %q", order)
}

func buildComponents(descs []componentDesc) ([]metadata.Component, error) {
	components := make([]metadata.Component, 0, len(descs))
	for _, d := range descs {
		c, timeUUID, err := scalarCodec(d.Type, d.UUID)
		if err != nil {
			return nil, errors.Wrapf(err, "component %s", d.Name)
		}
		order, err := parseOrder(d.Order)
		if err != nil {
			return nil, errors.Wrapf(err, "component %s", d.Name)
		}
		components = append(components, metadata.Component{
			Name:     d.Name,
			Codec:    c,
			Accessor: metadata.RecordField(d.Name),
			Order:    order,
			TimeUUID: timeUUID,
		})
	}
	return components, nil
}

func buildID(desc entityDesc) (*metadata.PropertyMeta, error) {
	if len(desc.Partition) == 0 {
		return nil, errors.New("no partition key")
	}
	if len(desc.Partition) == 1 && len(desc.Clustering) == 0 {
		d := desc.Partition[0]
		c, timeUUID, err := scalarCodec(d.Type, d.UUID)
		if err != nil {
			return nil, errors.Wrapf(err, "id %s", d.Name)
		}
		b := metadata.NewProperty(desc.Name, d.Name, metadata.IDProperty).
			Codec(c).
			Accessor(metadata.RecordField(d.Name))
		if timeUUID {
			b = b.TimeUUID()
		}
		return b.Build()
	}

	partition, err := buildComponents(desc.Partition)
	if err != nil {
		return nil, err
	}
	clustering, err := buildComponents(desc.Clustering)
	if err != nil {
		return nil, err
	}
	key, err := metadata.NewCompoundKey(desc.Name+"Key",
		func() interface{} { return metadata.Record{} },
		metadata.NewPartitionComponents(partition...),
		metadata.NewClusteringComponents(clustering...))
	if err != nil {
		return nil, err
	}
	name := desc.ID
	if name == "" {
		name = defaultIDName
	}
	return metadata.NewProperty(desc.Name, name, metadata.EmbeddedIDProperty).
		CompoundKey(key).
		Accessor(metadata.RecordField(name)).
		Build()
}

func buildColumn(entity string, d columnDesc) (*metadata.PropertyMeta, error) {
	var kind metadata.PropertyType
	switch strings.ToLower(d.Kind) {
	case "", "simple":
		kind = metadata.SimpleProperty
	case "list":
		kind = metadata.ListProperty
	case "set":
		kind = metadata.SetProperty
	case "map":
		kind = metadata.MapProperty
	default:
		return nil, fmt.Errorf("column %s has invalid kind %q", d.Name, d.Kind)
	}

	c, timeUUID, err := scalarCodec(d.Type, d.UUID)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", d.Name)
	}
	b := metadata.NewProperty(entity, d.Name, kind).
		Codec(c).
		Accessor(metadata.RecordField(d.Name))
	if kind == metadata.MapProperty {
		key, keyTimeUUID, err := scalarCodec(d.Key, d.UUID)
		if err != nil {
			return nil, errors.Wrapf(err, "key of column %s", d.Name)
		}
		b = b.KeyCodec(key)
		if keyTimeUUID {
			b = b.KeyTimeUUID()
		}
	}
	if timeUUID {
		b = b.TimeUUID()
	}
	if d.Static {
		b = b.Static()
	}
	if d.Indexed || d.Index != "" {
		b = b.Indexed(d.Index)
	}
	return b.Build()
}

// buildEntity materializes a description as an entity over records.
func buildEntity(desc entityDesc) (*metadata.EntityMeta, error) {
	id, err := buildID(desc)
	if err != nil {
		return nil, err
	}

	var properties []*metadata.PropertyMeta
	for _, d := range desc.Columns {
		p, err := buildColumn(desc.Name, d)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	for _, name := range desc.Counters {
		p, err := metadata.NewProperty(desc.Name, name, metadata.CounterProperty).
			Accessor(metadata.RecordField(name)).
			Build()
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	b := metadata.NewEntity(desc.Name, desc.Table).
		ID(id).
		Property(properties...)
	if desc.Comment != "" {
		b = b.Comment(desc.Comment)
	}
	if desc.SchemaUpdate {
		b = b.SchemaUpdateEnabled()
	}
	if desc.ClusteredCounter {
		b = b.ClusteredCounter()
	}
	return b.Build()
}
