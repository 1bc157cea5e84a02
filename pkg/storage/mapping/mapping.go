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

// Package mapping turns result rows into entity values.
package mapping

import (
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/row"
)

// ExtractField reads the column of prop from r and decodes it. A null
// column gives nil, or an empty collection when the property defaults to
// one.
func ExtractField(r row.Row, prop *metadata.PropertyMeta) (interface{}, error) {
	if prop.IsEmbeddedID() {
		return nil, errors.Wrapf(metadata.ErrUnsupportedConversion,
			"property '%s' of entity '%s' is an embedded id, extract it as a compound key",
			prop.Name(), prop.EntityClassName())
	}

	name := prop.CQLName()
	if r.IsNull(name) {
		if prop.IsCollection() {
			return prop.NullValueForCollection(), nil
		}
		return nil, nil
	}

	target := prop.Codec().TargetType()
	var wire interface{}
	var err error
	switch prop.Kind() {
	case metadata.ListProperty:
		wire, err = r.List(name, target.Elem())
	case metadata.SetProperty:
		wire, err = r.Set(name, target.Elem())
	case metadata.MapProperty:
		wire, err = r.Map(name, target.Key(), target.Elem())
	default:
		wire, err = r.Scalar(name, target)
	}
	if err != nil {
		return nil, errors.Wrapf(metadata.ErrRowAccess,
			"Cannot retrieve property '%s' for entity class '%s' from CQL Row: %v",
			prop.Name(), prop.EntityClassName(), err)
	}
	return prop.Decode(wire)
}

// ExtractCompoundKey reads the components of an embedded id from r and
// decodes them into a new key. Missing components are an error only for a
// managed entity whose table has regular columns.
func ExtractCompoundKey(
	r row.Row,
	entity *metadata.EntityMeta,
	prop *metadata.PropertyMeta,
	state metadata.EntityState,
) (interface{}, error) {
	key := prop.CompoundKey()
	components, err := key.ExtractFromRow(r)
	if err != nil {
		return nil, err
	}
	if state == metadata.Managed && !entity.HasOnlyStaticColumns() {
		if err := key.ValidateExtractedComponents(components); err != nil {
			return nil, err
		}
	}
	return key.DecodeFromComponents(components)
}

// MapRowToEntity copies the id and every property present in r onto target.
// Properties absent from a projected row, counters and collections included,
// keep their current value.
func MapRowToEntity(
	r row.Row,
	entity *metadata.EntityMeta,
	target interface{},
	state metadata.EntityState,
) error {
	present := make(map[string]bool)
	for _, name := range r.ColumnNames() {
		present[name] = true
	}

	idMeta := entity.IDMeta()
	var id interface{}
	var err error
	if idMeta.IsEmbeddedID() {
		id, err = ExtractCompoundKey(r, entity, idMeta, state)
	} else {
		id, err = ExtractField(r, idMeta)
	}
	if err != nil {
		return err
	}
	if err := idMeta.SetValue(target, id); err != nil {
		return err
	}

	for _, prop := range entity.Properties() {
		if !present[prop.CQLName()] {
			continue
		}
		v, err := ExtractField(r, prop)
		if err != nil {
			return err
		}
		if err := prop.SetValue(target, v); err != nil {
			return err
		}
	}
	return nil
}
