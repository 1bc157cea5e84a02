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
	"strconv"

	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
)

// ChangeType is the kind of mutation applied to a column by an update.
type ChangeType int

// Change types. The set is closed: a new collection mutation needs a new
// case here.
const (
	AssignValue ChangeType = iota
	AddToSet
	RemoveFromSet
	AppendToList
	PrependToList
	RemoveFromList
	SetToListAtIndex
	RemoveFromListAtIndex
	AddToMap
	RemoveFromMapByKey
	RemoveAll
)

var changeTypeNames = map[ChangeType]string{
	AssignValue:           "AssignValue",
	AddToSet:              "AddToSet",
	RemoveFromSet:         "RemoveFromSet",
	AppendToList:          "AppendToList",
	PrependToList:         "PrependToList",
	RemoveFromList:        "RemoveFromList",
	SetToListAtIndex:      "SetToListAtIndex",
	RemoveFromListAtIndex: "RemoveFromListAtIndex",
	AddToMap:              "AddToMap",
	RemoveFromMapByKey:    "RemoveFromMapByKey",
	RemoveAll:             "RemoveAll",
}

func (t ChangeType) String() string {
	if name, ok := changeTypeNames[t]; ok {
		return name
	}
	return "ChangeType(" + strconv.Itoa(int(t)) + ")"
}

// Valid checks that the change type applies to prop.
func (t ChangeType) Valid(prop *metadata.PropertyMeta) error {
	if prop.IsPrimaryKey() || prop.IsCounter() {
		return errors.Wrapf(ErrInvalidChange,
			"cannot apply %s to %s property '%s' of entity '%s'",
			t, prop.Kind(), prop.Name(), prop.EntityClassName())
	}

	var expected metadata.PropertyType
	switch t {
	case AssignValue, RemoveAll:
		return nil
	case AddToSet, RemoveFromSet:
		expected = metadata.SetProperty
	case AppendToList, PrependToList, RemoveFromList, SetToListAtIndex, RemoveFromListAtIndex:
		expected = metadata.ListProperty
	case AddToMap, RemoveFromMapByKey:
		expected = metadata.MapProperty
	default:
		return errors.Wrapf(ErrInvalidChange, "unknown change type %d", int(t))
	}
	if prop.Kind() != expected {
		return errors.Wrapf(ErrInvalidChange,
			"cannot apply %s to property '%s' of entity '%s': it is a %s, not a %s",
			t, prop.Name(), prop.EntityClassName(), prop.Kind(), expected)
	}
	return nil
}

// Change is one mutation of an entity property. Value is the in-memory
// value: the whole value for AssignValue, the added or removed elements for
// collection changes and the element for SetToListAtIndex. Index is the
// list position and Key the map key.
type Change struct {
	Type     ChangeType
	Property *metadata.PropertyMeta
	Value    interface{}
	Index    int
	Key      interface{}
}

// apply adds the assignment of c to upd and returns the values it binds.
func (c Change) apply(upd qb.UpdateBuilder) (qb.UpdateBuilder, []interface{}, error) {
	p := c.Property
	col := p.CQLName()
	marker := qb.BindMarker(col)

	switch c.Type {
	case RemoveAll:
		return upd.Set(col, qb.Null), nil, nil
	case RemoveFromListAtIndex:
		return upd.SetAt(col, qb.Expr(strconv.Itoa(c.Index)), qb.Null), nil, nil
	case RemoveFromMapByKey:
		key, err := p.EncodeKey(c.Key)
		if err != nil {
			return upd, nil, err
		}
		return upd.SetAt(col, qb.BindMarker("key"), qb.Null), []interface{}{key}, nil
	case SetToListAtIndex:
		elem, err := p.EncodeElement(c.Value)
		if err != nil {
			return upd, nil, err
		}
		return upd.SetAt(col, qb.Expr(strconv.Itoa(c.Index)), marker), []interface{}{elem}, nil
	}

	value := c.Value
	if value == nil && p.IsCollection() {
		value = p.NullValueForCollection()
	}
	var encoded interface{}
	if value != nil {
		var err error
		if encoded, err = p.Encode(value); err != nil {
			return upd, nil, err
		}
	}

	switch c.Type {
	case AssignValue:
		upd = upd.Set(col, marker)
	case AddToSet, AppendToList, AddToMap:
		upd = upd.Add(col, marker)
	case RemoveFromSet, RemoveFromList:
		upd = upd.Remove(col, marker)
	case PrependToList:
		upd = upd.Prepend(col, marker)
	}
	return upd, []interface{}{encoded}, nil
}

// UpdateForChanges builds the UPDATE applying changes to the row of target.
// The bound values are those of the changes, in order, followed by the key
// values. With onlyStatic every changed property must be static and the
// update targets the partition.
func UpdateForChanges(
	entity *metadata.EntityMeta,
	target interface{},
	onlyStatic bool,
	changes ...Change,
) (qb.UpdateBuilder, []interface{}, error) {
	upd := qb.Update(entity.TableName())
	if len(changes) == 0 {
		return upd, nil, errors.Wrapf(ErrInvalidChange,
			"no change to apply on entity '%s'", entity.ClassName())
	}

	var values []interface{}
	props := make([]*metadata.PropertyMeta, 0, len(changes))
	for _, c := range changes {
		if c.Property == nil {
			return upd, nil, errors.Wrapf(ErrInvalidChange,
				"change %s on entity '%s' has no property", c.Type, entity.ClassName())
		}
		if p, ok := entity.Property(c.Property.Name()); !ok || p != c.Property {
			return upd, nil, errors.Wrapf(ErrInvalidChange,
				"property '%s' does not belong to entity '%s'", c.Property.Name(), entity.ClassName())
		}
		if err := c.Type.Valid(c.Property); err != nil {
			return upd, nil, err
		}
		var bound []interface{}
		var err error
		if upd, bound, err = c.apply(upd); err != nil {
			return upd, nil, err
		}
		values = append(values, bound...)
		props = append(props, c.Property)
	}

	if onlyStatic && !entity.IsStaticQuery(props...) {
		return upd, nil, errors.Wrapf(ErrInvalidChange,
			"a static update of entity '%s' can only change static columns", entity.ClassName())
	}

	keys, err := KeyValues(entity, target, onlyStatic)
	if err != nil {
		return upd, nil, err
	}
	upd = UpdateWhere(upd, entity.IDMeta(), onlyStatic)
	return upd, append(values, keys...), nil
}
