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

// Condition is an IF predicate of a conditional write: the column of
// Property must hold Value. A nil Value requires the column to be null.
type Condition struct {
	Property *metadata.PropertyMeta
	Value    interface{}
}

func conditionPredicates(entity *metadata.EntityMeta, conditions []Condition) ([]qb.Sqlizer, error) {
	preds := make([]qb.Sqlizer, 0, len(conditions))
	for _, c := range conditions {
		if c.Property == nil {
			return nil, errors.Wrapf(ErrInvalidCondition,
				"condition on entity '%s' has no property", entity.ClassName())
		}
		if p, ok := entity.Property(c.Property.Name()); !ok || p != c.Property {
			return nil, errors.Wrapf(ErrInvalidCondition,
				"property '%s' does not belong to entity '%s'", c.Property.Name(), entity.ClassName())
		}
		if c.Property.IsPrimaryKey() || c.Property.IsCounter() {
			return nil, errors.Wrapf(ErrInvalidCondition,
				"key or counter column '%s' of entity '%s' cannot be a condition",
				c.Property.Name(), entity.ClassName())
		}
		col := c.Property.CQLName()
		if c.Value == nil {
			preds = append(preds, qb.Expr(col+" = null"))
			continue
		}
		encoded, err := c.Property.Encode(c.Value)
		if err != nil {
			return nil, err
		}
		// collections are compared whole, never expanded into IN
		preds = append(preds, qb.Expr(fmt.Sprintf("%s = ?", col), encoded))
	}
	return preds, nil
}

// UpdateIf makes upd conditional. Without conditions the update only
// applies to an existing row.
func UpdateIf(entity *metadata.EntityMeta, upd qb.UpdateBuilder, conditions ...Condition) (qb.UpdateBuilder, error) {
	if len(conditions) == 0 {
		return upd.IfExists(), nil
	}
	preds, err := conditionPredicates(entity, conditions)
	if err != nil {
		return upd, err
	}
	for _, p := range preds {
		upd = upd.IfOnly(p)
	}
	return upd, nil
}

// DeleteIf makes del conditional. Without conditions the delete only
// applies to an existing row.
func DeleteIf(entity *metadata.EntityMeta, del qb.DeleteBuilder, conditions ...Condition) (qb.DeleteBuilder, error) {
	if len(conditions) == 0 {
		return del.IfExists(), nil
	}
	preds, err := conditionPredicates(entity, conditions)
	if err != nil {
		return del, err
	}
	for _, p := range preds {
		del = del.IfOnly(p)
	}
	return del, nil
}

// InsertIfNotExists builds the insert of Insert applied only when no row
// has the same key. A conditional insert carries no client timestamp.
func InsertIfNotExists(entity *metadata.EntityMeta, ttl time.Duration) (qb.InsertBuilder, error) {
	insert, err := Insert(entity, ttl, 0)
	if err != nil {
		return insert, err
	}
	return insert.IfNotExist(), nil
}
