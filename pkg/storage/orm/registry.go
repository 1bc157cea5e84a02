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

// Package orm keeps the entities known to the mapper and binds them to a
// backend connector.
package orm

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
)

// Registry indexes entity metadata by Go type and by table name.
type Registry struct {
	sync.RWMutex

	byType  map[reflect.Type]*metadata.EntityMeta
	byTable map[string]*metadata.EntityMeta
	order   []*metadata.EntityMeta
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:  make(map[reflect.Type]*metadata.EntityMeta),
		byTable: make(map[string]*metadata.EntityMeta),
	}
}

// entityType returns the struct type of sample, dereferencing pointers.
func entityType(sample interface{}) reflect.Type {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Register adds an entity. sample is a value or pointer of the entity type;
// a nil sample registers the entity by table only, as done for records.
func (r *Registry) Register(meta *metadata.EntityMeta, sample interface{}) error {
	r.Lock()
	defer r.Unlock()

	table := meta.TableName()
	if existing, ok := r.byTable[table]; ok {
		return yarpcerrors.AlreadyExistsErrorf(
			"table %s is already mapped by entity %s", table, existing.ClassName())
	}
	t := entityType(sample)
	if t != nil {
		if existing, ok := r.byType[t]; ok {
			return yarpcerrors.AlreadyExistsErrorf(
				"type %s is already registered as entity %s", t, existing.ClassName())
		}
		r.byType[t] = meta
	}
	r.byTable[table] = meta
	r.order = append(r.order, meta)
	return nil
}

// Get returns the entity registered for the type of sample.
func (r *Registry) Get(sample interface{}) (*metadata.EntityMeta, error) {
	r.RLock()
	defer r.RUnlock()

	t := entityType(sample)
	meta, ok := r.byType[t]
	if !ok {
		return nil, yarpcerrors.NotFoundErrorf("no entity registered for type %v", t)
	}
	return meta, nil
}

// GetByTable returns the entity mapped to the table.
func (r *Registry) GetByTable(table string) (*metadata.EntityMeta, error) {
	r.RLock()
	defer r.RUnlock()

	meta, ok := r.byTable[strings.ToLower(table)]
	if !ok {
		return nil, yarpcerrors.NotFoundErrorf("no entity mapped to table %s", table)
	}
	return meta, nil
}

// Entities returns all entities in registration order.
func (r *Registry) Entities() []*metadata.EntityMeta {
	r.RLock()
	defer r.RUnlock()
	return append([]*metadata.EntityMeta(nil), r.order...)
}
