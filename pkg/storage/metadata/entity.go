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
	"fmt"
	"regexp"
	"strings"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.Wrapf(ErrInvalidMetadata,
			"name '%s' should match the pattern '%s'", name, namePattern)
	}
	return nil
}

// NormalizeTableName lowercases a table name and checks that it is a valid
// CQL identifier.
func NormalizeTableName(name string) (string, error) {
	n := strings.ToLower(name)
	if err := validateName(n); err != nil {
		return "", errors.Wrapf(err, "invalid table name")
	}
	return n, nil
}

// EntityState tells whether an entity instance is tracked by a
// persistence context.
type EntityState int

// Entity states.
const (
	NotManaged EntityState = iota
	Managed
)

// EntityMeta describes the mapping of an entity type to a table. It is
// immutable once built.
type EntityMeta struct {
	className           string
	tableName           string
	idMeta              *PropertyMeta
	properties          []*PropertyMeta
	byName              map[string]*PropertyMeta
	counters            []*PropertyMeta
	schemaUpdateEnabled bool
	clusteredCounter    bool
	comment             string
	readConsistency     *gocql.Consistency
	writeConsistency    *gocql.Consistency
}

// EntityBuilder builds an EntityMeta.
type EntityBuilder struct {
	meta       EntityMeta
	properties []*PropertyMeta
	ids        []*PropertyMeta
}

// NewEntity starts building the metadata of an entity stored in table.
func NewEntity(className, table string) *EntityBuilder {
	return &EntityBuilder{meta: EntityMeta{className: className, tableName: table}}
}

// ID sets the primary key property.
func (b *EntityBuilder) ID(p *PropertyMeta) *EntityBuilder {
	b.ids = append(b.ids, p)
	return b
}

// Property adds a regular, collection or counter property.
func (b *EntityBuilder) Property(properties ...*PropertyMeta) *EntityBuilder {
	b.properties = append(b.properties, properties...)
	return b
}

// SchemaUpdateEnabled tolerates columns missing from the live table.
func (b *EntityBuilder) SchemaUpdateEnabled() *EntityBuilder {
	b.meta.schemaUpdateEnabled = true
	return b
}

// ClusteredCounter stores the counters of the entity in its own table.
func (b *EntityBuilder) ClusteredCounter() *EntityBuilder {
	b.meta.clusteredCounter = true
	return b
}

// Comment sets the table comment.
func (b *EntityBuilder) Comment(comment string) *EntityBuilder {
	b.meta.comment = comment
	return b
}

// ReadConsistency sets the default read consistency of the entity.
func (b *EntityBuilder) ReadConsistency(c gocql.Consistency) *EntityBuilder {
	b.meta.readConsistency = &c
	return b
}

// WriteConsistency sets the default write consistency of the entity.
func (b *EntityBuilder) WriteConsistency(c gocql.Consistency) *EntityBuilder {
	b.meta.writeConsistency = &c
	return b
}

// Build validates the description and returns the immutable metadata.
func (b *EntityBuilder) Build() (*EntityMeta, error) {
	m := b.meta
	table, err := NormalizeTableName(m.tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "entity '%s'", m.className)
	}
	m.tableName = table

	if len(b.ids) != 1 {
		return nil, errors.Wrapf(ErrInvalidMetadata,
			"entity '%s' should have exactly one id, found %d", m.className, len(b.ids))
	}
	m.idMeta = b.ids[0]
	if !m.idMeta.IsPrimaryKey() {
		return nil, errors.Wrapf(ErrInvalidMetadata,
			"id '%s' of entity '%s' should be an id or embedded id, not %s",
			m.idMeta.Name(), m.className, m.idMeta.Kind())
	}

	columns := make(map[string]bool)
	for _, c := range m.idMeta.ColumnNames(false) {
		columns[c] = true
	}
	m.byName = make(map[string]*PropertyMeta, len(b.properties))
	for _, p := range b.properties {
		if p.IsPrimaryKey() {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"entity '%s' declares a second id '%s'", m.className, p.Name())
		}
		if columns[p.CQLName()] {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"entity '%s' declares column '%s' twice", m.className, p.CQLName())
		}
		if m.clusteredCounter && !p.IsCounter() {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"clustered counter entity '%s' cannot have non counter property '%s'",
				m.className, p.Name())
		}
		if p.IsStatic() && !(m.idMeta.IsEmbeddedID() && m.idMeta.CompoundKey().IsClustered()) {
			return nil, errors.Wrapf(ErrInvalidMetadata,
				"static property '%s' of entity '%s' requires a clustered compound key",
				p.Name(), m.className)
		}
		columns[p.CQLName()] = true
		m.byName[p.Name()] = p
		m.properties = append(m.properties, p)
		if p.IsCounter() {
			m.counters = append(m.counters, p)
		}
	}
	if m.clusteredCounter && len(m.counters) == 0 {
		return nil, errors.Wrapf(ErrInvalidMetadata,
			"clustered counter entity '%s' has no counter", m.className)
	}
	return &m, nil
}

// ClassName returns the entity type name.
func (m *EntityMeta) ClassName() string {
	return m.className
}

// TableName returns the normalized table name.
func (m *EntityMeta) TableName() string {
	return m.tableName
}

// IDMeta returns the primary key property.
func (m *EntityMeta) IDMeta() *PropertyMeta {
	return m.idMeta
}

// Properties returns the non id properties in declaration order.
func (m *EntityMeta) Properties() []*PropertyMeta {
	return append([]*PropertyMeta(nil), m.properties...)
}

// AllProperties returns the id followed by the other properties.
func (m *EntityMeta) AllProperties() []*PropertyMeta {
	return append([]*PropertyMeta{m.idMeta}, m.properties...)
}

// Property looks up a non id property by name.
func (m *EntityMeta) Property(name string) (*PropertyMeta, bool) {
	p, ok := m.byName[name]
	return p, ok
}

// Counters returns the counter properties.
func (m *EntityMeta) Counters() []*PropertyMeta {
	return append([]*PropertyMeta(nil), m.counters...)
}

// HasCounters returns true if the entity declares counters.
func (m *EntityMeta) HasCounters() bool {
	return len(m.counters) > 0
}

// TableColumns returns the non id properties stored in the entity table.
// Counters of a regular entity live in the shared counter table.
func (m *EntityMeta) TableColumns() []*PropertyMeta {
	var out []*PropertyMeta
	for _, p := range m.properties {
		if p.IsCounter() != m.clusteredCounter {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsSchemaUpdateEnabled returns true if missing columns are tolerated.
func (m *EntityMeta) IsSchemaUpdateEnabled() bool {
	return m.schemaUpdateEnabled
}

// IsClusteredCounter returns true if counters live in the entity table.
func (m *EntityMeta) IsClusteredCounter() bool {
	return m.clusteredCounter
}

// Comment returns the table comment.
func (m *EntityMeta) Comment() string {
	return m.comment
}

// ReadConsistency returns the consistency to read p with: the property
// override, then the entity default.
func (m *EntityMeta) ReadConsistency(p *PropertyMeta) (gocql.Consistency, bool) {
	if p != nil {
		if c, ok := p.ReadConsistency(); ok {
			return c, true
		}
	}
	if m.readConsistency != nil {
		return *m.readConsistency, true
	}
	return gocql.Any, false
}

// WriteConsistency returns the consistency to write p with: the property
// override, then the entity default.
func (m *EntityMeta) WriteConsistency(p *PropertyMeta) (gocql.Consistency, bool) {
	if p != nil {
		if c, ok := p.WriteConsistency(); ok {
			return c, true
		}
	}
	if m.writeConsistency != nil {
		return *m.writeConsistency, true
	}
	return gocql.Any, false
}

// HasOnlyStaticColumns returns true if every column stored in the table
// besides the key is static.
func (m *EntityMeta) HasOnlyStaticColumns() bool {
	columns := m.TableColumns()
	if len(columns) == 0 {
		return false
	}
	for _, p := range columns {
		if !p.IsStatic() {
			return false
		}
	}
	return true
}

// IsStaticQuery returns true if every given property is static, so that a
// statement on them only needs the partition key.
func (m *EntityMeta) IsStaticQuery(properties ...*PropertyMeta) bool {
	if len(properties) == 0 {
		return false
	}
	for _, p := range properties {
		if !p.IsStatic() {
			return false
		}
	}
	return true
}

func (m *EntityMeta) String() string {
	return fmt.Sprintf("%s(%s)", m.className, m.tableName)
}
