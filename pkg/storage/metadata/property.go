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
	"reflect"
	"strings"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/codec"
	"github.com/uber/cqlmapper/pkg/storage/cql"
)

// PropertyType is the kind of a mapped property.
type PropertyType int

// Property kinds.
const (
	SimpleProperty PropertyType = iota
	IDProperty
	EmbeddedIDProperty
	ListProperty
	SetProperty
	MapProperty
	CounterProperty
)

func (t PropertyType) String() string {
	switch t {
	case SimpleProperty:
		return "SIMPLE"
	case IDProperty:
		return "ID"
	case EmbeddedIDProperty:
		return "EMBEDDED_ID"
	case ListProperty:
		return "LIST"
	case SetProperty:
		return "SET"
	case MapProperty:
		return "MAP"
	case CounterProperty:
		return "COUNTER"
	}
	return fmt.Sprintf("PropertyType(%d)", int(t))
}

// IsCollection returns true for list, set and map properties.
func (t PropertyType) IsCollection() bool {
	return t == ListProperty || t == SetProperty || t == MapProperty
}

// PropertyMeta describes one mapped property of an entity. It is immutable
// once built.
type PropertyMeta struct {
	name                  string
	column                string
	entityClassName       string
	kind                  PropertyType
	codec                 codec.Codec
	elemCodec             codec.Codec
	keyCodec              codec.Codec
	accessor              Accessor
	static                bool
	timeUUID              bool
	keyTimeUUID           bool
	emptyCollectionIfNull bool
	indexed               bool
	indexName             string
	readConsistency       *gocql.Consistency
	writeConsistency      *gocql.Consistency
	compoundKey           *CompoundKey
	jsonMapper            codec.JSONMapper
}

// PropertyBuilder builds a PropertyMeta.
type PropertyBuilder struct {
	meta PropertyMeta
}

// NewProperty starts building a property of the given kind.
func NewProperty(entityClassName, name string, kind PropertyType) *PropertyBuilder {
	return &PropertyBuilder{meta: PropertyMeta{
		name:            name,
		entityClassName: entityClassName,
		kind:            kind,
	}}
}

// Column overrides the column name, which defaults to the lowercased
// property name.
func (b *PropertyBuilder) Column(column string) *PropertyBuilder {
	b.meta.column = column
	return b
}

// Codec sets the value codec: the scalar codec of simple and id
// properties, the element codec of lists and sets, the value codec of maps.
func (b *PropertyBuilder) Codec(c codec.Codec) *PropertyBuilder {
	b.meta.elemCodec = c
	return b
}

// KeyCodec sets the key codec of a map property.
func (b *PropertyBuilder) KeyCodec(c codec.Codec) *PropertyBuilder {
	b.meta.keyCodec = c
	return b
}

// Accessor sets the field accessor.
func (b *PropertyBuilder) Accessor(a Accessor) *PropertyBuilder {
	b.meta.accessor = a
	return b
}

// Static marks the property as a static column.
func (b *PropertyBuilder) Static() *PropertyBuilder {
	b.meta.static = true
	return b
}

// TimeUUID stores uuid values as timeuuid.
func (b *PropertyBuilder) TimeUUID() *PropertyBuilder {
	b.meta.timeUUID = true
	return b
}

// KeyTimeUUID stores uuid map keys as timeuuid.
func (b *PropertyBuilder) KeyTimeUUID() *PropertyBuilder {
	b.meta.keyTimeUUID = true
	return b
}

// EmptyCollectionIfNull reads a null collection as an empty one.
func (b *PropertyBuilder) EmptyCollectionIfNull() *PropertyBuilder {
	b.meta.emptyCollectionIfNull = true
	return b
}

// Indexed adds a secondary index. An empty name defaults to
// <table>_<column>.
func (b *PropertyBuilder) Indexed(name string) *PropertyBuilder {
	b.meta.indexed = true
	b.meta.indexName = name
	return b
}

// ReadConsistency overrides the read consistency of the property.
func (b *PropertyBuilder) ReadConsistency(c gocql.Consistency) *PropertyBuilder {
	b.meta.readConsistency = &c
	return b
}

// WriteConsistency overrides the write consistency of the property.
func (b *PropertyBuilder) WriteConsistency(c gocql.Consistency) *PropertyBuilder {
	b.meta.writeConsistency = &c
	return b
}

// CompoundKey sets the compound key of an embedded id property.
func (b *PropertyBuilder) CompoundKey(k *CompoundKey) *PropertyBuilder {
	b.meta.compoundKey = k
	return b
}

// JSONMapper sets the mapper used for forced JSON encoding.
func (b *PropertyBuilder) JSONMapper(m codec.JSONMapper) *PropertyBuilder {
	b.meta.jsonMapper = m
	return b
}

// Build validates the description and returns the immutable metadata.
func (b *PropertyBuilder) Build() (*PropertyMeta, error) {
	m := b.meta
	if m.column == "" {
		m.column = strings.ToLower(m.name)
	}
	if err := validateName(m.column); err != nil {
		return nil, errors.Wrapf(err, "property '%s' of entity '%s'", m.name, m.entityClassName)
	}
	if (m.kind == EmbeddedIDProperty) != (m.compoundKey != nil) {
		return nil, m.invalid("a compound key is required for, and only allowed on, an embedded id")
	}
	if !m.accessor.valid() {
		return nil, m.invalid("an accessor is required")
	}
	if m.indexed && m.kind != SimpleProperty {
		return nil, m.invalid("only simple properties can be indexed")
	}
	if m.static && (m.kind == IDProperty || m.kind == EmbeddedIDProperty) {
		return nil, m.invalid("a primary key cannot be static")
	}
	if m.emptyCollectionIfNull && !m.kind.IsCollection() {
		return nil, m.invalid("only collections can default to empty")
	}
	if m.keyTimeUUID && m.kind != MapProperty {
		return nil, m.invalid("only map keys can be timeuuid keys")
	}
	if m.jsonMapper == nil {
		m.jsonMapper = codec.NewJSONMapper()
	}

	switch m.kind {
	case SimpleProperty, IDProperty:
		if m.elemCodec == nil {
			return nil, m.invalid("a codec is required")
		}
		m.codec = m.elemCodec
	case ListProperty:
		if m.elemCodec == nil {
			return nil, m.invalid("an element codec is required")
		}
		m.codec = codec.List(m.elemCodec)
	case SetProperty:
		if m.elemCodec == nil {
			return nil, m.invalid("an element codec is required")
		}
		m.codec = codec.Set(m.elemCodec)
	case MapProperty:
		if m.elemCodec == nil || m.keyCodec == nil {
			return nil, m.invalid("key and value codecs are required")
		}
		m.codec = codec.Map(m.keyCodec, m.elemCodec)
	case CounterProperty:
		m.elemCodec = codec.CounterCodec()
		m.codec = m.elemCodec
	case EmbeddedIDProperty:
	default:
		return nil, m.invalid(fmt.Sprintf("unknown kind %d", int(m.kind)))
	}

	if m.kind != EmbeddedIDProperty {
		if _, err := m.CQLType(); err != nil {
			return nil, errors.Wrapf(err, "property '%s' of entity '%s'", m.name, m.entityClassName)
		}
	}
	return &m, nil
}

func (m *PropertyMeta) invalid(reason string) error {
	return errors.Wrapf(ErrInvalidMetadata, "property '%s' of entity '%s': %s",
		m.name, m.entityClassName, reason)
}

// Name returns the property name.
func (m *PropertyMeta) Name() string {
	return m.name
}

// CQLName returns the column name.
func (m *PropertyMeta) CQLName() string {
	return m.column
}

// EntityClassName returns the name of the owning entity.
func (m *PropertyMeta) EntityClassName() string {
	return m.entityClassName
}

// Kind returns the property kind.
func (m *PropertyMeta) Kind() PropertyType {
	return m.kind
}

// IsStatic returns true for static columns.
func (m *PropertyMeta) IsStatic() bool {
	return m.static
}

// IsTimeUUID returns true if uuids are stored as timeuuid.
func (m *PropertyMeta) IsTimeUUID() bool {
	return m.timeUUID
}

// IsKeyTimeUUID returns true if uuid map keys are stored as timeuuid.
func (m *PropertyMeta) IsKeyTimeUUID() bool {
	return m.keyTimeUUID
}

// IsIndexed returns true if the column has a secondary index.
func (m *PropertyMeta) IsIndexed() bool {
	return m.indexed
}

// IndexName returns the secondary index name for the given table.
func (m *PropertyMeta) IndexName(table string) string {
	if m.indexName != "" {
		return m.indexName
	}
	return table + "_" + m.column
}

// IsEmptyCollectionIfNull returns true if a null collection reads as empty.
func (m *PropertyMeta) IsEmptyCollectionIfNull() bool {
	return m.emptyCollectionIfNull
}

// IsPrimaryKey returns true for id and embedded id properties.
func (m *PropertyMeta) IsPrimaryKey() bool {
	return m.kind == IDProperty || m.kind == EmbeddedIDProperty
}

// IsEmbeddedID returns true for compound primary keys.
func (m *PropertyMeta) IsEmbeddedID() bool {
	return m.kind == EmbeddedIDProperty
}

// IsCounter returns true for counter properties.
func (m *PropertyMeta) IsCounter() bool {
	return m.kind == CounterProperty
}

// IsCollection returns true for list, set and map properties.
func (m *PropertyMeta) IsCollection() bool {
	return m.kind.IsCollection()
}

// Accessor returns the field accessor.
func (m *PropertyMeta) Accessor() Accessor {
	return m.accessor
}

// Codec returns the codec of the whole property value.
func (m *PropertyMeta) Codec() codec.Codec {
	return m.codec
}

// ValueCodec returns the scalar codec, or the element (value) codec of a
// collection.
func (m *PropertyMeta) ValueCodec() codec.Codec {
	return m.elemCodec
}

// KeyCodec returns the key codec of a map property.
func (m *PropertyMeta) KeyCodec() codec.Codec {
	return m.keyCodec
}

// ReadConsistency returns the read consistency override, if any.
func (m *PropertyMeta) ReadConsistency() (gocql.Consistency, bool) {
	if m.readConsistency == nil {
		return gocql.Any, false
	}
	return *m.readConsistency, true
}

// WriteConsistency returns the write consistency override, if any.
func (m *PropertyMeta) WriteConsistency() (gocql.Consistency, bool) {
	if m.writeConsistency == nil {
		return gocql.Any, false
	}
	return *m.writeConsistency, true
}

// CQLType returns the column type used for table creation and validation.
func (m *PropertyMeta) CQLType() (cql.Type, error) {
	switch m.kind {
	case SimpleProperty, IDProperty:
		return scalarType(m.elemCodec, m.timeUUID)
	case ListProperty, SetProperty:
		elem, err := scalarType(m.elemCodec, m.timeUUID)
		if err != nil {
			return cql.Type{}, err
		}
		if m.kind == ListProperty {
			return cql.ListOf(elem), nil
		}
		return cql.SetOf(elem), nil
	case MapProperty:
		key, err := scalarType(m.keyCodec, m.keyTimeUUID)
		if err != nil {
			return cql.Type{}, err
		}
		value, err := scalarType(m.elemCodec, m.timeUUID)
		if err != nil {
			return cql.Type{}, err
		}
		return cql.MapOf(key, value), nil
	case CounterProperty:
		return cql.Native(cql.Counter), nil
	}
	return cql.Type{}, errors.Wrapf(ErrUnsupportedConversion,
		"property '%s' of entity '%s' of kind %s has no single column type",
		m.name, m.entityClassName, m.kind)
}

func scalarType(c codec.Codec, timeUUID bool) (cql.Type, error) {
	t, err := cql.TypeOf(c.TargetType())
	if err != nil {
		return cql.Type{}, err
	}
	if timeUUID && t.Kind == cql.UUID {
		return cql.Native(cql.TimeUUID), nil
	}
	return t, nil
}

// Decode converts a wire value into the in-memory property value.
func (m *PropertyMeta) Decode(wire interface{}) (interface{}, error) {
	switch m.kind {
	case SimpleProperty, IDProperty, CounterProperty:
		return m.DecodeScalar(wire)
	case ListProperty:
		return m.DecodeList(wire)
	case SetProperty:
		return m.DecodeSet(wire)
	case MapProperty:
		return m.DecodeMap(wire)
	}
	return nil, m.unsupported("decode")
}

// DecodeScalar decodes the value of a simple, id or counter property.
func (m *PropertyMeta) DecodeScalar(wire interface{}) (interface{}, error) {
	if m.kind != SimpleProperty && m.kind != IDProperty && m.kind != CounterProperty {
		return nil, m.unsupported("decode as scalar")
	}
	return m.transcode(m.codec.Decode, wire, "decode")
}

// DecodeList decodes the value of a list property.
func (m *PropertyMeta) DecodeList(wire interface{}) (interface{}, error) {
	if m.kind != ListProperty {
		return nil, m.unsupported("decode as list")
	}
	return m.transcode(m.codec.Decode, wire, "decode")
}

// DecodeSet decodes the value of a set property.
func (m *PropertyMeta) DecodeSet(wire interface{}) (interface{}, error) {
	if m.kind != SetProperty {
		return nil, m.unsupported("decode as set")
	}
	return m.transcode(m.codec.Decode, wire, "decode")
}

// DecodeMap decodes the value of a map property.
func (m *PropertyMeta) DecodeMap(wire interface{}) (interface{}, error) {
	if m.kind != MapProperty {
		return nil, m.unsupported("decode as map")
	}
	return m.transcode(m.codec.Decode, wire, "decode")
}

// Encode converts an in-memory value into its wire value. Counters encode
// their pending delta.
func (m *PropertyMeta) Encode(value interface{}) (interface{}, error) {
	if m.kind == EmbeddedIDProperty {
		return nil, m.unsupported("encode")
	}
	return m.transcode(m.codec.Encode, value, "encode")
}

// EncodeElement encodes a single list or set element, or a map value.
func (m *PropertyMeta) EncodeElement(value interface{}) (interface{}, error) {
	if !m.kind.IsCollection() {
		return nil, m.unsupported("encode element")
	}
	return m.transcode(m.elemCodec.Encode, value, "encode element")
}

// EncodeKey encodes a single map key.
func (m *PropertyMeta) EncodeKey(key interface{}) (interface{}, error) {
	if m.kind != MapProperty {
		return nil, m.unsupported("encode key")
	}
	return m.transcode(m.keyCodec.Encode, key, "encode key")
}

func (m *PropertyMeta) transcode(
	f func(interface{}) (interface{}, error),
	v interface{},
	op string) (interface{}, error) {
	out, err := f(v)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot %s property '%s' of entity '%s'",
			op, m.name, m.entityClassName)
	}
	return out, nil
}

func (m *PropertyMeta) unsupported(op string) error {
	return errors.Wrapf(ErrUnsupportedConversion,
		"cannot %s property '%s' of kind %s for entity '%s'",
		op, m.name, m.kind, m.entityClassName)
}

// GetValue reads the property from an entity.
func (m *PropertyMeta) GetValue(entity interface{}) (interface{}, error) {
	v, err := m.accessor.Get(entity)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read property '%s' of entity '%s'",
			m.name, m.entityClassName)
	}
	return v, nil
}

// SetValue writes the property on an entity.
func (m *PropertyMeta) SetValue(entity, value interface{}) error {
	if err := m.accessor.Set(entity, value); err != nil {
		return errors.Wrapf(err, "cannot set property '%s' of entity '%s'",
			m.name, m.entityClassName)
	}
	return nil
}

// GetAndEncodeForWire reads the property from an entity and encodes it.
// A null field encodes to nil.
func (m *PropertyMeta) GetAndEncodeForWire(entity interface{}) (interface{}, error) {
	v, err := m.GetValue(entity)
	if err != nil || v == nil {
		return nil, err
	}
	return m.Encode(v)
}

// NullValueForCollection returns a new empty collection when the property
// defaults to empty, nil otherwise.
func (m *PropertyMeta) NullValueForCollection() interface{} {
	if !m.emptyCollectionIfNull {
		return nil
	}
	t := m.codec.SourceType()
	switch m.kind {
	case ListProperty:
		return reflect.MakeSlice(t, 0, 0).Interface()
	case SetProperty, MapProperty:
		return reflect.MakeMap(t).Interface()
	}
	return nil
}

// ForceEncodeToJSON marshals v to JSON with the property mapper.
func (m *PropertyMeta) ForceEncodeToJSON(v interface{}) (string, error) {
	s, err := codec.ForceEncodeToJSON(m.jsonMapper, v)
	if err != nil {
		return "", errors.Wrapf(err, "Error while encoding value '%v' for entity '%s'",
			v, m.entityClassName)
	}
	return s, nil
}

// ForceDecodeFromJSON unmarshals s into a value of type t with the property
// mapper.
func (m *PropertyMeta) ForceDecodeFromJSON(s string, t reflect.Type) (interface{}, error) {
	v, err := codec.ForceDecodeFromJSON(m.jsonMapper, s, t)
	if err != nil {
		return nil, errors.Wrapf(err, "Error while decoding '%s' for entity '%s'",
			s, m.entityClassName)
	}
	return v, nil
}

// CompoundKey returns the compound key of an embedded id. Calling it on any
// other property is a programming error and panics.
func (m *PropertyMeta) CompoundKey() *CompoundKey {
	if m.kind != EmbeddedIDProperty {
		panic(fmt.Sprintf("property '%s' of entity '%s' is not an embedded id",
			m.name, m.entityClassName))
	}
	return m.compoundKey
}

// EncodeToComponents encodes the compound key held by the embedded id.
func (m *PropertyMeta) EncodeToComponents(key interface{}, onlyStatic bool) ([]interface{}, error) {
	return m.CompoundKey().EncodeToComponents(key, onlyStatic)
}

// DecodeFromComponents decodes a compound key from its wire components.
func (m *PropertyMeta) DecodeFromComponents(components []interface{}) (interface{}, error) {
	return m.CompoundKey().DecodeFromComponents(components)
}

// ValidatePartitionComponents validates partition values of a query on the
// embedded id.
func (m *PropertyMeta) ValidatePartitionComponents(values ...interface{}) error {
	return m.CompoundKey().ValidatePartitionComponents(m.entityClassName, values...)
}

// ValidatePartitionComponentsIn validates partition values of an IN query
// on the embedded id.
func (m *PropertyMeta) ValidatePartitionComponentsIn(values ...interface{}) error {
	return m.CompoundKey().ValidatePartitionComponentsIn(m.entityClassName, values...)
}

// ValidateClusteringComponents validates clustering values of a query on
// the embedded id.
func (m *PropertyMeta) ValidateClusteringComponents(values ...interface{}) error {
	return m.CompoundKey().ValidateClusteringComponents(m.entityClassName, values...)
}

// ValidateClusteringComponentsIn validates clustering values of an IN query
// on the embedded id.
func (m *PropertyMeta) ValidateClusteringComponentsIn(values ...interface{}) error {
	return m.CompoundKey().ValidateClusteringComponentsIn(m.entityClassName, values...)
}

// ColumnNames returns the columns backing the property: the key components
// of an embedded id, the property column otherwise.
func (m *PropertyMeta) ColumnNames(onlyStatic bool) []string {
	if m.kind == EmbeddedIDProperty {
		return m.compoundKey.ComponentNames(onlyStatic)
	}
	return []string{m.column}
}

func (m *PropertyMeta) String() string {
	return fmt.Sprintf("%s.%s(%s)", m.entityClassName, m.name, m.kind)
}
