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

package metadata_test

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uber/cqlmapper/pkg/storage/codec"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/metadata/metadatatest"
)

func simple(t *testing.T, name string, opts ...func(*metadata.PropertyBuilder)) *metadata.PropertyMeta {
	b := metadata.NewProperty("Rec", name, metadata.SimpleProperty).
		Codec(codec.Native(reflect.TypeOf(""))).
		Accessor(metadata.RecordField(name))
	for _, o := range opts {
		o(b)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func recordID(t *testing.T) *metadata.PropertyMeta {
	p, err := metadata.NewProperty("Rec", "id", metadata.IDProperty).
		Codec(codec.Native(reflect.TypeOf(""))).
		Accessor(metadata.RecordField("id")).
		Build()
	require.NoError(t, err)
	return p
}

// TestEntityMeta tests the derived views of built entity metadata
func TestEntityMeta(t *testing.T) {
	user := metadatatest.UserMeta()
	assert.Equal(t, "users", user.TableName())
	assert.Equal(t, "User", user.ClassName())
	assert.Equal(t, "users of the system", user.Comment())
	assert.Equal(t, "id", user.IDMeta().Name())
	assert.Len(t, user.AllProperties(), 9)
	assert.Equal(t, "id", user.AllProperties()[0].Name())
	assert.True(t, user.HasCounters())
	assert.Len(t, user.Counters(), 1)
	assert.False(t, user.IsClusteredCounter())

	var columns []string
	for _, p := range user.TableColumns() {
		columns = append(columns, p.CQLName())
	}
	assert.Equal(t, []string{"name", "age", "status", "tags", "emails", "prefs", "friends"}, columns)

	stats := metadatatest.StatsMeta()
	assert.True(t, stats.IsClusteredCounter())
	assert.Len(t, stats.TableColumns(), 2)
}

// TestStaticColumns tests static only detection
func TestStaticColumns(t *testing.T) {
	event := metadatatest.EventMeta()
	owner, _ := event.Property("owner")
	labels, _ := event.Property("labels")
	assert.False(t, event.HasOnlyStaticColumns())
	assert.True(t, event.IsStaticQuery(owner))
	assert.False(t, event.IsStaticQuery(owner, labels))
	assert.False(t, event.IsStaticQuery())
}

// TestEntityBuildErrors tests entity construction checks
func TestEntityBuildErrors(t *testing.T) {
	data := []*metadata.EntityBuilder{
		metadata.NewEntity("Rec", "records"),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).ID(recordID(t)),
		metadata.NewEntity("Rec", "records").ID(simple(t, "id")),
		metadata.NewEntity("Rec", "bad table").ID(recordID(t)),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).Property(recordID(t)),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).Property(simple(t, "a"), simple(t, "a")),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).Property(simple(t, "id")),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).Property(
			simple(t, "a", func(b *metadata.PropertyBuilder) { b.Static() })),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).Property(simple(t, "a")).ClusteredCounter(),
		metadata.NewEntity("Rec", "records").ID(recordID(t)).ClusteredCounter(),
	}
	for i, b := range data {
		_, err := b.Build()
		assert.Error(t, err, "case %d", i)
		assert.Equal(t, metadata.ErrInvalidMetadata, errors.Cause(err), "case %d", i)
	}
}

// TestNormalizeTableName tests table name normalization
func TestNormalizeTableName(t *testing.T) {
	name, err := metadata.NormalizeTableName("My_Table1")
	assert.NoError(t, err)
	assert.Equal(t, "my_table1", name)

	_, err = metadata.NormalizeTableName("my-table")
	assert.Error(t, err)
}

// TestRecordEntity tests an entity stored in a Record
func TestRecordEntity(t *testing.T) {
	meta, err := metadata.NewEntity("Rec", "records").
		ID(recordID(t)).
		Property(simple(t, "a")).
		SchemaUpdateEnabled().
		Build()
	require.NoError(t, err)
	assert.True(t, meta.IsSchemaUpdateEnabled())

	rec := metadata.Record{"id": "k", "a": "v"}
	a, _ := meta.Property("a")
	v, err := a.GetAndEncodeForWire(rec)
	assert.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = a.GetValue(map[string]interface{}{"a": "v"})
	assert.Equal(t, metadata.ErrInvalidEntity, errors.Cause(err))
}
