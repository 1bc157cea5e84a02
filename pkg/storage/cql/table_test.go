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

package cql

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSnapshot tests key ordering of an in-memory table snapshot
func TestSnapshot(t *testing.T) {
	s := NewSnapshot("Users",
		&ColumnInfo{Name: "id", Type: Native(Bigint), Kind: PartitionKeyColumn},
		&ColumnInfo{Name: "kind", Type: Native(Text), Kind: PartitionKeyColumn},
		&ColumnInfo{Name: "date", Type: Native(UUID), Kind: ClusteringColumn, Order: Desc},
		&ColumnInfo{Name: "name", Type: Native(Text), Index: &IndexInfo{Name: "users_name"}},
	)
	assert.Equal(t, "users", s.Name())
	require.Len(t, s.PartitionKey(), 2)
	assert.Equal(t, "id", s.PartitionKey()[0].Name)
	assert.Equal(t, "kind", s.PartitionKey()[1].Name)
	require.Len(t, s.ClusteringColumns(), 1)
	assert.Equal(t, Desc, s.ClusteringColumns()[0].Order)

	c, ok := s.Column("name")
	require.True(t, ok)
	assert.True(t, c.Indexed())
	_, ok = s.Column("missing")
	assert.False(t, ok)

	ks := NewKeyspaceSnapshot("ks", s)
	tbl, ok := ks.Table("USERS")
	assert.True(t, ok)
	assert.Equal(t, s, tbl)
}

// TestFromGocqlKeyspace tests adapting driver metadata
func TestFromGocqlKeyspace(t *testing.T) {
	id := &gocql.ColumnMetadata{
		Name: "id",
		Kind: gocql.ColumnPartitionKey,
		Type: gocql.NewNativeType(4, gocql.TypeBigInt, ""),
	}
	date := &gocql.ColumnMetadata{
		Name:  "date",
		Kind:  gocql.ColumnClusteringKey,
		Type:  gocql.NewNativeType(4, gocql.TypeTimeUUID, ""),
		Order: gocql.DESC,
	}
	tags := &gocql.ColumnMetadata{
		Name: "tags",
		Kind: gocql.ColumnRegular,
		Type: gocql.CollectionType{
			NativeType: gocql.NewNativeType(4, gocql.TypeMap, ""),
			Key:        gocql.NewNativeType(4, gocql.TypeVarchar, ""),
			Elem:       gocql.NewNativeType(4, gocql.TypeInt, ""),
		},
	}
	payload := &gocql.ColumnMetadata{
		Name: "payload",
		Kind: gocql.ColumnStatic,
		Type: gocql.NewNativeType(4, gocql.TypeCustom, "org.apache.cassandra.db.marshal.BytesType"),
	}
	ks := &gocql.KeyspaceMetadata{
		Name: "ks",
		Tables: map[string]*gocql.TableMetadata{
			"events": {
				Name:              "events",
				PartitionKey:      []*gocql.ColumnMetadata{id},
				ClusteringColumns: []*gocql.ColumnMetadata{date},
				Columns: map[string]*gocql.ColumnMetadata{
					"id": id, "date": date, "tags": tags, "payload": payload,
				},
			},
		},
	}

	snapshot := FromGocqlKeyspace(ks, map[string]map[string]string{
		"events": {"tags": "events_tags"},
	})
	assert.Equal(t, "ks", snapshot.Name())
	tbl, ok := snapshot.Table("events")
	require.True(t, ok)

	require.Len(t, tbl.PartitionKey(), 1)
	assert.Equal(t, "bigint", tbl.PartitionKey()[0].Type.String())
	require.Len(t, tbl.ClusteringColumns(), 1)
	assert.Equal(t, Desc, tbl.ClusteringColumns()[0].Order)
	assert.Equal(t, "timeuuid", tbl.ClusteringColumns()[0].Type.String())

	c, ok := tbl.Column("tags")
	require.True(t, ok)
	assert.Equal(t, "map<varchar, int>", c.Type.String())
	assert.Equal(t, "events_tags", c.Index.Name)

	c, ok = tbl.Column("payload")
	require.True(t, ok)
	assert.Equal(t, StaticColumn, c.Kind)
	assert.True(t, c.Type.Equivalent(Native(Blob)))
}
