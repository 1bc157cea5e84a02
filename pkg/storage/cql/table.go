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
	"strings"
)

// ColumnKind is the role of a column inside its table.
type ColumnKind int

// Column roles.
const (
	RegularColumn ColumnKind = iota
	PartitionKeyColumn
	ClusteringColumn
	StaticColumn
)

// ClusteringOrder is the on-disk order of a clustering column.
type ClusteringOrder int

// Clustering orders.
const (
	Asc ClusteringOrder = iota
	Desc
)

func (o ClusteringOrder) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// IndexInfo describes a secondary index on a column.
type IndexInfo struct {
	Name string
}

// ColumnInfo is the live description of one column.
type ColumnInfo struct {
	Name  string
	Type  Type
	Kind  ColumnKind
	Order ClusteringOrder
	Index *IndexInfo
}

// Indexed returns true if the column carries a secondary index.
func (c *ColumnInfo) Indexed() bool {
	return c.Index != nil
}

// TableMetadata is a read-only snapshot of a live table schema.
type TableMetadata interface {
	// Name returns the table name.
	Name() string
	// Column looks up a column by name.
	Column(name string) (*ColumnInfo, bool)
	// PartitionKey returns the partition key columns in key order.
	PartitionKey() []*ColumnInfo
	// ClusteringColumns returns the clustering columns in key order.
	ClusteringColumns() []*ColumnInfo
}

// KeyspaceMetadata is a read-only snapshot of the tables of a keyspace.
type KeyspaceMetadata interface {
	// Name returns the keyspace name.
	Name() string
	// Table looks up a table by name.
	Table(name string) (TableMetadata, bool)
}

// Snapshot is an in-memory TableMetadata.
type Snapshot struct {
	name       string
	columns    map[string]*ColumnInfo
	partition  []*ColumnInfo
	clustering []*ColumnInfo
}

// NewSnapshot builds a table snapshot. Key columns keep the order in which
// they are given.
func NewSnapshot(name string, columns ...*ColumnInfo) *Snapshot {
	s := &Snapshot{
		name:    strings.ToLower(name),
		columns: make(map[string]*ColumnInfo, len(columns)),
	}
	for _, c := range columns {
		s.columns[c.Name] = c
		switch c.Kind {
		case PartitionKeyColumn:
			s.partition = append(s.partition, c)
		case ClusteringColumn:
			s.clustering = append(s.clustering, c)
		}
	}
	return s
}

// Name implements TableMetadata.
func (s *Snapshot) Name() string {
	return s.name
}

// Column implements TableMetadata.
func (s *Snapshot) Column(name string) (*ColumnInfo, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// PartitionKey implements TableMetadata.
func (s *Snapshot) PartitionKey() []*ColumnInfo {
	return s.partition
}

// ClusteringColumns implements TableMetadata.
func (s *Snapshot) ClusteringColumns() []*ColumnInfo {
	return s.clustering
}

// KeyspaceSnapshot is an in-memory KeyspaceMetadata.
type KeyspaceSnapshot struct {
	name   string
	tables map[string]TableMetadata
}

// NewKeyspaceSnapshot builds a keyspace snapshot from tables.
func NewKeyspaceSnapshot(name string, tables ...TableMetadata) *KeyspaceSnapshot {
	k := &KeyspaceSnapshot{
		name:   name,
		tables: make(map[string]TableMetadata, len(tables)),
	}
	for _, t := range tables {
		k.tables[t.Name()] = t
	}
	return k
}

// Name implements KeyspaceMetadata.
func (k *KeyspaceSnapshot) Name() string {
	return k.name
}

// Table implements KeyspaceMetadata.
func (k *KeyspaceSnapshot) Table(name string) (TableMetadata, bool) {
	t, ok := k.tables[strings.ToLower(name)]
	return t, ok
}
