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
	"github.com/gocql/gocql"
)

var gocqlNativeTypes = map[gocql.Type]DataType{
	gocql.TypeCustom:    Custom,
	gocql.TypeAscii:     Ascii,
	gocql.TypeBigInt:    Bigint,
	gocql.TypeBlob:      Blob,
	gocql.TypeBoolean:   Boolean,
	gocql.TypeCounter:   Counter,
	gocql.TypeDecimal:   Decimal,
	gocql.TypeDouble:    Double,
	gocql.TypeFloat:     Float,
	gocql.TypeInt:       Int,
	gocql.TypeText:      Text,
	gocql.TypeTimestamp: Timestamp,
	gocql.TypeUUID:      UUID,
	gocql.TypeVarchar:   Varchar,
	gocql.TypeVarint:    Varint,
	gocql.TypeTimeUUID:  TimeUUID,
	gocql.TypeInet:      Inet,
	gocql.TypeDate:      Date,
	gocql.TypeTime:      Time,
	gocql.TypeSmallInt:  Smallint,
	gocql.TypeTinyInt:   Tinyint,
}

// FromTypeInfo converts driver type information into a Type. Types the
// mapper does not model (udt, tuple, duration) come back as Custom.
func FromTypeInfo(info gocql.TypeInfo) Type {
	if info == nil {
		return Native(Custom)
	}
	switch info.Type() {
	case gocql.TypeList, gocql.TypeSet, gocql.TypeMap:
		coll, ok := info.(gocql.CollectionType)
		if !ok {
			return Native(Custom)
		}
		switch info.Type() {
		case gocql.TypeList:
			return ListOf(FromTypeInfo(coll.Elem))
		case gocql.TypeSet:
			return SetOf(FromTypeInfo(coll.Elem))
		default:
			return MapOf(FromTypeInfo(coll.Key), FromTypeInfo(coll.Elem))
		}
	}
	if kind, ok := gocqlNativeTypes[info.Type()]; ok {
		return Native(kind)
	}
	return Native(Custom)
}

func fromGocqlColumn(c *gocql.ColumnMetadata) *ColumnInfo {
	info := &ColumnInfo{
		Name: c.Name,
		Type: FromTypeInfo(c.Type),
	}
	switch c.Kind {
	case gocql.ColumnPartitionKey:
		info.Kind = PartitionKeyColumn
	case gocql.ColumnClusteringKey:
		info.Kind = ClusteringColumn
	case gocql.ColumnStatic:
		info.Kind = StaticColumn
	default:
		info.Kind = RegularColumn
	}
	if c.Order == gocql.DESC {
		info.Order = Desc
	}
	if c.Index.Name != "" {
		info.Index = &IndexInfo{Name: c.Index.Name}
	}
	return info
}

// FromGocqlTable adapts driver table metadata into a Snapshot.
func FromGocqlTable(t *gocql.TableMetadata) *Snapshot {
	s := &Snapshot{
		name:    t.Name,
		columns: make(map[string]*ColumnInfo, len(t.Columns)),
	}
	for name, c := range t.Columns {
		s.columns[name] = fromGocqlColumn(c)
	}
	for _, c := range t.PartitionKey {
		s.partition = append(s.partition, s.columns[c.Name])
	}
	for _, c := range t.ClusteringColumns {
		s.clustering = append(s.clustering, s.columns[c.Name])
	}
	return s
}

// FromGocqlKeyspace adapts driver keyspace metadata. The indexes map, keyed
// by table then column, fills in index names the driver leaves empty.
func FromGocqlKeyspace(
	ks *gocql.KeyspaceMetadata,
	indexes map[string]map[string]string) *KeyspaceSnapshot {
	k := &KeyspaceSnapshot{
		name:   ks.Name,
		tables: make(map[string]TableMetadata, len(ks.Tables)),
	}
	for name, t := range ks.Tables {
		s := FromGocqlTable(t)
		for column, index := range indexes[name] {
			if c, ok := s.columns[column]; ok && c.Index == nil {
				c.Index = &IndexInfo{Name: index}
			}
		}
		k.tables[name] = s
	}
	return k
}
