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

package querybuilder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lann/builder"
	"github.com/uber/cqlmapper/pkg/storage/cql"
)

type columnDef struct {
	name   string
	typ    cql.Type
	static bool
}

type clusteringDef struct {
	columnDef
	order cql.ClusteringOrder
}

type createTableData struct {
	Table          string
	IfNotExists    bool
	PartitionKeys  []columnDef
	ClusteringKeys []clusteringDef
	Columns        []columnDef
	Comment        string
}

func (d *createTableData) ToSQL() (sqlStr string, args []interface{}, err error) {
	if len(d.Table) == 0 {
		err = fmt.Errorf("create table statements must specify a table")
		return
	}
	if len(d.PartitionKeys) == 0 {
		err = fmt.Errorf("create table statements must have at least one partition key")
		return
	}

	sql := &bytes.Buffer{}
	sql.WriteString("CREATE TABLE ")
	if d.IfNotExists {
		sql.WriteString("IF NOT EXISTS ")
	}
	sql.WriteString(d.Table)
	sql.WriteString("(")

	var defs []string
	for _, c := range d.PartitionKeys {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.typ))
	}
	for _, c := range d.ClusteringKeys {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.typ))
	}
	for _, c := range d.Columns {
		def := fmt.Sprintf("%s %s", c.name, c.typ)
		if c.static {
			def += " static"
		}
		defs = append(defs, def)
	}
	sql.WriteString(strings.Join(defs, ", "))

	sql.WriteString(", PRIMARY KEY(")
	partition := make([]string, len(d.PartitionKeys))
	for i, c := range d.PartitionKeys {
		partition[i] = c.name
	}
	if len(partition) > 1 {
		sql.WriteString("(" + strings.Join(partition, ", ") + ")")
	} else {
		sql.WriteString(partition[0])
	}
	for _, c := range d.ClusteringKeys {
		sql.WriteString(", ")
		sql.WriteString(c.name)
	}
	sql.WriteString("))")

	var options []string
	if len(d.ClusteringKeys) > 0 {
		orders := make([]string, len(d.ClusteringKeys))
		for i, c := range d.ClusteringKeys {
			orders[i] = fmt.Sprintf("%s %s", c.name, c.order)
		}
		options = append(options,
			fmt.Sprintf("CLUSTERING ORDER BY (%s)", strings.Join(orders, ", ")))
	}
	if len(d.Comment) > 0 {
		options = append(options,
			fmt.Sprintf("comment = '%s'", strings.Replace(d.Comment, "'", "''", -1)))
	}
	if len(options) > 0 {
		sql.WriteString(" WITH ")
		sql.WriteString(strings.Join(options, " AND "))
	}

	sqlStr = sql.String()
	return
}

func (d createTableData) GetResource() string {
	return d.Table
}

func (d createTableData) GetWhereParts() []Sqlizer {
	return nil
}

func (d createTableData) GetColumns() []string {
	var columns []string
	for _, c := range d.PartitionKeys {
		columns = append(columns, c.name)
	}
	for _, c := range d.ClusteringKeys {
		columns = append(columns, c.name)
	}
	for _, c := range d.Columns {
		columns = append(columns, c.name)
	}
	return columns
}

// Builder

// CreateTableBuilder builds CQL CREATE TABLE statements.
type CreateTableBuilder builder.Builder

func init() {
	builder.Register(CreateTableBuilder{}, createTableData{})
}

// CreateTable returns a new CreateTableBuilder for the given table.
func CreateTable(table string) CreateTableBuilder {
	return builder.Set(CreateTableBuilder(builder.EmptyBuilder), "Table", table).(CreateTableBuilder)
}

// ToSQL builds the statement into a CQL string. DDL has no bound args.
func (b CreateTableBuilder) ToSQL() (string, []interface{}, error) {
	data := builder.GetStruct(b).(createTableData)
	return data.ToSQL()
}

// StmtType returns type of the statement
func (b CreateTableBuilder) StmtType() StmtType {
	return CreateTableStmtType
}

// GetData returns the underlying struct as an interface
func (b CreateTableBuilder) GetData() StatementAccessor {
	return builder.GetStruct(b).(createTableData)
}

// IfNotExists adds IF NOT EXISTS to the statement.
func (b CreateTableBuilder) IfNotExists() CreateTableBuilder {
	return builder.Set(b, "IfNotExists", true).(CreateTableBuilder)
}

// PartitionKey adds a partition key column. Partition keys keep the order
// they were added in.
func (b CreateTableBuilder) PartitionKey(name string, typ cql.Type) CreateTableBuilder {
	return builder.Append(b, "PartitionKeys", columnDef{name: name, typ: typ}).(CreateTableBuilder)
}

// ClusteringKey adds a clustering column with its order.
func (b CreateTableBuilder) ClusteringKey(
	name string, typ cql.Type, order cql.ClusteringOrder) CreateTableBuilder {
	def := clusteringDef{columnDef: columnDef{name: name, typ: typ}, order: order}
	return builder.Append(b, "ClusteringKeys", def).(CreateTableBuilder)
}

// Column adds a regular column.
func (b CreateTableBuilder) Column(name string, typ cql.Type) CreateTableBuilder {
	return builder.Append(b, "Columns", columnDef{name: name, typ: typ}).(CreateTableBuilder)
}

// StaticColumn adds a static column.
func (b CreateTableBuilder) StaticColumn(name string, typ cql.Type) CreateTableBuilder {
	return builder.Append(b, "Columns",
		columnDef{name: name, typ: typ, static: true}).(CreateTableBuilder)
}

// Comment sets the table comment.
func (b CreateTableBuilder) Comment(comment string) CreateTableBuilder {
	return builder.Set(b, "Comment", comment).(CreateTableBuilder)
}

type createIndexData struct {
	Name        string
	Table       string
	Column      string
	IfNotExists bool
}

func (d *createIndexData) ToSQL() (sqlStr string, args []interface{}, err error) {
	if len(d.Table) == 0 || len(d.Column) == 0 {
		err = fmt.Errorf("create index statements must specify a table and a column")
		return
	}
	sql := &bytes.Buffer{}
	sql.WriteString("CREATE INDEX ")
	if d.IfNotExists {
		sql.WriteString("IF NOT EXISTS ")
	}
	if len(d.Name) > 0 {
		sql.WriteString(d.Name)
		sql.WriteString(" ")
	}
	fmt.Fprintf(sql, "ON %s(%s)", d.Table, d.Column)
	sqlStr = sql.String()
	return
}

func (d createIndexData) GetResource() string {
	return d.Table
}

func (d createIndexData) GetWhereParts() []Sqlizer {
	return nil
}

func (d createIndexData) GetColumns() []string {
	return []string{d.Column}
}

// CreateIndexBuilder builds CQL CREATE INDEX statements.
type CreateIndexBuilder builder.Builder

func init() {
	builder.Register(CreateIndexBuilder{}, createIndexData{})
}

// CreateIndex returns a new CreateIndexBuilder for the named index.
func CreateIndex(name string) CreateIndexBuilder {
	return builder.Set(CreateIndexBuilder(builder.EmptyBuilder), "Name", name).(CreateIndexBuilder)
}

// ToSQL builds the statement into a CQL string.
func (b CreateIndexBuilder) ToSQL() (string, []interface{}, error) {
	data := builder.GetStruct(b).(createIndexData)
	return data.ToSQL()
}

// StmtType returns type of the statement
func (b CreateIndexBuilder) StmtType() StmtType {
	return CreateIndexStmtType
}

// GetData returns the underlying struct as an interface
func (b CreateIndexBuilder) GetData() StatementAccessor {
	return builder.GetStruct(b).(createIndexData)
}

// On sets the indexed table and column.
func (b CreateIndexBuilder) On(table, column string) CreateIndexBuilder {
	b = builder.Set(b, "Table", table).(CreateIndexBuilder)
	return builder.Set(b, "Column", column).(CreateIndexBuilder)
}

// IfNotExists adds IF NOT EXISTS to the statement.
func (b CreateIndexBuilder) IfNotExists() CreateIndexBuilder {
	return builder.Set(b, "IfNotExists", true).(CreateIndexBuilder)
}
