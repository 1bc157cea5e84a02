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
)

type deleteData struct {
	Columns     []string
	From        string
	Usings      exprs
	WhereParts  []Sqlizer
	IfOnlyParts []Sqlizer
	IfExists    bool
}

func (d *deleteData) ToSQL() (sqlStr string, args []interface{}, err error) {
	if len(d.From) == 0 {
		err = fmt.Errorf("delete statements must specify a From table")
		return
	}

	sql := &bytes.Buffer{}

	sql.WriteString("DELETE ")
	if len(d.Columns) > 0 {
		sql.WriteString(strings.Join(d.Columns, ","))
		sql.WriteString(" ")
	}
	sql.WriteString("FROM ")
	sql.WriteString(d.From)

	if len(d.Usings) > 0 {
		sql.WriteString(" USING ")
		args, _ = d.Usings.AppendToSQL(sql, " AND ", args)
	}

	if len(d.WhereParts) > 0 {
		sql.WriteString(" WHERE ")
		args, err = appendToSQL(d.WhereParts, sql, " AND ", args)
		if err != nil {
			return
		}
	}

	if d.IfExists {
		sql.WriteString(" IF EXISTS")
	} else if len(d.IfOnlyParts) > 0 {
		sql.WriteString(" IF ")
		args, err = appendToSQL(d.IfOnlyParts, sql, " AND ", args)
		if err != nil {
			return
		}
	}

	sqlStr = sql.String()
	return
}

func (d deleteData) GetResource() string {
	return d.From
}

func (d deleteData) GetWhereParts() []Sqlizer {
	return d.WhereParts
}

func (d deleteData) GetColumns() []string {
	return d.Columns
}

// Builder

// DeleteBuilder builds CQL DELETE statements.
type DeleteBuilder builder.Builder

func init() {
	builder.Register(DeleteBuilder{}, deleteData{})
}

// SQL methods

// ToSQL builds the query into a CQL string and bound args.
func (b DeleteBuilder) ToSQL() (string, []interface{}, error) {
	data := builder.GetStruct(b).(deleteData)
	return data.ToSQL()
}

// StmtType returns type of the statement
func (b DeleteBuilder) StmtType() StmtType {
	return DeleteStmtType
}

// GetData returns the underlying struct as an interface
func (b DeleteBuilder) GetData() StatementAccessor {
	return builder.GetStruct(b).(deleteData)
}

// Columns restricts the delete to the given columns of the row.
func (b DeleteBuilder) Columns(columns ...string) DeleteBuilder {
	return builder.Extend(b, "Columns", columns).(DeleteBuilder)
}

// From sets the table to be deleted from.
func (b DeleteBuilder) From(from string) DeleteBuilder {
	return builder.Set(b, "From", from).(DeleteBuilder)
}

// Using adds a USING TIMESTAMP option to the query.
func (b DeleteBuilder) Using(sql string, args ...interface{}) DeleteBuilder {
	return builder.Append(b, "Usings", expression(sql, args...)).(DeleteBuilder)
}

// Where adds WHERE expressions to the query.
//
// See SelectBuilder.Where for more information.
func (b DeleteBuilder) Where(pred interface{}, args ...interface{}) DeleteBuilder {
	return builder.Append(b, "WhereParts", newWherePart(pred, args...)).(DeleteBuilder)
}

// IfOnly represents a LWT
func (b DeleteBuilder) IfOnly(pred interface{}, rest ...interface{}) DeleteBuilder {
	return builder.Append(b, "IfOnlyParts", newWherePart(pred, rest...)).(DeleteBuilder)
}

// IfExists deletes only if the row exists.
func (b DeleteBuilder) IfExists() DeleteBuilder {
	return builder.Set(b, "IfExists", true).(DeleteBuilder)
}

// IsCAS returns true is the delete statement has a compare-and-set part
func (b DeleteBuilder) IsCAS() bool {
	data := builder.GetStruct(b).(deleteData)
	return data.IfExists || len(data.IfOnlyParts) > 0
}
