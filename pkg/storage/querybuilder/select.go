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

type selectData struct {
	Distinct       bool
	Columns        []string
	From           string
	WhereParts     []Sqlizer
	OrderBys       []string
	Limit          string
	AllowFiltering bool
	PageSize       int
	PagingState    []byte
}

func (d *selectData) ToSQL() (sqlStr string, args []interface{}, err error) {
	if len(d.Columns) == 0 {
		err = fmt.Errorf("select statements must have at least one result column")
		return
	}
	if len(d.From) == 0 {
		err = fmt.Errorf("select statements must specify a table")
		return
	}

	sql := &bytes.Buffer{}

	sql.WriteString("SELECT ")
	if d.Distinct {
		sql.WriteString("DISTINCT ")
	}
	sql.WriteString(strings.Join(d.Columns, ","))

	sql.WriteString(" FROM ")
	sql.WriteString(d.From)

	if len(d.WhereParts) > 0 {
		sql.WriteString(" WHERE ")
		args, err = appendToSQL(d.WhereParts, sql, " AND ", args)
		if err != nil {
			return
		}
	}

	if len(d.OrderBys) > 0 {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(d.OrderBys, ","))
	}

	if len(d.Limit) > 0 {
		sql.WriteString(" LIMIT ")
		sql.WriteString(d.Limit)
	}

	if d.AllowFiltering {
		sql.WriteString(" ALLOW FILTERING")
	}

	sqlStr = sql.String()
	return
}

func (d selectData) GetResource() string {
	return d.From
}

func (d selectData) GetWhereParts() []Sqlizer {
	return d.WhereParts
}

func (d selectData) GetColumns() []string {
	return d.Columns
}

// Builder

// SelectBuilder builds CQL SELECT statements.
type SelectBuilder builder.Builder

func init() {
	builder.Register(SelectBuilder{}, selectData{})
}

// SQL methods

// ToSQL builds the query into a CQL string and bound args.
func (b SelectBuilder) ToSQL() (string, []interface{}, error) {
	data := builder.GetStruct(b).(selectData)
	return data.ToSQL()
}

// StmtType returns type of the statement
func (b SelectBuilder) StmtType() StmtType {
	return SelectStmtType
}

// GetData returns the underlying struct as an interface
func (b SelectBuilder) GetData() StatementAccessor {
	return builder.GetStruct(b).(selectData)
}

// Distinct adds a DISTINCT clause to the query.
func (b SelectBuilder) Distinct() SelectBuilder {
	return builder.Set(b, "Distinct", true).(SelectBuilder)
}

// Columns adds result columns to the query.
func (b SelectBuilder) Columns(columns ...string) SelectBuilder {
	return builder.Extend(b, "Columns", columns).(SelectBuilder)
}

// From sets the FROM clause of the query.
func (b SelectBuilder) From(from string) SelectBuilder {
	return builder.Set(b, "From", from).(SelectBuilder)
}

// Where adds an expression to the WHERE clause of the query.
//
// Expressions are ANDed together in the generated CQL.
//
// Where accepts several types for its pred argument:
//
// nil OR "" - ignored.
//
// string - CQL expression.
// If the expression has CQL placeholders then a set of arguments must be passed
// as well, one for each placeholder.
//
// map[string]interface{} OR Eq - map of CQL expressions to values. Each key is
// transformed into an expression like "<key> = ?", with the corresponding value
// bound to the placeholder. If the value is a slice,
// the expression will look like "<key> IN (?,?,...)".
// These expressions are ANDed together.
//
// Where will panic if pred isn't any of the above types.
func (b SelectBuilder) Where(pred interface{}, args ...interface{}) SelectBuilder {
	return builder.Append(b, "WhereParts", newWherePart(pred, args...)).(SelectBuilder)
}

// OrderBy adds ORDER BY expressions to the query.
func (b SelectBuilder) OrderBy(orderBys ...string) SelectBuilder {
	return builder.Extend(b, "OrderBys", orderBys).(SelectBuilder)
}

// Limit sets a LIMIT clause on the query.
func (b SelectBuilder) Limit(limit uint64) SelectBuilder {
	return builder.Set(b, "Limit", fmt.Sprintf("%d", limit)).(SelectBuilder)
}

// AllowFiltering adds ALLOW FILTERING to the query.
func (b SelectBuilder) AllowFiltering() SelectBuilder {
	return builder.Set(b, "AllowFiltering", true).(SelectBuilder)
}

// PageSize sets the page size of the query. It is a driver option and does
// not appear in the rendered statement.
func (b SelectBuilder) PageSize(size int) SelectBuilder {
	return builder.Set(b, "PageSize", size).(SelectBuilder)
}

// PagingState sets the paging state to resume the query from.
func (b SelectBuilder) PagingState(state []byte) SelectBuilder {
	return builder.Set(b, "PagingState", state).(SelectBuilder)
}

// GetPageSize returns the page size set on the query.
func (b SelectBuilder) GetPageSize() int {
	return builder.GetStruct(b).(selectData).PageSize
}

// GetPagingState returns the paging state set on the query.
func (b SelectBuilder) GetPagingState() []byte {
	return builder.GetStruct(b).(selectData).PagingState
}
