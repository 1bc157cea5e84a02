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
	"errors"
	"fmt"
	"strings"

	"github.com/lann/builder"
)

type updateData struct {
	Table       string
	SetClauses  []setClause
	WhereParts  []Sqlizer
	IfOnlyParts []Sqlizer
	IfExists    bool
	Usings      exprs
}

type setOp int

const (
	opAssign setOp = iota
	opAdd
	opRemove
	opPrepend
	opAssignAt
)

// setClause is one assignment of the SET clause. index is only used by
// opAssignAt.
type setClause struct {
	op     setOp
	column string
	index  interface{}
	value  interface{}
}

func (c setClause) toSQL() (string, []interface{}, error) {
	valSQL, args, err := valueToSQL(c.value)
	if err != nil {
		return "", nil, err
	}
	switch c.op {
	case opAdd: // SET emails = emails + ?
		return fmt.Sprintf("%s = %s + %s", c.column, c.column, valSQL), args, nil
	case opRemove: // SET emails = emails - ?
		return fmt.Sprintf("%s = %s - %s", c.column, c.column, valSQL), args, nil
	case opPrepend: // SET emails = ? + emails
		return fmt.Sprintf("%s = %s + %s", c.column, valSQL, c.column), args, nil
	case opAssignAt: // SET emails[?] = ?
		idxSQL, idxArgs, err := valueToSQL(c.index)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s[%s] = %s", c.column, idxSQL, valSQL),
			append(idxArgs, args...), nil
	default:
		return fmt.Sprintf("%s = %s", c.column, valSQL), args, nil
	}
}

var (
	// ErrMalformedSetClause indicates that the update is missing a set clause
	ErrMalformedSetClause = errors.New("update statements must have at least one Set clause")

	// ErrMissingTable indicates that the update is missing a target table
	ErrMissingTable = errors.New("update statements must specify a table")
)

func (d *updateData) ToSQL() (sqlStr string, args []interface{}, err error) {
	if len(d.Table) == 0 {
		err = ErrMissingTable
		return
	}
	if len(d.SetClauses) == 0 {
		err = ErrMalformedSetClause
		return
	}
	sql := &bytes.Buffer{}

	sql.WriteString("UPDATE ")
	sql.WriteString(d.Table)

	if len(d.Usings) > 0 {
		sql.WriteString(" USING ")
		args, _ = d.Usings.AppendToSQL(sql, " AND ", args)
	}

	sql.WriteString(" SET ")
	setSqls := make([]string, len(d.SetClauses))
	for i, c := range d.SetClauses {
		s, a, cerr := c.toSQL()
		if cerr != nil {
			err = cerr
			return
		}
		setSqls[i] = s
		args = append(args, a...)
	}
	sql.WriteString(strings.Join(setSqls, ", "))

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

func (d updateData) GetResource() string {
	return d.Table
}

func (d updateData) GetWhereParts() []Sqlizer {
	return d.WhereParts
}

func (d updateData) GetColumns() []string {
	columns := make([]string, len(d.SetClauses))
	for i, c := range d.SetClauses {
		columns[i] = c.column
	}
	return columns
}

// Builder

// UpdateBuilder builds CQL UPDATE statements. Assignments render in the
// order they were added.
type UpdateBuilder builder.Builder

func init() {
	builder.Register(UpdateBuilder{}, updateData{})
}

// SQL methods

// ToSQL builds the update into a CQL string and bound args.
func (b UpdateBuilder) ToSQL() (string, []interface{}, error) {
	data := builder.GetStruct(b).(updateData)
	return data.ToSQL()
}

// StmtType returns type of the statement
func (b UpdateBuilder) StmtType() StmtType {
	return UpdateStmtType
}

// GetData returns the underlying struct as an interface
func (b UpdateBuilder) GetData() StatementAccessor {
	return builder.GetStruct(b).(updateData)
}

// Table sets the table to be updated.
func (b UpdateBuilder) Table(table string) UpdateBuilder {
	return builder.Set(b, "Table", table).(UpdateBuilder)
}

func (b UpdateBuilder) appendClause(c setClause) UpdateBuilder {
	return builder.Append(b, "SetClauses", c).(UpdateBuilder)
}

// Set adds "column = value" to the update.
func (b UpdateBuilder) Set(column string, value interface{}) UpdateBuilder {
	return b.appendClause(setClause{op: opAssign, column: column, value: value})
}

// Add adds "column = column + value". It appends to a list, adds to a set
// or map, or increments a counter.
func (b UpdateBuilder) Add(column string, value interface{}) UpdateBuilder {
	return b.appendClause(setClause{op: opAdd, column: column, value: value})
}

// Remove adds "column = column - value". It discards from a collection or
// decrements a counter.
func (b UpdateBuilder) Remove(column string, value interface{}) UpdateBuilder {
	return b.appendClause(setClause{op: opRemove, column: column, value: value})
}

// Prepend adds "column = value + column" to prepend to a list.
func (b UpdateBuilder) Prepend(column string, value interface{}) UpdateBuilder {
	return b.appendClause(setClause{op: opPrepend, column: column, value: value})
}

// SetAt adds "column[index] = value". The index is a list position or a
// map key.
func (b UpdateBuilder) SetAt(column string, index, value interface{}) UpdateBuilder {
	return b.appendClause(setClause{op: opAssignAt, column: column, index: index, value: value})
}

// Where adds WHERE expressions to the update.
//
// See SelectBuilder.Where for more information.
func (b UpdateBuilder) Where(pred interface{}, args ...interface{}) UpdateBuilder {
	return builder.Append(b, "WhereParts", newWherePart(pred, args...)).(UpdateBuilder)
}

// IfOnly represents a LWT
func (b UpdateBuilder) IfOnly(pred interface{}, rest ...interface{}) UpdateBuilder {
	return builder.Append(b, "IfOnlyParts", newWherePart(pred, rest...)).(UpdateBuilder)
}

// IfExists applies the update only if the row exists.
func (b UpdateBuilder) IfExists() UpdateBuilder {
	return builder.Set(b, "IfExists", true).(UpdateBuilder)
}

// IsCAS returns true is the update statement has a compare-and-set part
func (b UpdateBuilder) IsCAS() bool {
	data := builder.GetStruct(b).(updateData)
	return data.IfExists || len(data.IfOnlyParts) > 0
}

// Using adds a USING option (TTL or TIMESTAMP) to the update.
func (b UpdateBuilder) Using(sql string, args ...interface{}) UpdateBuilder {
	return builder.Append(b, "Usings", expression(sql, args...)).(UpdateBuilder)
}
