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

// Package querybuilder builds CQL statements with immutable builders.
package querybuilder

import (
	"github.com/lann/builder"
)

// StmtType is the type of a statement.
type StmtType int

// Statement types.
const (
	SelectStmtType StmtType = iota
	InsertStmtType
	UpdateStmtType
	DeleteStmtType
	CreateTableStmtType
	CreateIndexStmtType
)

// Sqlizer is anything that renders to a CQL string and bound args.
type Sqlizer interface {
	ToSQL() (string, []interface{}, error)
}

// Statement is a Sqlizer that knows its statement type.
type Statement interface {
	Sqlizer
	StmtType() StmtType
	GetData() StatementAccessor
}

// StatementAccessor exposes the parts of a built statement.
type StatementAccessor interface {
	GetResource() string
	GetWhereParts() []Sqlizer
	GetColumns() []string
}

// StatementBuilderType is the type of StatementBuilder.
type StatementBuilderType builder.Builder

// Select returns a SelectBuilder for this StatementBuilderType.
func (b StatementBuilderType) Select(columns ...string) SelectBuilder {
	return SelectBuilder(b).Columns(columns...)
}

// Insert returns an InsertBuilder for this StatementBuilderType.
func (b StatementBuilderType) Insert(into string) InsertBuilder {
	return InsertBuilder(b).Into(into)
}

// Update returns an UpdateBuilder for this StatementBuilderType.
func (b StatementBuilderType) Update(table string) UpdateBuilder {
	return UpdateBuilder(b).Table(table)
}

// Delete returns a DeleteBuilder for this StatementBuilderType.
func (b StatementBuilderType) Delete(from string) DeleteBuilder {
	return DeleteBuilder(b).From(from)
}

// StatementBuilder is a parent builder for other builders.
var StatementBuilder = StatementBuilderType(builder.EmptyBuilder)

// Select returns a new SelectBuilder, optionally setting some result columns.
func Select(columns ...string) SelectBuilder {
	return StatementBuilder.Select(columns...)
}

// Insert returns a new InsertBuilder with the given table name.
func Insert(into string) InsertBuilder {
	return StatementBuilder.Insert(into)
}

// Update returns a new UpdateBuilder with the given table name.
func Update(table string) UpdateBuilder {
	return StatementBuilder.Update(table)
}

// Delete returns a new DeleteBuilder with the given table name.
func Delete(from string) DeleteBuilder {
	return StatementBuilder.Delete(from)
}
