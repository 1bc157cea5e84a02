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

package storage

import (
	"github.com/uber-go/tally/v4"
)

// SchemaMetrics tracks the outcome of schema bootstrap per table.
type SchemaMetrics struct {
	TablesCreated         tally.Counter
	TablesCreateFail      tally.Counter
	TablesValidated       tally.Counter
	TablesValidationFail  tally.Counter
	TablesMissing         tally.Counter
	ColumnsTolerated      tally.Counter
	CounterTableValidated tally.Counter
}

// StatementMetrics tracks statements sent through the connector.
type StatementMetrics struct {
	Execute     tally.Counter
	ExecuteFail tally.Counter
	Query       tally.Counter
	QueryFail   tally.Counter
	DDL         tally.Counter
	DDLFail     tally.Counter
}

// Metrics is a struct for tracking all the storage related counters.
type Metrics struct {
	SchemaMetrics    *SchemaMetrics
	StatementMetrics *StatementMetrics
	ErrorMetrics     *ErrorMetrics
}

// ErrorMetrics tracks errors by their cassandra error tag.
type ErrorMetrics struct {
	scope tally.Scope
}

// Inc increments the counter of the given error tag.
func (m *ErrorMetrics) Inc(tag string) {
	m.scope.Tagged(map[string]string{"error": tag}).Counter("count").Inc(1)
}

// NewMetrics returns a new Metrics struct, with all metrics initialized and
// rooted at the given tally.Scope.
func NewMetrics(scope tally.Scope) *Metrics {
	schemaScope := scope.SubScope("schema")
	schemaSuccessScope := schemaScope.Tagged(map[string]string{"result": "success"})
	schemaFailScope := schemaScope.Tagged(map[string]string{"result": "fail"})

	statementScope := scope.SubScope("statement")
	statementSuccessScope := statementScope.Tagged(map[string]string{"result": "success"})
	statementFailScope := statementScope.Tagged(map[string]string{"result": "fail"})

	storageErrorScope := scope.SubScope("storage_error")

	schemaMetrics := &SchemaMetrics{
		TablesCreated:         schemaSuccessScope.Counter("tables_created"),
		TablesCreateFail:      schemaFailScope.Counter("tables_created"),
		TablesValidated:       schemaSuccessScope.Counter("tables_validated"),
		TablesValidationFail:  schemaFailScope.Counter("tables_validated"),
		TablesMissing:         schemaFailScope.Counter("tables_missing"),
		ColumnsTolerated:      schemaScope.Counter("columns_tolerated"),
		CounterTableValidated: schemaSuccessScope.Counter("counter_table_validated"),
	}

	statementMetrics := &StatementMetrics{
		Execute:     statementSuccessScope.Counter("execute"),
		ExecuteFail: statementFailScope.Counter("execute"),
		Query:       statementSuccessScope.Counter("query"),
		QueryFail:   statementFailScope.Counter("query"),
		DDL:         statementSuccessScope.Counter("ddl"),
		DDLFail:     statementFailScope.Counter("ddl"),
	}

	return &Metrics{
		SchemaMetrics:    schemaMetrics,
		StatementMetrics: statementMetrics,
		ErrorMetrics:     &ErrorMetrics{scope: storageErrorScope},
	}
}
