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

package schema

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/multierr"

	"github.com/uber/cqlmapper/pkg/storage"
	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/statement"
)

// DDLExecutor applies one DDL statement.
type DDLExecutor interface {
	ExecuteDDL(ctx context.Context, stmt string) error
}

// TableState is the bootstrap outcome of one table.
type TableState int

// Table states.
const (
	// Failed means the table is missing or does not match its entity.
	Failed TableState = iota
	// Created means the table was missing and has been created.
	Created
	// Validated means the live table matches its entity.
	Validated
)

func (s TableState) String() string {
	switch s {
	case Failed:
		return "failed"
	case Created:
		return "created"
	case Validated:
		return "validated"
	}
	return fmt.Sprintf("TableState(%d)", int(s))
}

// Manager creates missing tables and validates existing ones.
type Manager struct {
	cfg       *Config
	executor  DDLExecutor
	creator   *TableCreator
	validator *TableValidator
	metrics   *storage.SchemaMetrics
}

// NewManager returns a schema Manager.
func NewManager(cfg *Config, executor DDLExecutor, scope tally.Scope) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Manager{
		cfg:       cfg,
		executor:  executor,
		creator:   NewTableCreator(),
		validator: NewTableValidator(cfg),
		metrics:   storage.NewMetrics(scope).SchemaMetrics,
	}
}

// Bootstrap brings every entity table, and the counter table when a
// regular entity declares counters, to a validated or created state.
// Failures of all tables are aggregated in the returned error.
func (m *Manager) Bootstrap(
	ctx context.Context,
	ks cql.KeyspaceMetadata,
	entities ...*metadata.EntityMeta,
) (map[string]TableState, error) {
	states := make(map[string]TableState, len(entities)+1)
	var errs error
	needCounterTable := false

	for _, entity := range entities {
		if entity.HasCounters() && !entity.IsClusteredCounter() {
			needCounterTable = true
		}
		state, err := m.bootstrapTable(ctx, ks, entity)
		states[entity.TableName()] = state
		errs = multierr.Append(errs, err)
	}

	if needCounterTable {
		state, err := m.bootstrapCounterTable(ctx, ks)
		states[statement.CounterTable] = state
		errs = multierr.Append(errs, err)
	}
	return states, errs
}

func (m *Manager) bootstrapTable(
	ctx context.Context,
	ks cql.KeyspaceMetadata,
	entity *metadata.EntityMeta,
) (TableState, error) {
	name := entity.TableName()
	table, ok := ks.Table(name)
	if !ok {
		if !m.cfg.ForceSchemaCreation {
			m.metrics.TablesMissing.Inc(1)
			err := errors.Wrapf(metadata.ErrSchemaMissing,
				"The required table '%s' does not exist for entity '%s'", name, entity.ClassName())
			log.WithError(err).WithField("table", name).Error("missing table")
			return Failed, err
		}
		script, err := m.creator.Script(entity)
		if err != nil {
			m.metrics.TablesCreateFail.Inc(1)
			return Failed, err
		}
		return m.apply(ctx, script)
	}

	tolerated, err := m.validator.Validate(entity, table)
	if err != nil {
		m.metrics.TablesValidationFail.Inc(1)
		log.WithError(err).
			WithField("table", name).
			WithField("entity", entity.ClassName()).
			Error("table validation failed")
		return Failed, err
	}
	if len(tolerated) > 0 {
		m.metrics.ColumnsTolerated.Inc(int64(len(tolerated)))
		log.WithField("table", name).
			WithField("columns", tolerated).
			Warn("missing columns tolerated, schema update enabled")
	}
	m.metrics.TablesValidated.Inc(1)
	log.WithField("table", name).Debug("table validated")
	return Validated, nil
}

func (m *Manager) bootstrapCounterTable(ctx context.Context, ks cql.KeyspaceMetadata) (TableState, error) {
	if _, ok := ks.Table(statement.CounterTable); !ok {
		if !m.cfg.ForceSchemaCreation {
			m.metrics.TablesMissing.Inc(1)
			err := errors.Wrapf(metadata.ErrSchemaMissing,
				"The required generic table '%s' does not exist", statement.CounterTable)
			log.WithError(err).Error("missing counter table")
			return Failed, err
		}
		return m.apply(ctx, m.creator.CounterTableScript())
	}
	if err := m.validator.ValidateCounterTable(ks); err != nil {
		m.metrics.TablesValidationFail.Inc(1)
		log.WithError(err).Error("counter table validation failed")
		return Failed, err
	}
	m.metrics.CounterTableValidated.Inc(1)
	log.WithField("table", statement.CounterTable).Debug("counter table validated")
	return Validated, nil
}

// apply runs the table statement before its indexes.
func (m *Manager) apply(ctx context.Context, script Script) (TableState, error) {
	for _, stmt := range script.Statements {
		if err := m.executor.ExecuteDDL(ctx, stmt); err != nil {
			m.metrics.TablesCreateFail.Inc(1)
			log.WithError(err).
				WithField("table", script.Table).
				WithField("statement", stmt).
				Error("failed to apply ddl")
			return Failed, errors.Wrapf(err, "failed to create table '%s'", script.Table)
		}
	}
	m.metrics.TablesCreated.Inc(1)
	log.WithField("table", script.Table).
		WithField("statements", len(script.Statements)).
		Info("table created")
	return Created, nil
}
