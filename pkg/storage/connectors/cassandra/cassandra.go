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

// Package cassandra executes mapper statements through a gocql session.
package cassandra

import (
	"context"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlmapper/pkg/storage"
	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/orm"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
	"github.com/uber/cqlmapper/pkg/storage/row"
)

const (
	// operation tags for metrics
	selectOp = "select"
	insert   = "insert"
	update   = "update"
	del      = "delete"
	ddl      = "ddl"
	schema   = "schema"
	unknown  = "unknown"

	// indexesQuery lists the secondary indexes of a keyspace.
	indexesQuery = "SELECT table_name, index_name, options FROM system_schema.indexes " +
		"WHERE keyspace_name = ?"
)

// casStatement is a statement carrying an IF condition.
type casStatement interface {
	IsCAS() bool
}

// pagedStatement is a select with paging options.
type pagedStatement interface {
	GetPageSize() int
	GetPagingState() []byte
}

// Connector executes statements on a single keyspace.
type Connector struct {
	// Session is the gocql session created for this connector
	Session *gocql.Session
	// scope is the storage scope for metrics
	scope tally.Scope
	// scope is the storage scope for success metrics
	executeSuccessScope tally.Scope
	// scope is the storage scope for failure metrics
	executeFailScope tally.Scope
	metrics          *storage.Metrics

	// Conf is the Cassandra connector config for this cluster
	Conf *Config
}

// NewConnector initializes a Cassandra Connector
func NewConnector(config *Config, scope tally.Scope) (*Connector, error) {
	session, err := createSession(config)
	if err != nil {
		return nil, err
	}
	return newConnector(session, config, scope), nil
}

func newConnector(session *gocql.Session, config *Config, scope tally.Scope) *Connector {
	// create a storeScope for the keyspace
	storeScope := scope.SubScope("cql").Tagged(
		map[string]string{"store": config.Keyspace})

	return &Connector{
		Session: session,
		scope:   storeScope,
		executeSuccessScope: storeScope.Tagged(
			map[string]string{"result": "success"}),
		executeFailScope: storeScope.Tagged(
			map[string]string{"result": "fail"}),
		metrics: storage.NewMetrics(scope.SubScope("storage")),
		Conf:    config,
	}
}

// ensure that implementation (Connector) satisfies the interface
var _ orm.Connector = (*Connector)(nil)

// Close closes the session.
func (c *Connector) Close() {
	c.Session.Close()
}

// getGocqlErrorTag gets a error tag for metrics based on gocql error
// We cannot just use err.Error() as a tag because it contains invalid
// characters like = : etc. which will be rejected by M3
func getGocqlErrorTag(err error) string {
	if yarpcerrors.IsAlreadyExists(err) {
		return "already_exists"
	}
	if yarpcerrors.IsNotFound(err) {
		return "not_found"
	}
	if yarpcerrors.IsFailedPrecondition(err) {
		return "not_applied"
	}
	switch errors.Cause(err).(type) {
	case *gocql.RequestErrReadFailure:
		return "read_failure"
	case *gocql.RequestErrWriteFailure:
		return "write_failure"
	case *gocql.RequestErrAlreadyExists:
		return "already_exists"
	case *gocql.RequestErrReadTimeout:
		return "read_timeout"
	case *gocql.RequestErrWriteTimeout:
		return "write_timeout"
	case *gocql.RequestErrUnavailable:
		return "unavailable"
	case *gocql.RequestErrFunctionFailure:
		return "function_failure"
	case *gocql.RequestErrUnprepared:
		return "unprepared"
	default:
		return "unknown"
	}
}

// operationTag returns the metrics operation of a statement.
func operationTag(stmt qb.Sqlizer) string {
	s, ok := stmt.(qb.Statement)
	if !ok {
		return unknown
	}
	switch s.StmtType() {
	case qb.SelectStmtType:
		return selectOp
	case qb.InsertStmtType:
		return insert
	case qb.UpdateStmtType:
		return update
	case qb.DeleteStmtType:
		return del
	case qb.CreateTableStmtType, qb.CreateIndexStmtType:
		return ddl
	}
	return unknown
}

// resourceTag returns the table a statement applies to.
func resourceTag(stmt qb.Sqlizer) string {
	if s, ok := stmt.(qb.Statement); ok {
		return s.GetData().GetResource()
	}
	return unknown
}

// ExecuteStatement runs a write statement. values bind the named markers
// in the order they appear. A conditional statement that is not applied
// returns AlreadyExists for inserts and FailedPrecondition otherwise.
func (c *Connector) ExecuteStatement(
	ctx context.Context,
	stmt qb.Sqlizer,
	values ...interface{},
) error {
	table, operation := resourceTag(stmt), operationTag(stmt)
	sql, args, err := qb.Bind(stmt, values...)
	if err != nil {
		return err
	}

	q := c.Session.Query(sql, args...).WithContext(ctx)
	if cas, ok := stmt.(casStatement); ok && cas.IsCAS() {
		applied, err := q.MapScanCAS(map[string]interface{}{})
		if err == nil && !applied {
			if operation == insert {
				err = yarpcerrors.AlreadyExistsErrorf("item already exists in %s", table)
			} else {
				err = yarpcerrors.FailedPreconditionErrorf("conditional %s on %s not applied", operation, table)
			}
		}
		if err != nil {
			c.fail(table, operation, err)
			c.metrics.StatementMetrics.ExecuteFail.Inc(1)
			return err
		}
	} else if err := q.Exec(); err != nil {
		c.fail(table, operation, err)
		c.metrics.StatementMetrics.ExecuteFail.Inc(1)
		return err
	}

	sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, operation, nil)
	c.metrics.StatementMetrics.Execute.Inc(1)
	return nil
}

// Query runs a select and returns every row of the fetched page.
func (c *Connector) Query(
	ctx context.Context,
	stmt qb.Sqlizer,
	values ...interface{},
) ([]row.Row, error) {
	table, operation := resourceTag(stmt), operationTag(stmt)
	sql, args, err := qb.Bind(stmt, values...)
	if err != nil {
		return nil, err
	}

	q := c.Session.Query(sql, args...).WithContext(ctx)
	if paged, ok := stmt.(pagedStatement); ok {
		if paged.GetPageSize() > 0 {
			q = q.PageSize(paged.GetPageSize())
		}
		if len(paged.GetPagingState()) > 0 {
			q = q.PageState(paged.GetPagingState())
		}
	}

	iter := q.Iter()
	var rows []row.Row
	for {
		m := make(map[string]interface{})
		if !iter.MapScan(m) {
			break
		}
		rows = append(rows, row.MapRow(m))
	}
	if err := iter.Close(); err != nil {
		c.fail(table, operation, err)
		c.metrics.StatementMetrics.QueryFail.Inc(1)
		return nil, errors.Wrap(err, "MapScan failed")
	}

	sendLatency(c.scope, table, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, table, operation, nil)
	c.metrics.StatementMetrics.Query.Inc(1)
	return rows, nil
}

// ExecuteDDL applies a schema statement.
func (c *Connector) ExecuteDDL(ctx context.Context, stmt string) error {
	if err := c.Session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		c.fail(schema, ddl, err)
		c.metrics.StatementMetrics.DDLFail.Inc(1)
		return errors.Wrapf(err, "failed to apply %q", stmt)
	}
	log.WithField("statement", stmt).Info("applied ddl")
	sendCounters(c.executeSuccessScope, schema, ddl, nil)
	c.metrics.StatementMetrics.DDL.Inc(1)
	return nil
}

// KeyspaceMetadata fetches the live schema of the configured keyspace,
// including secondary indexes.
func (c *Connector) KeyspaceMetadata(ctx context.Context) (cql.KeyspaceMetadata, error) {
	ks, err := c.Session.KeyspaceMetadata(c.Conf.Keyspace)
	if err != nil {
		c.fail(schema, selectOp, err)
		return nil, errors.Wrapf(err, "failed to fetch metadata of keyspace %s", c.Conf.Keyspace)
	}

	indexes := make(map[string]map[string]string)
	iter := c.Session.Query(indexesQuery, c.Conf.Keyspace).WithContext(ctx).Iter()
	var (
		table, index string
		options      map[string]string
	)
	for iter.Scan(&table, &index, &options) {
		if _, ok := indexes[table]; !ok {
			indexes[table] = make(map[string]string)
		}
		indexes[table][indexTarget(options["target"])] = index
		options = nil
	}
	if err := iter.Close(); err != nil {
		c.fail(schema, selectOp, err)
		return nil, errors.Wrapf(err, "failed to list indexes of keyspace %s", c.Conf.Keyspace)
	}
	return cql.FromGocqlKeyspace(ks, indexes), nil
}

// indexTarget returns the column of an index target such as "name",
// "\"Name\"" or "keys(prefs)".
func indexTarget(target string) string {
	if open := strings.Index(target, "("); open >= 0 && strings.HasSuffix(target, ")") {
		target = target[open+1 : len(target)-1]
	}
	return strings.Trim(target, "\"")
}

func (c *Connector) fail(table, operation string, err error) {
	sendCounters(c.executeFailScope, table, operation, err)
	c.metrics.ErrorMetrics.Inc(getGocqlErrorTag(err))
	log.WithError(err).
		WithFields(log.Fields{"table": table, "operation": operation}).
		Debug("statement failed")
}

// helper function to record call latency metric
func sendLatency(
	scope tally.Scope,
	table, operation string,
	d time.Duration,
) {
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
	})
	s.Timer("execute_latency").Record(d)
}

// helper function to record cql query success/failure metrics
func sendCounters(
	scope tally.Scope,
	table, operation string,
	err error,
) {
	errMsg := "none"
	if err != nil {
		errMsg = getGocqlErrorTag(err)
	}
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
		"error":     errMsg,
	})
	s.Counter("execute").Inc(1)
}
