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

package orm

import (
	"context"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	qb "github.com/uber/cqlmapper/pkg/storage/querybuilder"
	"github.com/uber/cqlmapper/pkg/storage/row"
)

//go:generate mockgen -destination=mocks/mock_connector.go -package=mocks github.com/uber/cqlmapper/pkg/storage/orm Connector

// Connector is the interface that must be implemented for a backend service
type Connector interface {
	// ExecuteStatement runs a write statement. values bind the named
	// markers of the statement in order.
	ExecuteStatement(ctx context.Context, stmt qb.Sqlizer, values ...interface{}) error

	// Query runs a select statement and returns the fetched rows.
	Query(ctx context.Context, stmt qb.Sqlizer, values ...interface{}) ([]row.Row, error)

	// ExecuteDDL applies a schema statement.
	ExecuteDDL(ctx context.Context, stmt string) error

	// KeyspaceMetadata returns the live schema of the keyspace.
	KeyspaceMetadata(ctx context.Context) (cql.KeyspaceMetadata, error)
}
