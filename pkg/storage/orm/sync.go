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

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/uber/cqlmapper/pkg/storage/schema"
)

// SyncSchema fetches the live keyspace through the connector and bootstraps
// the tables of every registered entity.
func SyncSchema(
	ctx context.Context,
	conn Connector,
	registry *Registry,
	cfg *schema.Config,
	scope tally.Scope,
) (map[string]schema.TableState, error) {
	ks, err := conn.KeyspaceMetadata(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch keyspace metadata")
	}

	entities := registry.Entities()
	states, err := schema.NewManager(cfg, conn, scope).Bootstrap(ctx, ks, entities...)
	if err != nil {
		return states, err
	}
	log.WithFields(log.Fields{
		"keyspace": ks.Name(),
		"entities": len(entities),
	}).Info("schema in sync")
	return states, nil
}
