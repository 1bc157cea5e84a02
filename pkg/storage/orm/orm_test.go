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

package orm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata/metadatatest"
	"github.com/uber/cqlmapper/pkg/storage/orm"
	"github.com/uber/cqlmapper/pkg/storage/orm/mocks"
	"github.com/uber/cqlmapper/pkg/storage/schema"
)

type ORMTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	conn     *mocks.MockConnector
	registry *orm.Registry
}

func TestORMTestSuite(t *testing.T) {
	suite.Run(t, new(ORMTestSuite))
}

func (suite *ORMTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.conn = mocks.NewMockConnector(suite.ctrl)
	suite.registry = orm.NewRegistry()
}

func (suite *ORMTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestRegister tests registration and lookups
func (suite *ORMTestSuite) TestRegister() {
	users := metadatatest.UserMeta()
	events := metadatatest.EventMeta()
	suite.NoError(suite.registry.Register(users, &metadatatest.User{}))
	suite.NoError(suite.registry.Register(events, metadatatest.Event{}))

	meta, err := suite.registry.Get(&metadatatest.User{})
	suite.NoError(err)
	suite.Equal(users, meta)

	meta, err = suite.registry.Get(&metadatatest.Event{})
	suite.NoError(err)
	suite.Equal(events, meta)

	meta, err = suite.registry.GetByTable("EVENTS")
	suite.NoError(err)
	suite.Equal(events, meta)

	suite.Equal(
		[]string{"User", "Event"},
		[]string{suite.registry.Entities()[0].ClassName(), suite.registry.Entities()[1].ClassName()})
}

// TestRegisterDuplicates tests that a table or type is registered once
func (suite *ORMTestSuite) TestRegisterDuplicates() {
	suite.NoError(suite.registry.Register(metadatatest.UserMeta(), &metadatatest.User{}))

	err := suite.registry.Register(metadatatest.UserMeta(), nil)
	suite.True(yarpcerrors.IsAlreadyExists(err))

	err = suite.registry.Register(metadatatest.EventMeta(), &metadatatest.User{})
	suite.True(yarpcerrors.IsAlreadyExists(err))
	suite.Len(suite.registry.Entities(), 1)
}

// TestNotFound tests lookups of unknown entities
func (suite *ORMTestSuite) TestNotFound() {
	_, err := suite.registry.Get(&metadatatest.Stats{})
	suite.True(yarpcerrors.IsNotFound(err))

	_, err = suite.registry.GetByTable("stats")
	suite.True(yarpcerrors.IsNotFound(err))
}

// TestSyncSchema tests that missing tables are created through the connector
func (suite *ORMTestSuite) TestSyncSchema() {
	suite.NoError(suite.registry.Register(metadatatest.EventMeta(), &metadatatest.Event{}))

	suite.conn.EXPECT().KeyspaceMetadata(gomock.Any()).
		Return(cql.NewKeyspaceSnapshot("ks"), nil)
	suite.conn.EXPECT().ExecuteDDL(gomock.Any(), gomock.Any()).Return(nil)

	states, err := orm.SyncSchema(context.Background(), suite.conn, suite.registry,
		&schema.Config{ForceSchemaCreation: true}, tally.NoopScope)
	suite.NoError(err)
	suite.Equal(map[string]schema.TableState{"events": schema.Created}, states)
}

// TestSyncSchemaFailures tests metadata and validation failures
func (suite *ORMTestSuite) TestSyncSchemaFailures() {
	suite.NoError(suite.registry.Register(metadatatest.EventMeta(), &metadatatest.Event{}))

	suite.conn.EXPECT().KeyspaceMetadata(gomock.Any()).
		Return(nil, errors.New("no host available"))
	_, err := orm.SyncSchema(context.Background(), suite.conn, suite.registry, nil, tally.NoopScope)
	suite.Error(err)

	suite.conn.EXPECT().KeyspaceMetadata(gomock.Any()).
		Return(cql.NewKeyspaceSnapshot("ks"), nil)
	states, err := orm.SyncSchema(context.Background(), suite.conn, suite.registry, nil, tally.NoopScope)
	suite.Error(err)
	suite.Equal(schema.Failed, states["events"])
}
