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

package cassandra

import (
	"time"
)

// Config is the Cassandra connector config for one keyspace.
type Config struct {
	ContactPoints      []string      `yaml:"contact_points" validate:"nonzero"`
	Port               int           `yaml:"port"`
	Keyspace           string        `yaml:"keyspace" validate:"nonzero"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Consistency        string        `yaml:"consistency"`
	Timeout            time.Duration `yaml:"timeout"`
	ConnectionsPerHost int           `yaml:"connections_per_host"`
	ProtoVersion       int           `yaml:"proto_version"`
	SocketKeepalive    time.Duration `yaml:"socket_keepalive"`
	PageSize           int           `yaml:"page_size"`
	DataCenter         string        `yaml:"data_center"`
	// HostPolicy is either RoundRobinHostPolicy or TokenAwareHostPolicy.
	HostPolicy string `yaml:"host_policy"`
	CQLVersion string `yaml:"cql_version"`
	RetryCount int    `yaml:"retry_count"`
}
