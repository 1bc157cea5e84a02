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

// Config holds the schema bootstrap flags.
type Config struct {
	// ForceSchemaCreation creates missing tables instead of failing.
	ForceSchemaCreation bool `yaml:"force_schema_creation"`
	// SchemaUpdateEnabled tolerates missing columns for every entity.
	SchemaUpdateEnabled bool `yaml:"schema_update_enabled"`
	// RelaxIndexValidation skips the secondary index cross-check.
	RelaxIndexValidation bool `yaml:"relax_index_validation"`
}
