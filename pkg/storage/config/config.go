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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"

	"github.com/uber/cqlmapper/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlmapper/pkg/storage/schema"
)

// Config contains the connector and schema bootstrap config values.
type Config struct {
	Cassandra cassandra.Config `yaml:"cassandra"`
	Schema    schema.Config    `yaml:"schema"`
}

// ValidationError is the returned when a configuration fails to pass validation
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

// Error returns the error string from a ValidationError
func (e ValidationError) Error() string {
	var w bytes.Buffer

	fields := make([]string, 0, len(e.errorMap))
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "   %s: %v\n", f, e.errorMap[f])
	}
	return w.String()
}

// Parse loads the given configFiles in order, merging later files over
// earlier ones, and validates the result.
func Parse(configFiles ...string) (*Config, error) {
	if len(configFiles) == 0 {
		return nil, errors.New("no files to load")
	}
	config := &Config{}
	for _, fname := range configFiles {
		data, err := ioutil.ReadFile(fname)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	// Validate on the merged config at the end.
	if err := validator.Validate(config); err != nil {
		if errorMap, ok := err.(validator.ErrorMap); ok {
			return nil, ValidationError{errorMap: errorMap}
		}
		return nil, err
	}
	return config, nil
}
