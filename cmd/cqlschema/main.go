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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/uber/cqlmapper/pkg/storage/config"
	"github.com/uber/cqlmapper/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
	"github.com/uber/cqlmapper/pkg/storage/orm"
	"github.com/uber/cqlmapper/pkg/storage/schema"
)

var (
	version string
	app     = kingpin.New("cqlschema", "Tool to render and check the tables of mapped entities")

	debug = app.Flag(
		"debug", "enable debug logging").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	entitiesPath = app.Flag(
		"entities",
		"YAML file describing the entities").
		Short('e').
		Required().
		ExistingFile()

	// Top level commands
	ddlCmd = app.Command("ddl", "Print the CREATE TABLE and CREATE INDEX statements of the entities")

	validateCmd = app.Command("validate", "Check the live tables against the entities, creating missing ones if configured")

	configFiles = validateCmd.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	cassandraHosts = validateCmd.Flag(
		"cassandra-hosts", "Cassandra hosts").
		Envar("CASSANDRA_HOSTS").
		Strings()

	keyspace = validateCmd.Flag(
		"keyspace", "Cassandra keyspace").
		Default("").
		Envar("CASSANDRA_KEYSPACE").
		String()

	forceCreate = validateCmd.Flag(
		"force-create", "create missing tables").
		Default("false").
		Bool()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stderr)

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	log.SetLevel(initialLevel)

	entities, err := loadEntities(*entitiesPath)
	if err != nil {
		log.WithError(err).Fatal("Cannot load entities")
	}

	switch cmd {
	case ddlCmd.FullCommand():
		if err := printDDL(os.Stdout, entities); err != nil {
			log.WithError(err).Fatal("Cannot render schema")
		}
	case validateCmd.FullCommand():
		if err := validate(entities); err != nil {
			log.WithError(err).Fatal("Schema validation failed")
		}
	}
}

// printDDL writes one statement per line, tables before their indexes.
func printDDL(w io.Writer, entities []*metadata.EntityMeta) error {
	creator := schema.NewTableCreator()
	needCounterTable := false
	for _, entity := range entities {
		script, err := creator.Script(entity)
		if err != nil {
			return err
		}
		for _, stmt := range script.Statements {
			fmt.Fprintf(w, "%s;\n", stmt)
		}
		if entity.HasCounters() && !entity.IsClusteredCounter() {
			needCounterTable = true
		}
	}
	if needCounterTable {
		for _, stmt := range creator.CounterTableScript().Statements {
			fmt.Fprintf(w, "%s;\n", stmt)
		}
	}
	return nil
}

func validate(entities []*metadata.EntityMeta) error {
	cfg, err := config.Parse(*configFiles...)
	if err != nil {
		return err
	}
	if *cassandraHosts != nil && len(*cassandraHosts) > 0 {
		cfg.Cassandra.ContactPoints = *cassandraHosts
	}
	if *keyspace != "" {
		cfg.Cassandra.Keyspace = *keyspace
	}
	if *forceCreate {
		cfg.Schema.ForceSchemaCreation = true
	}
	log.WithField("config", cfg.Schema).Debug("Loaded cqlschema config")

	registry := orm.NewRegistry()
	for _, entity := range entities {
		if err := registry.Register(entity, nil); err != nil {
			return err
		}
	}

	conn, err := cassandra.NewConnector(&cfg.Cassandra, tally.NoopScope)
	if err != nil {
		return err
	}
	defer conn.Close()

	states, err := orm.SyncSchema(context.Background(), conn, registry, &cfg.Schema, tally.NoopScope)
	printStates(os.Stdout, states)
	return err
}

func printStates(w io.Writer, states map[string]schema.TableState) {
	tables := make([]string, 0, len(states))
	for table := range states {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(w, "%s\t%s\n", table, states[table])
	}
}
