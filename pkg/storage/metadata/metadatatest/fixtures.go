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

// Package metadatatest provides entity metadata fixtures shared by the
// storage package tests.
package metadatatest

import (
	"reflect"

	"github.com/gocql/gocql"

	"github.com/uber/cqlmapper/pkg/storage/codec"
	"github.com/uber/cqlmapper/pkg/storage/cql"
	"github.com/uber/cqlmapper/pkg/storage/metadata"
)

// Status is an enum stored as text.
type Status int32

// Status values.
const (
	StatusActive Status = iota
	StatusDeleted
)

// User is an entity with a simple id.
type User struct {
	ID      int64
	Name    string
	Age     int32
	Status  Status
	Tags    map[string]struct{}
	Emails  []string
	Prefs   map[string]int32
	Visits  *codec.Counter
	Friends []gocql.UUID
}

// EventKey is a compound key with a composite partition key and two
// clustering columns.
type EventKey struct {
	ID   int64
	Type string
	Date gocql.UUID
	Name string
}

// Event is an entity with a compound key and a static column.
type Event struct {
	Key    *EventKey
	Owner  string
	Labels []string
	Value  string
}

// StatsKey is the compound key of Stats.
type StatsKey struct {
	Page string
	Day  string
}

// Stats is a clustered counter entity.
type Stats struct {
	Key    *StatsKey
	Views  *codec.Counter
	Clicks *codec.Counter
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func native(v interface{}) codec.Codec {
	return codec.Native(reflect.TypeOf(v))
}

// UserMeta returns the metadata of User in table "users".
func UserMeta() *metadata.EntityMeta {
	const class = "User"
	id := must(metadata.NewProperty(class, "id", metadata.IDProperty).
		Codec(native(int64(0))).
		Accessor(metadata.Field(func(u *User) int64 { return u.ID }, func(u *User, v int64) { u.ID = v })).
		Build())
	name := must(metadata.NewProperty(class, "name", metadata.SimpleProperty).
		Codec(native("")).
		Indexed("").
		Accessor(metadata.Field(func(u *User) string { return u.Name }, func(u *User, v string) { u.Name = v })).
		Build())
	age := must(metadata.NewProperty(class, "age", metadata.SimpleProperty).
		Codec(native(int32(0))).
		ReadConsistency(gocql.One).
		Accessor(metadata.Field(func(u *User) int32 { return u.Age }, func(u *User, v int32) { u.Age = v })).
		Build())
	status := must(metadata.NewProperty(class, "status", metadata.SimpleProperty).
		Codec(codec.Enum(reflect.TypeOf(StatusActive), "ACTIVE", "DELETED")).
		Accessor(metadata.Field(func(u *User) Status { return u.Status }, func(u *User, v Status) { u.Status = v })).
		Build())
	tags := must(metadata.NewProperty(class, "tags", metadata.SetProperty).
		Codec(native("")).
		EmptyCollectionIfNull().
		Accessor(metadata.Field(
			func(u *User) map[string]struct{} { return u.Tags },
			func(u *User, v map[string]struct{}) { u.Tags = v })).
		Build())
	emails := must(metadata.NewProperty(class, "emails", metadata.ListProperty).
		Codec(native("")).
		Accessor(metadata.Field(func(u *User) []string { return u.Emails }, func(u *User, v []string) { u.Emails = v })).
		Build())
	prefs := must(metadata.NewProperty(class, "prefs", metadata.MapProperty).
		KeyCodec(native("")).
		Codec(native(int32(0))).
		Accessor(metadata.Field(
			func(u *User) map[string]int32 { return u.Prefs },
			func(u *User, v map[string]int32) { u.Prefs = v })).
		Build())
	visits := must(metadata.NewProperty(class, "visits", metadata.CounterProperty).
		Accessor(metadata.Field(
			func(u *User) *codec.Counter { return u.Visits },
			func(u *User, v *codec.Counter) { u.Visits = v })).
		Build())
	friends := must(metadata.NewProperty(class, "friends", metadata.ListProperty).
		Codec(native(gocql.UUID{})).
		TimeUUID().
		Accessor(metadata.Field(
			func(u *User) []gocql.UUID { return u.Friends },
			func(u *User, v []gocql.UUID) { u.Friends = v })).
		Build())

	return must(metadata.NewEntity(class, "Users").
		ID(id).
		Property(name, age, status, tags, emails, prefs, visits, friends).
		Comment("users of the system").
		WriteConsistency(gocql.Quorum).
		Build())
}

// EventKeyMeta returns the compound key of Event.
func EventKeyMeta() *metadata.CompoundKey {
	partition := metadata.NewPartitionComponents(
		metadata.Component{
			Name:     "id",
			Codec:    native(int64(0)),
			Accessor: metadata.Field(func(k *EventKey) int64 { return k.ID }, func(k *EventKey, v int64) { k.ID = v }),
		},
		metadata.Component{
			Name:     "type",
			Codec:    native(""),
			Accessor: metadata.Field(func(k *EventKey) string { return k.Type }, func(k *EventKey, v string) { k.Type = v }),
		},
	)
	clustering := metadata.NewClusteringComponents(
		metadata.Component{
			Name:     "date",
			Codec:    native(gocql.UUID{}),
			Accessor: metadata.Field(func(k *EventKey) gocql.UUID { return k.Date }, func(k *EventKey, v gocql.UUID) { k.Date = v }),
			Order:    cql.Desc,
			TimeUUID: true,
		},
		metadata.Component{
			Name:     "name",
			Codec:    native(""),
			Accessor: metadata.Field(func(k *EventKey) string { return k.Name }, func(k *EventKey, v string) { k.Name = v }),
		},
	)
	return must(metadata.NewCompoundKey("EventKey",
		func() interface{} { return &EventKey{} }, partition, clustering))
}

// EventMeta returns the metadata of Event in table "events".
func EventMeta() *metadata.EntityMeta {
	const class = "Event"
	id := must(metadata.NewProperty(class, "key", metadata.EmbeddedIDProperty).
		CompoundKey(EventKeyMeta()).
		Accessor(metadata.Field(func(e *Event) *EventKey { return e.Key }, func(e *Event, v *EventKey) { e.Key = v })).
		Build())
	owner := must(metadata.NewProperty(class, "owner", metadata.SimpleProperty).
		Codec(native("")).
		Static().
		Accessor(metadata.Field(func(e *Event) string { return e.Owner }, func(e *Event, v string) { e.Owner = v })).
		Build())
	labels := must(metadata.NewProperty(class, "labels", metadata.ListProperty).
		Codec(native("")).
		EmptyCollectionIfNull().
		Accessor(metadata.Field(func(e *Event) []string { return e.Labels }, func(e *Event, v []string) { e.Labels = v })).
		Build())
	value := must(metadata.NewProperty(class, "value", metadata.SimpleProperty).
		Codec(native("")).
		Accessor(metadata.Field(func(e *Event) string { return e.Value }, func(e *Event, v string) { e.Value = v })).
		Build())
	return must(metadata.NewEntity(class, "events").
		ID(id).
		Property(owner, labels, value).
		Build())
}

// StatsMeta returns the metadata of the clustered counter entity Stats.
func StatsMeta() *metadata.EntityMeta {
	const class = "Stats"
	key := must(metadata.NewCompoundKey("StatsKey",
		func() interface{} { return &StatsKey{} },
		metadata.NewPartitionComponents(metadata.Component{
			Name:     "page",
			Codec:    native(""),
			Accessor: metadata.Field(func(k *StatsKey) string { return k.Page }, func(k *StatsKey, v string) { k.Page = v }),
		}),
		metadata.NewClusteringComponents(metadata.Component{
			Name:     "day",
			Codec:    native(""),
			Accessor: metadata.Field(func(k *StatsKey) string { return k.Day }, func(k *StatsKey, v string) { k.Day = v }),
		}),
	))
	id := must(metadata.NewProperty(class, "key", metadata.EmbeddedIDProperty).
		CompoundKey(key).
		Accessor(metadata.Field(func(s *Stats) *StatsKey { return s.Key }, func(s *Stats, v *StatsKey) { s.Key = v })).
		Build())
	views := must(metadata.NewProperty(class, "views", metadata.CounterProperty).
		Accessor(metadata.Field(
			func(s *Stats) *codec.Counter { return s.Views },
			func(s *Stats, v *codec.Counter) { s.Views = v })).
		Build())
	clicks := must(metadata.NewProperty(class, "clicks", metadata.CounterProperty).
		Accessor(metadata.Field(
			func(s *Stats) *codec.Counter { return s.Clicks },
			func(s *Stats, v *codec.Counter) { s.Clicks = v })).
		Build())
	return must(metadata.NewEntity(class, "stats").
		ID(id).
		Property(views, clicks).
		ClusteredCounter().
		Build())
}
