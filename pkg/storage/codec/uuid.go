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

package codec

import (
	"reflect"

	"github.com/gocql/gocql"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
)

var (
	pborUUIDType  = reflect.TypeOf(uuid.UUID(nil))
	gocqlUUIDType = reflect.TypeOf(gocql.UUID{})
)

type pborUUIDCodec struct{}

// PborUUID returns a codec binding a pborman uuid.UUID as a cql uuid.
func PborUUID() Codec {
	return pborUUIDCodec{}
}

func (pborUUIDCodec) SourceType() reflect.Type { return pborUUIDType }
func (pborUUIDCodec) TargetType() reflect.Type { return gocqlUUIDType }

func (pborUUIDCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	u, ok := value.(uuid.UUID)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue, "expected uuid.UUID, got %T", value)
	}
	if u == nil {
		return nil, nil
	}
	id, err := gocql.UUIDFromBytes(u)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "invalid uuid %q: %v", u.String(), err)
	}
	return id, nil
}

func (pborUUIDCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	id, ok := wire.(gocql.UUID)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue, "expected gocql.UUID, got %T", wire)
	}
	return uuid.UUID(id.Bytes()), nil
}
