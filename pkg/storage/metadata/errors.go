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

package metadata

import (
	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/codec"
)

var (
	// ErrComponentCount indicates too few or too many compound key values.
	ErrComponentCount = errors.New("invalid compound key component count")

	// ErrComponentNull indicates a null compound key value.
	ErrComponentNull = errors.New("null compound key component")

	// ErrComponentType indicates a compound key value of the wrong type.
	ErrComponentType = errors.New("invalid compound key component type")

	// ErrComponentSizeMismatch indicates a wire component list whose length
	// differs from the compound key arity.
	ErrComponentSizeMismatch = errors.New("compound key component size mismatch")

	// ErrUnsupportedConversion indicates an encode or decode dispatched to a
	// property of an incompatible kind.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrRowAccess indicates a failure reading a column from a row.
	ErrRowAccess = errors.New("row access error")

	// ErrSchemaMissing indicates a missing table or column.
	ErrSchemaMissing = errors.New("schema missing")

	// ErrSchemaMismatch indicates a live schema that disagrees with metadata.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEncoding indicates a generic (JSON) marshal failure.
	ErrEncoding = codec.ErrEncoding

	// ErrInvalidMetadata indicates an inconsistent metadata description.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrInvalidEntity indicates an entity value of an unexpected type.
	ErrInvalidEntity = errors.New("invalid entity")
)

// IsSchemaError returns true if err was caused by a missing or mismatched
// schema element.
func IsSchemaError(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrSchemaMissing || cause == ErrSchemaMismatch
}

// IsComponentError returns true if err was caused by invalid compound key
// values.
func IsComponentError(err error) bool {
	switch errors.Cause(err) {
	case ErrComponentCount, ErrComponentNull, ErrComponentType, ErrComponentSizeMismatch:
		return true
	}
	return false
}
