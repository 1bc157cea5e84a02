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

package statement

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/uber/cqlmapper/pkg/storage/metadata"
)

var selectAll = regexp.MustCompile(`^select\s+\*`)

// mentions reports whether query holds name as a whole word.
func mentions(query, name string) bool {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`).MatchString(query)
}

// ValidateTypedQuery checks that a raw SELECT can load entity: it must read
// from the entity table and, unless it selects *, it must read every key
// column. Table and columns match whole words only.
func ValidateTypedQuery(entity *metadata.EntityMeta, query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(normalized, "select ") {
		return errors.Wrapf(ErrInvalidQuery,
			"The typed query [%s] should be a SELECT statement", query)
	}
	from := regexp.MustCompile(`\sfrom\s+(\w+\.)?` + regexp.QuoteMeta(entity.TableName()) + `\b`)
	if !from.MatchString(normalized) {
		return errors.Wrapf(ErrInvalidQuery,
			"The typed query [%s] should contain the ' from %s' clause if type is '%s'",
			query, entity.TableName(), entity.ClassName())
	}
	if selectAll.MatchString(normalized) {
		return nil
	}

	idMeta := entity.IDMeta()
	for _, c := range idMeta.ColumnNames(false) {
		if mentions(normalized, c) {
			continue
		}
		if idMeta.IsEmbeddedID() {
			return errors.Wrapf(ErrInvalidQuery,
				"The typed query [%s] should contain the component column '%s' for embedded id type '%s'",
				query, c, idMeta.CompoundKey().ClassName())
		}
		return errors.Wrapf(ErrInvalidQuery,
			"The typed query [%s] should contain the id column '%s'", query, c)
	}
	return nil
}
