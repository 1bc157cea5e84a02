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


package querybuilder

import (
	"fmt"
)

// marker is a placeholder found in a rendered statement.
type marker struct {
	// named is true for ":name" markers and false for "?".
	named bool
	name  string
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanMarkers returns the placeholders of sql in the order they appear.
// Quoted string literals and quoted identifiers are skipped.
func scanMarkers(sql string) []marker {
	var markers []marker
	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; {
		case c == '\'' || c == '"':
			// '' and "" escape the quote inside a quoted section
			for i++; i < len(sql); i++ {
				if sql[i] != c {
					continue
				}
				if i+1 < len(sql) && sql[i+1] == c {
					i++
					continue
				}
				break
			}
		case c == '?':
			markers = append(markers, marker{})
		case c == ':' && i+1 < len(sql) && isIdentStart(sql[i+1]) &&
			(i == 0 || !isIdentChar(sql[i-1])):
			j := i + 1
			for j < len(sql) && isIdentChar(sql[j]) {
				j++
			}
			markers = append(markers, marker{named: true, name: sql[i+1 : j]})
			i = j - 1
		}
	}
	return markers
}

// Bind renders stmt and returns its args in bind order. Args produced by
// the builder fill the "?" placeholders and values fill the named markers,
// each in the order the placeholders appear in the statement.
func Bind(stmt Sqlizer, values ...interface{}) (string, []interface{}, error) {
	sql, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, err
	}

	markers := scanMarkers(sql)
	bound := make([]interface{}, 0, len(markers))
	nextArg, nextValue := 0, 0
	for _, m := range markers {
		if m.named {
			if nextValue >= len(values) {
				return "", nil, fmt.Errorf("no value bound to marker :%s", m.name)
			}
			bound = append(bound, values[nextValue])
			nextValue++
			continue
		}
		if nextArg >= len(args) {
			return "", nil, fmt.Errorf("statement has more placeholders than args: %s", sql)
		}
		bound = append(bound, args[nextArg])
		nextArg++
	}
	if nextArg != len(args) {
		return "", nil, fmt.Errorf("statement has %d args for %d placeholders: %s",
			len(args), nextArg, sql)
	}
	if nextValue != len(values) {
		return "", nil, fmt.Errorf("%d values bound to %d named markers: %s",
			len(values), nextValue, sql)
	}
	return sql, bound, nil
}
