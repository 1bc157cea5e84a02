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
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

type expr struct {
	sql  string
	args []interface{}
}

// Expr builds a value expression from a CQL fragment and arguments.
//
// Ex:
//     Expr("ttl(?)", 30)
func Expr(sql string, args ...interface{}) Sqlizer {
	return expression(sql, args...)
}

func expression(sql string, args ...interface{}) expr {
	return expr{sql: sql, args: args}
}

func (e expr) ToSQL() (sql string, args []interface{}, err error) {
	return e.sql, e.args, nil
}

// BindMarker returns the named bind marker ":name". Named markers carry no
// args; their values are bound when the prepared statement is executed.
func BindMarker(name string) Sqlizer {
	return expr{sql: ":" + name}
}

// Null is the CQL null literal.
var Null Sqlizer = expr{sql: "null"}

type exprs []expr

func (es exprs) AppendToSQL(w io.Writer, sep string, args []interface{}) ([]interface{}, error) {
	for i, e := range es {
		if i > 0 {
			if _, err := io.WriteString(w, sep); err != nil {
				return nil, err
			}
		}
		if _, err := io.WriteString(w, e.sql); err != nil {
			return nil, err
		}
		args = append(args, e.args...)
	}
	return args, nil
}

// valueToSQL renders a single value as either the expression it wraps or a
// ? placeholder.
func valueToSQL(val interface{}) (string, []interface{}, error) {
	if s, ok := val.(Sqlizer); ok {
		return s.ToSQL()
	}
	return "?", []interface{}{val}, nil
}

// isListType reports whether val expands into an IN list. []byte is a blob
// and is bound as a single value.
func isListType(val interface{}) bool {
	if val == nil {
		return false
	}
	if _, ok := val.([]byte); ok {
		return false
	}
	v := reflect.ValueOf(val)
	return v.Kind() == reflect.Array || v.Kind() == reflect.Slice
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Eq is syntactic sugar for use with Where methods.
// Ex:
//     .Where(Eq{"id": 1})
//     .Where(Eq{"id": BindMarker("id")})
// Slice values render as IN lists.
type Eq map[string]interface{}

func (eq Eq) toSQL(op, inOp string) (sql string, args []interface{}, err error) {
	var exprs []string
	for _, key := range sortedKeys(eq) {
		val := eq[key]
		if val == nil {
			err = fmt.Errorf("cannot compare column %s to null", key)
			return
		}

		if isListType(val) {
			valVal := reflect.ValueOf(val)
			if inOp == "" {
				err = fmt.Errorf("column %s cannot be compared to a list", key)
				return
			}
			if valVal.Len() == 0 {
				err = fmt.Errorf("IN list for column %s is empty", key)
				return
			}
			placeholders := make([]string, valVal.Len())
			for i := 0; i < valVal.Len(); i++ {
				placeholders[i] = "?"
				args = append(args, valVal.Index(i).Interface())
			}
			exprs = append(exprs,
				fmt.Sprintf("%s %s (%s)", key, inOp, strings.Join(placeholders, ",")))
			continue
		}

		vsql, vargs, verr := valueToSQL(val)
		if verr != nil {
			err = verr
			return
		}
		exprs = append(exprs, fmt.Sprintf("%s %s %s", key, op, vsql))
		args = append(args, vargs...)
	}
	sql = strings.Join(exprs, " AND ")
	return
}

// ToSQL builds the query into a CQL string and bound args.
func (eq Eq) ToSQL() (sql string, args []interface{}, err error) {
	return eq.toSQL("=", "IN")
}

// Lt is syntactic sugar for use with Where methods.
// Ex:
//     .Where(Lt{"date": d})
type Lt map[string]interface{}

// ToSQL builds the query into a CQL string and bound args.
func (lt Lt) ToSQL() (string, []interface{}, error) {
	return Eq(lt).toSQL("<", "")
}

// LtOrEq is syntactic sugar for use with Where methods.
type LtOrEq map[string]interface{}

// ToSQL builds the query into a CQL string and bound args.
func (lte LtOrEq) ToSQL() (string, []interface{}, error) {
	return Eq(lte).toSQL("<=", "")
}

// Gt is syntactic sugar for use with Where methods.
type Gt map[string]interface{}

// ToSQL builds the query into a CQL string and bound args.
func (gt Gt) ToSQL() (string, []interface{}, error) {
	return Eq(gt).toSQL(">", "")
}

// GtOrEq is syntactic sugar for use with Where methods.
type GtOrEq map[string]interface{}

// ToSQL builds the query into a CQL string and bound args.
func (gte GtOrEq) ToSQL() (string, []interface{}, error) {
	return Eq(gte).toSQL(">=", "")
}

// In renders "column IN (...)" over the given values, which may be bind
// markers.
func In(column string, values ...interface{}) Sqlizer {
	return inExpr{column: column, values: values}
}

type inExpr struct {
	column string
	values []interface{}
}

func (in inExpr) ToSQL() (string, []interface{}, error) {
	if len(in.values) == 0 {
		return "", nil, fmt.Errorf("IN list for column %s is empty", in.column)
	}
	var args []interface{}
	parts := make([]string, len(in.values))
	for i, v := range in.values {
		s, a, err := valueToSQL(v)
		if err != nil {
			return "", nil, err
		}
		parts[i] = s
		args = append(args, a...)
	}
	return fmt.Sprintf("%s IN (%s)", in.column, strings.Join(parts, ",")), args, nil
}

// And joins conjuncts with AND.
type And []Sqlizer

// ToSQL builds the query into a CQL string and bound args.
func (a And) ToSQL() (string, []interface{}, error) {
	if len(a) == 0 {
		return "", nil, nil
	}
	sql := &bytes.Buffer{}
	args, err := appendToSQL(a, sql, " AND ", nil)
	if err != nil {
		return "", nil, err
	}
	return sql.String(), args, nil
}
