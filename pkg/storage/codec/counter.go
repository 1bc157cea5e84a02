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
)

// Counter is the in-memory value of a counter column: the value read from
// Cassandra plus the pending delta to apply on the next write.
type Counter struct {
	Value int64
	Delta int64
}

// NewCounter returns a counter with an initial value and no pending delta.
func NewCounter(value int64) *Counter {
	return &Counter{Value: value}
}

// Incr adds n to the pending delta.
func (c *Counter) Incr(n int64) {
	c.Delta += n
}

// Decr subtracts n from the pending delta.
func (c *Counter) Decr(n int64) {
	c.Delta -= n
}

// Get returns the value including the pending delta.
func (c *Counter) Get() int64 {
	return c.Value + c.Delta
}

var counterType = reflect.TypeOf((*Counter)(nil))

type counterCodec struct{}

// CounterCodec encodes a *Counter as its pending delta and decodes a wire
// value as a counter snapshot with no pending delta.
func CounterCodec() Codec {
	return counterCodec{}
}

func (counterCodec) SourceType() reflect.Type { return counterType }
func (counterCodec) TargetType() reflect.Type { return int64Type }

func (counterCodec) Encode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	c, ok := value.(*Counter)
	if !ok {
		return nil, invalid(counterType, value)
	}
	if c == nil {
		return nil, nil
	}
	return c.Delta, nil
}

func (counterCodec) Decode(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	v, ok := wire.(int64)
	if !ok {
		return nil, invalid(int64Type, wire)
	}
	return NewCounter(v), nil
}
