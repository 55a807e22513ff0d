// Copyright 2026 The Brewer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

// Record is an immutable row: a globally unique id plus an attribute
// map. Records are never mutated after the store loads them (C1
// invariant); block membership is owned by the block index, not here,
// so that the record store stays a pure read-only table.
type Record struct {
	ID    string
	Attrs map[string]Value
}

// Get returns the value of attr, or the null value if attr is unknown
// on this record (distinct from a present-but-null attribute, though
// both stringify to the same thing for filtering purposes).
func (r *Record) Get(attr string) Value {
	if r == nil {
		return NullValue()
	}
	v, ok := r.Attrs[attr]
	if !ok {
		return NullValue()
	}
	return v
}
