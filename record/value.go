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

// Package record implements the read-only record store (C1): an
// in-memory typed table of immutable records keyed by record id.
package record

import (
	"fmt"
	"math"
)

// Value is an option-typed attribute value. A text attribute and a
// numeric attribute are both represented here. The text sentinel "NaN"
// is turned into Null at load time, so the engine never branches on that
// string; a numeric NaN stays a present numeric value, which callers
// detect with IsNaN alongside Null.
type Value struct {
	Null    bool
	Numeric bool
	Text    string
	Num     float64
}

// NullValue returns the absent value for either kind.
func NullValue() Value {
	return Value{Null: true}
}

// TextValue wraps a non-null string attribute.
func TextValue(s string) Value {
	return Value{Text: s}
}

// NumericValue wraps a non-null numeric attribute. NaN is a legal, non-null
// numeric value per the data model (numeric attributes may be
// non-finite); it is NOT the same thing as Null.
func NumericValue(f float64) Value {
	return Value{Numeric: true, Num: f}
}

// IsNaN reports whether v is a present-but-not-a-number numeric value.
func (v Value) IsNaN() bool {
	return v.Numeric && math.IsNaN(v.Num)
}

// String renders v the way the engine stringifies attributes for
// substring (LIKE) matching: null never matches a LIKE condition.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	if v.Numeric {
		if math.IsNaN(v.Num) {
			return "NaN"
		}
		return fmt.Sprintf("%v", v.Num)
	}
	return v.Text
}

// Less orders two values with NaN/null sorting last, matching the data
// model's numeric-column semantics (NaN sorts last) generalized to
// nulls of either kind.
func Less(a, b Value, asc bool) bool {
	aBad := a.Null || a.IsNaN()
	bBad := b.Null || b.IsNaN()
	if aBad || bBad {
		if aBad == bBad {
			return false
		}
		// bad values sort last regardless of direction
		return bBad
	}
	if a.Numeric {
		if asc {
			return a.Num < b.Num
		}
		return a.Num > b.Num
	}
	if asc {
		return a.Text < b.Text
	}
	return a.Text > b.Text
}
