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

// Package query defines the query specification (C5's Having type plus
// the overall Spec) and its pre/post filtering semantics.
package query

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/brewer-db/brewer/aggregate"
)

// ErrSchema is raised when a Spec references an attribute the schema
// doesn't carry, or an illegal aggregation for the ordering key.
var ErrSchema = errors.NewKind("schema error: %s")

// Operator is the logical connective between the two HAVING conditions.
type Operator int

const (
	And Operator = iota
	Or
)

func (o Operator) String() string {
	if o == And {
		return "AND"
	}
	return "OR"
}

// Mode is the ORDER BY direction.
type Mode int

const (
	Asc Mode = iota
	Desc
)

func (m Mode) String() string {
	if m == Asc {
		return "ASC"
	}
	return "DESC"
}

// Condition is one HAVING clause: attribute LIKE '%substring%'.
type Condition struct {
	Attribute string
	Substring string
}

// Spec is the in-process query descriptor that collapses
// task_definition.py's duplicated per-dataset task classes into one
// generic struct parameterized by schema, HAVING conditions, and
// ordering key.
type Spec struct {
	TopK         int // <= 0 means unbounded
	IgnoreNull   bool
	Aggregations map[string]aggregate.Func
	Attributes   []string // projection
	Having       [2]Condition
	Operator     Operator
	OrderingKey  string
	OrderingMode Mode

	// NumericAttrs declares which aggregated attributes are numeric
	// columns (as opposed to text), mirroring the per-dataset numeric
	// column declaration task_definition.py threads through dataset
	// selection. Attributes absent from this set are treated as text.
	NumericAttrs map[string]bool
}

// IsNumeric reports whether attr is a declared numeric column.
func (s *Spec) IsNumeric(attr string) bool {
	return s.NumericAttrs[attr]
}

// Validate checks the spec against a known attribute set, enforcing the
// ordering-key aggregation restriction and that every referenced
// attribute is aggregated.
func (s *Spec) Validate(knownAttrs map[string]bool) error {
	for _, a := range s.Attributes {
		if _, ok := s.Aggregations[a]; !ok {
			return ErrSchema.New(fmt.Sprintf("attribute %q has no aggregation function", a))
		}
		if !knownAttrs[a] {
			return ErrSchema.New(fmt.Sprintf("unknown attribute %q", a))
		}
	}
	for _, c := range s.Having {
		if !knownAttrs[c.Attribute] {
			return ErrSchema.New(fmt.Sprintf("unknown HAVING attribute %q", c.Attribute))
		}
		if _, ok := s.Aggregations[c.Attribute]; !ok {
			return ErrSchema.New(fmt.Sprintf("HAVING attribute %q has no aggregation function", c.Attribute))
		}
	}
	if !knownAttrs[s.OrderingKey] {
		return ErrSchema.New(fmt.Sprintf("unknown ordering key %q", s.OrderingKey))
	}
	fn, ok := s.Aggregations[s.OrderingKey]
	if !ok {
		return ErrSchema.New(fmt.Sprintf("ordering key %q has no aggregation function", s.OrderingKey))
	}
	if !aggregate.OrderingKeyAllowed(fn) {
		return ErrSchema.New(fmt.Sprintf("ordering key aggregation must be one of min/max/avg/vote, got %v", fn))
	}
	return nil
}

// String renders the query as the SQL text task_definition.py builds:
// SELECT fn(attr), ... FROM ds GROUP BY _ HAVING ... ORDER BY ... ,
// upper-cased, with an optional TOP(k) prefix.
func (s *Spec) String(dataset string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.TopK > 0 {
		fmt.Fprintf(&b, "TOP(%d) ", s.TopK)
	}
	for i, a := range s.Attributes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s(%s)", s.Aggregations[a], a)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "FROM %s\n", dataset)
	b.WriteString("GROUP BY _\n")
	b.WriteString("HAVING ")
	for i, c := range s.Having {
		fmt.Fprintf(&b, "%s(%s) LIKE '%%%s%%'", s.Aggregations[c.Attribute], c.Attribute, c.Substring)
		if i == 0 {
			fmt.Fprintf(&b, " %s ", s.Operator)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "ORDER BY %s(%s) %s\n", s.Aggregations[s.OrderingKey], s.OrderingKey, s.OrderingMode)
	return strings.ToUpper(b.String())
}
