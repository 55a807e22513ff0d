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

package query

import "github.com/brewer-db/brewer/aggregate"

// Task names the predefined query families from task_definition.py's
// duplicated classes, preserved here as data rather than duplicated Go
// types (Design Note: "Duplicated query-task classes... collapse to
// one generic query descriptor").
type Task string

const (
	AlaskaCamera         Task = "alaska_camera"
	AlaskaCameraNoNan    Task = "alaska_camera_no_nan"
	Altosight            Task = "altosight"
	AltosightNoNan       Task = "altosight_no_nan"
	AltosightSigmod      Task = "altosight_sigmod"
	AltosightSigmodNoNan Task = "altosight_sigmod_no_nan"
	Funding              Task = "funding"
	FundingNoNan         Task = "funding_no_nan"
)

// TaskTemplate describes everything about a task family that isn't
// chosen at random per run in the original: the aggregation map,
// projected attributes, numeric columns, ordering key, and whether
// blocking is used. The HAVING conditions, their operator, and the
// ordering direction are left for the caller to fill in through Build
// (they were randomized per query instance in task_definition.py); the
// ordering key's aggregation is fixed by the template's Aggregations.
type TaskTemplate struct {
	Dataset      string
	Aggregations map[string]aggregate.Func
	Attributes   []string
	NumericAttrs []string
	OrderingKey  string
	Blocking     bool
}

// Templates holds the eight predefined task families.
var Templates = map[Task]TaskTemplate{
	AlaskaCamera: {
		Dataset: "alaska_camera",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "brand": aggregate.Vote, "model": aggregate.Vote, "megapixels": aggregate.Max,
		},
		Attributes:   []string{"brand", "model", "megapixels"},
		NumericAttrs: []string{"megapixels"},
		OrderingKey:  "megapixels",
		Blocking:     true,
	},
	AlaskaCameraNoNan: {
		Dataset: "alaska_camera_no_nan",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "brand": aggregate.Vote, "model": aggregate.Vote, "megapixels": aggregate.Max,
		},
		Attributes:   []string{"brand", "model", "megapixels"},
		NumericAttrs: []string{"megapixels"},
		OrderingKey:  "megapixels",
		Blocking:     true,
	},
	Altosight: {
		Dataset: "altosight",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "name": aggregate.Vote, "brand": aggregate.Vote, "size": aggregate.Vote,
			"size_num": aggregate.Max, "price": aggregate.Min,
		},
		Attributes:   []string{"name", "brand", "size", "size_num", "price"},
		NumericAttrs: []string{"size_num", "price"},
		OrderingKey:  "price",
		Blocking:     true,
	},
	AltosightNoNan: {
		Dataset: "altosight_no_nan",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "name": aggregate.Vote, "brand": aggregate.Vote, "size": aggregate.Vote,
			"size_num": aggregate.Max, "price": aggregate.Min,
		},
		Attributes:   []string{"name", "brand", "size", "size_num", "price"},
		NumericAttrs: []string{"size_num", "price"},
		OrderingKey:  "price",
		Blocking:     true,
	},
	AltosightSigmod: {
		Dataset: "altosight_sigmod",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "name": aggregate.Vote, "brand": aggregate.Vote, "size": aggregate.Vote,
			"size_num": aggregate.Max, "price": aggregate.Min,
		},
		Attributes:   []string{"name", "brand", "size", "size_num", "price"},
		NumericAttrs: []string{"size_num", "price"},
		OrderingKey:  "price",
		Blocking:     false,
	},
	AltosightSigmodNoNan: {
		Dataset: "altosight_sigmod_no_nan",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "name": aggregate.Vote, "brand": aggregate.Vote, "size": aggregate.Vote,
			"size_num": aggregate.Max, "price": aggregate.Min,
		},
		Attributes:   []string{"name", "brand", "size", "size_num", "price"},
		NumericAttrs: []string{"size_num", "price"},
		OrderingKey:  "price",
		Blocking:     false,
	},
	Funding: {
		Dataset: "funding",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "legal_name": aggregate.Vote, "address": aggregate.Vote, "source": aggregate.Vote,
			"council_member": aggregate.Vote, "amount": aggregate.Min,
		},
		Attributes:   []string{"legal_name", "address", "source", "council_member", "amount"},
		NumericAttrs: []string{"amount"},
		OrderingKey:  "amount",
		Blocking:     true,
	},
	FundingNoNan: {
		Dataset: "funding_no_nan",
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "legal_name": aggregate.Vote, "address": aggregate.Vote, "source": aggregate.Vote,
			"council_member": aggregate.Vote, "amount": aggregate.Min,
		},
		Attributes:   []string{"legal_name", "address", "source", "council_member", "amount"},
		NumericAttrs: []string{"amount"},
		OrderingKey:  "amount",
		Blocking:     false,
	},
}

// Build turns a template plus the caller's HAVING/ordering choices into
// a full Spec.
func (t TaskTemplate) Build(having [2]Condition, operator Operator, mode Mode, topK int, ignoreNull bool) *Spec {
	numeric := make(map[string]bool, len(t.NumericAttrs))
	for _, a := range t.NumericAttrs {
		numeric[a] = true
	}
	return &Spec{
		TopK:         topK,
		IgnoreNull:   ignoreNull,
		Aggregations: t.Aggregations,
		Attributes:   t.Attributes,
		Having:       having,
		Operator:     operator,
		OrderingKey:  t.OrderingKey,
		OrderingMode: mode,
		NumericAttrs: numeric,
	}
}
