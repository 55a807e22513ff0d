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

package main

import (
	"encoding/csv"
	"io"

	"github.com/brewer-db/brewer/query"
)

// resultWriter streams AggregatedEntity rows to a CSV destination,
// tagging every row with the engine that produced it and the run's
// execution id so lazy and batch output can be concatenated and
// compared without losing provenance.
type resultWriter struct {
	w     *csv.Writer
	attrs []string
}

func newResultWriter(dst io.Writer, attrs []string) *resultWriter {
	w := csv.NewWriter(dst)
	header := append([]string{"engine", "run_id", "canonical_id"}, attrs...)
	w.Write(header)
	return &resultWriter{w: w, attrs: attrs}
}

func (rw *resultWriter) Write(engine, runID string, e *query.AggregatedEntity) error {
	row := make([]string, 0, len(rw.attrs)+3)
	row = append(row, engine, runID, e.Canonical)
	for _, a := range rw.attrs {
		row = append(row, e.Values[a].String())
	}
	if err := rw.w.Write(row); err != nil {
		return err
	}
	rw.w.Flush()
	return rw.w.Error()
}
