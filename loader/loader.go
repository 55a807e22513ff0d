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

// Package loader reads the three external-interface file families
// spec.md §6 describes — the record table, the block files, and the
// gold file — into the engine's read-only in-memory structures. This is
// the ingestion boundary, not the dataset-cleaning step spec.md puts
// out of scope: everything here is assumed already-produced and
// well-formed modulo the schema checks below.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/oracle"
	"github.com/brewer-db/brewer/record"
)

// LoadRecords reads a CSV record table: a required "id" column plus
// domain attributes. Columns named in numericCols are parsed as
// numeric (the literal string "NaN" becomes a present NaN value, not a
// null, matching "numeric attributes may be non-finite"); every other
// column is text, where the literal string "NaN" is normalized to null.
func LoadRecords(path string, numericCols []string) (*record.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening record table %s", path)
	}
	defer f.Close()

	numeric := make(map[string]bool, len(numericCols))
	for _, c := range numericCols {
		numeric[c] = true
	}

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", path)
	}
	idCol := -1
	for i, h := range header {
		if h == "id" {
			idCol = i
		}
	}
	if idCol < 0 {
		return nil, record.ErrSchema.New("record table " + path + " has no \"id\" column")
	}

	var out []*record.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading row of %s", path)
		}
		attrs := make(map[string]record.Value, len(header))
		for i, h := range header {
			if i == idCol || i >= len(row) {
				continue
			}
			attrs[h] = parseValue(row[i], numeric[h])
		}
		out = append(out, &record.Record{ID: row[idCol], Attrs: attrs})
	}
	return record.NewStore(out)
}

func parseValue(s string, numeric bool) record.Value {
	if !numeric {
		if s == "NaN" || s == "" {
			return record.NullValue()
		}
		return record.TextValue(s)
	}
	if s == "" {
		return record.NullValue()
	}
	if s == "NaN" {
		return record.NumericValue(math.NaN())
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return record.NullValue()
	}
	return record.NumericValue(f)
}

// LoadBlocks reads the three companion block files: a JSON array of
// arrays of record ids (final blocks), a JSON object block id -> cost,
// and a JSON object record id -> block ids (used only to validate
// consistency; the reverse mapping is rebuilt by block.New regardless).
func LoadBlocks(blocksPath, costsPath, recordBlocksPath string) (*block.Index, error) {
	var blocks [][]string
	if err := readJSON(blocksPath, &blocks); err != nil {
		return nil, err
	}
	var costs map[string]uint64
	if err := readJSON(costsPath, &costs); err != nil {
		return nil, err
	}

	recordsOf := make(map[string][]string, len(blocks))
	for i, members := range blocks {
		bid := strconv.Itoa(i)
		recordsOf[bid] = members
	}
	// The costs file is keyed by the same block ids as the blocks array
	// position; if the two disagree in size something upstream is
	// malformed.
	if len(costs) != 0 && len(costs) != len(blocks) {
		return nil, block.ErrSchema.New(blocksPath + " and " + costsPath + " disagree on block count")
	}

	idx := block.New(recordsOf, costs)

	if recordBlocksPath != "" {
		var recordBlocks map[string][]string
		if err := readJSON(recordBlocksPath, &recordBlocks); err != nil {
			return nil, err
		}
		for rid, bids := range recordBlocks {
			for _, bid := range bids {
				found := false
				for _, b := range idx.BlocksOf(rid) {
					if b == bid {
						found = true
						break
					}
				}
				if !found {
					return nil, block.ErrSchema.New("record " + rid + " claims block " + bid + " not present in " + blocksPath)
				}
			}
		}
	}
	return idx, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// LoadGold reads a gold CSV with columns left_spec_id,right_spec_id
// (each row an ordered pair, left < right) into a GoldMatcher.
func LoadGold(path string, blocks *block.Index) (*oracle.GoldMatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening gold file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", path)
	}
	leftCol, rightCol := -1, -1
	for i, h := range header {
		switch h {
		case "left_spec_id":
			leftCol = i
		case "right_spec_id":
			rightCol = i
		}
	}
	if leftCol < 0 || rightCol < 0 {
		return nil, record.ErrSchema.New("gold file " + path + " missing left_spec_id/right_spec_id columns")
	}

	var pairs [][2]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading row of %s", path)
		}
		pairs = append(pairs, [2]string{row[leftCol], row[rightCol]})
	}
	return oracle.NewGoldMatcher(pairs, blocks), nil
}
