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

// Command brewer runs a single BrewER query against a record table,
// block index, and gold file, either with the lazy priority scheduler
// (C7), the eager batch baseline (C8), or both for comparison.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brewer-db/brewer/batch"
	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/brewer"
	"github.com/brewer-db/brewer/loader"
	"github.com/brewer-db/brewer/oracle"
	"github.com/brewer-db/brewer/query"
	"github.com/brewer-db/brewer/record"
)

var log = logrus.StandardLogger()

var (
	flagRecords      string
	flagBlocks       string
	flagCosts        string
	flagRecordBlocks string
	flagGold         string
	flagTask         string
	flagMode         string
	flagOut          string

	flagHaving1Attr string
	flagHaving1Sub  string
	flagHaving2Attr string
	flagHaving2Sub  string
	flagOperator    string

	flagOrderMode  string
	flagTopK       int
	flagIgnoreNull bool
	flagSeed       int64
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "brewer",
	Short: "Lazy entity resolution query engine",
	Long: `brewer runs one query over a dirty record table and a
precomputed block index, resolving entities on demand in ranked order
(lazy mode), resolving the whole dataset upfront (batch mode), or both
so their outputs and oracle-call counts can be compared.`,
	RunE: runQuery,
}

func init() {
	rootCmd.Flags().StringVar(&flagRecords, "records", "", "path to the record table CSV (required)")
	rootCmd.Flags().StringVar(&flagBlocks, "blocks", "", "path to the blocks JSON file (array of arrays of record ids)")
	rootCmd.Flags().StringVar(&flagCosts, "costs", "", "path to the block-cost JSON file (block id -> cost)")
	rootCmd.Flags().StringVar(&flagRecordBlocks, "record-blocks", "", "optional path to the record->blocks JSON file, used only for cross-validation")
	rootCmd.Flags().StringVar(&flagGold, "gold", "", "path to the gold-pairs CSV (required)")
	rootCmd.Flags().StringVar(&flagTask, "task", "", "predefined task name, e.g. alaska_camera, altosight_no_nan, funding")
	rootCmd.Flags().StringVar(&flagMode, "mode", "lazy", "engine to run: lazy, batch, or both")
	rootCmd.Flags().StringVar(&flagOut, "out", "", "output CSV path (default: stdout)")

	rootCmd.Flags().StringVar(&flagHaving1Attr, "having1-attr", "", "first HAVING condition's attribute")
	rootCmd.Flags().StringVar(&flagHaving1Sub, "having1-substring", "", "first HAVING condition's substring")
	rootCmd.Flags().StringVar(&flagHaving2Attr, "having2-attr", "", "second HAVING condition's attribute")
	rootCmd.Flags().StringVar(&flagHaving2Sub, "having2-substring", "", "second HAVING condition's substring")
	rootCmd.Flags().StringVar(&flagOperator, "operator", "OR", "HAVING connective: AND or OR")

	rootCmd.Flags().StringVar(&flagOrderMode, "order", "ASC", "ORDER BY direction: ASC or DESC")
	rootCmd.Flags().IntVar(&flagTopK, "top-k", 0, "stop after this many results (0 = unbounded)")
	rootCmd.Flags().BoolVar(&flagIgnoreNull, "ignore-null", true, "drop entities whose ordering key resolves to null/NaN")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 1, "RNG seed for the random() aggregate")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "debug-level logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "brewer:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor distinguishes schema/IO failures (2) from anything else
// (1), so callers scripting around this binary can tell "bad input"
// apart from other failures. A query with no results is not an error
// and exits 0.
func exitCodeFor(err error) int {
	msg := err.Error()
	if strings.Contains(msg, "schema error") || strings.Contains(msg, "opening") || strings.Contains(msg, "reading") || strings.Contains(msg, "decoding") {
		return 2
	}
	return 1
}

func runQuery(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if flagRecords == "" || flagGold == "" || flagTask == "" {
		return fmt.Errorf("--records, --gold, and --task are required")
	}
	tmpl, ok := query.Templates[query.Task(flagTask)]
	if !ok {
		names := make([]string, 0, len(query.Templates))
		for t := range query.Templates {
			names = append(names, string(t))
		}
		return fmt.Errorf("unknown task %q (known: %s)", flagTask, strings.Join(names, ", "))
	}

	runID := uuid.New().String()
	log.WithField("run_id", runID).WithField("task", flagTask).Info("starting brewer run")

	store, err := loader.LoadRecords(flagRecords, tmpl.NumericAttrs)
	if err != nil {
		return err
	}

	var blocks *block.Index
	if tmpl.Blocking && flagBlocks != "" {
		blocks, err = loader.LoadBlocks(flagBlocks, flagCosts, flagRecordBlocks)
		if err != nil {
			return err
		}
	} else {
		blocks = block.Unblocked(store.IDs())
	}

	matcher, err := loader.LoadGold(flagGold, blocks)
	if err != nil {
		return err
	}

	operator := query.Or
	if strings.EqualFold(flagOperator, "AND") {
		operator = query.And
	}
	mode := query.Asc
	if strings.EqualFold(flagOrderMode, "DESC") {
		mode = query.Desc
	}
	having := [2]query.Condition{
		{Attribute: flagHaving1Attr, Substring: flagHaving1Sub},
		{Attribute: flagHaving2Attr, Substring: flagHaving2Sub},
	}
	spec := tmpl.Build(having, operator, mode, flagTopK, flagIgnoreNull)

	knownAttrs := schemaOf(store)
	if err := spec.Validate(knownAttrs); err != nil {
		return err
	}
	log.WithField("run_id", runID).Debug(spec.String(tmpl.Dataset))

	out := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("opening %s: %w", flagOut, err)
		}
		defer f.Close()
		out = f
	}
	w := newResultWriter(out, tmpl.Attributes)

	switch strings.ToLower(flagMode) {
	case "lazy":
		return runLazy(runID, store, blocks, matcher, spec, w)
	case "batch":
		return runBatch(runID, store, blocks, matcher, spec, w)
	case "both":
		if err := runLazy(runID, store, blocks, matcher, spec, w); err != nil {
			return err
		}
		return runBatch(runID, store, blocks, matcher, spec, w)
	default:
		return fmt.Errorf("unknown --mode %q (want lazy, batch, or both)", flagMode)
	}
}

func schemaOf(store *record.Store) map[string]bool {
	attrs := make(map[string]bool)
	store.All(func(r *record.Record) bool {
		for a := range r.Attrs {
			attrs[a] = true
		}
		return true
	})
	return attrs
}

func runLazy(runID string, store *record.Store, blocks *block.Index, matcher *oracle.GoldMatcher, spec *query.Spec, w *resultWriter) error {
	sched, err := brewer.New(store, blocks, matcher, spec,
		brewer.WithLogger(log.WithField("run_id", runID).WithField("engine", "lazy")),
		brewer.WithRand(rand.New(rand.NewSource(flagSeed))),
	)
	if err != nil {
		return err
	}
	ctx := context.Background()
	n := 0
	for {
		entity, ok, err := sched.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := w.Write("lazy", runID, entity); err != nil {
			return err
		}
		n++
	}
	log.WithField("run_id", runID).WithField("engine", "lazy").WithField("results", n).
		WithField("oracle_calls", matcher.UncachedCalls()).Info("lazy run complete")
	return nil
}

func runBatch(runID string, store *record.Store, blocks *block.Index, matcher *oracle.GoldMatcher, spec *query.Spec, w *resultWriter) error {
	results, stats, err := batch.Run(store, blocks, matcher, spec, rand.New(rand.NewSource(flagSeed)),
		log.WithField("run_id", runID).WithField("engine", "batch"))
	if err != nil {
		return err
	}
	for _, e := range results {
		if err := w.Write("batch", runID, e); err != nil {
			return err
		}
	}
	log.WithField("run_id", runID).WithField("engine", "batch").WithField("results", len(results)).
		WithField("entities", stats.Entities).WithField("oracle_calls", stats.OracleCalls).Info("batch run complete")
	return nil
}
