// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"context"

	"github.com/grailbio/base/log"
)

// Opts configures a full run.
type Opts struct {
	MatchOpts
	// RenameTable, if set, is read with ReadRenames and merged over
	// MatchOpts.Renames.
	RenameTable string
	// Chroms, if nonempty, restricts the comparison to the listed chromosomes.
	Chroms []string
	// Parallelism bounds the number of pairs compared at once; 0 means
	// runtime.NumCPU().
	Parallelism int
	// Bgzip compresses the output tables.
	Bgzip bool
}

// DefaultOpts holds the default options.
var DefaultOpts = Opts{
	MatchOpts: MatchOpts{Suffix: DefaultSuffix},
}

// Report is the concatenated output of a run.  Discordant and Diagnostics
// follow MatchResult.Pairs order; Unmatched lists side-A files, then side-B
// files.
type Report struct {
	Discordant  []DiscordantRegion
	Diagnostics []Diagnostics
	Unmatched   []Unmatched
}

// Validate checks the options that can be checked without reading anything.
func (opts *Opts) Validate() error {
	if _, err := NewRewriteStages(opts.Rewrites); err != nil {
		return err
	}
	if _, err := compilePatterns("ignore-a", opts.IgnoreA); err != nil {
		return err
	}
	_, err := compilePatterns("ignore-b", opts.IgnoreB)
	return err
}

// Concat joins per-pair results in order.
func Concat(results []PairResult) ([]DiscordantRegion, []Diagnostics) {
	n := 0
	for _, r := range results {
		n += len(r.Discordant)
	}
	discordant := make([]DiscordantRegion, 0, n)
	diags := make([]Diagnostics, 0, len(results))
	for _, r := range results {
		discordant = append(discordant, r.Discordant...)
		diags = append(diags, r.Diagnostics)
	}
	return discordant, diags
}

// Reconcile matches the two trees and compares every pair.
func Reconcile(ctx context.Context, opts Opts) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	matchOpts := opts.MatchOpts
	if opts.RenameTable != "" {
		table, err := ReadRenames(ctx, opts.RenameTable)
		if err != nil {
			return Report{}, err
		}
		renames := make(map[string]string, len(opts.Renames)+len(table))
		for k, v := range opts.Renames {
			renames[k] = v
		}
		for k, v := range table {
			renames[k] = v
		}
		matchOpts.Renames = renames
	}
	match, err := Match(ctx, matchOpts)
	if err != nil {
		return Report{}, err
	}
	results, err := Compare(ctx, CompareOpts{RootA: opts.RootA, RootB: opts.RootB, Chroms: opts.Chroms}, match.Pairs, opts.Parallelism)
	if err != nil {
		return Report{}, err
	}
	var report Report
	report.Discordant, report.Diagnostics = Concat(results)
	for _, d := range report.Diagnostics {
		if d.Empty() {
			log.Error.Printf("stratdiff: %v: no coverage (A: %d bases, B: %d bases); percentages reported as 0", d.Pair, d.TotalA, d.TotalB)
		}
	}
	report.Unmatched = append(append(report.Unmatched, match.OnlyA...), match.OnlyB...)
	return report, nil
}

// Run reconciles the two trees and writes the report under outDir.
func Run(ctx context.Context, opts Opts, outDir string) error {
	report, err := Reconcile(ctx, opts)
	if err != nil {
		return err
	}
	return WriteReport(ctx, report, outDir, opts.Bgzip)
}
