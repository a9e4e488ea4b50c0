// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/stratcmp/interval"
	"github.com/pkg/errors"
)

// CompareOpts defines how each pair's files are located and loaded.
type CompareOpts struct {
	RootA string
	RootB string
	// Chroms, if nonempty, restricts the comparison to the listed chromosomes.
	Chroms []string
}

// PairResult is the comparison of one pair.
type PairResult struct {
	Pair        FilePair
	Discordant  []DiscordantRegion
	Diagnostics Diagnostics
}

func loadUnion(ctx context.Context, path string, chroms []string) (interval.BEDUnion, error) {
	entries, err := interval.LoadEntriesFromPath(ctx, path, interval.LoadOpts{Chroms: chroms})
	if err != nil {
		return interval.BEDUnion{}, err
	}
	return interval.NewBEDUnionFromEntries(entries)
}

// ComparePair loads both files of pair and compares them.  It reads nothing
// but the two files and touches no shared state.
func ComparePair(ctx context.Context, opts CompareOpts, pair FilePair) (PairResult, error) {
	a, err := loadUnion(ctx, joinPath(opts.RootA, pair.A), opts.Chroms)
	if err != nil {
		return PairResult{}, errors.Wrapf(err, "compare %v", pair)
	}
	b, err := loadUnion(ctx, joinPath(opts.RootB, pair.B), opts.Chroms)
	if err != nil {
		return PairResult{}, errors.Wrapf(err, "compare %v", pair)
	}
	regions := interval.Partition(&a, &b)
	return PairResult{
		Pair:        pair,
		Discordant:  Classify(regions, pair),
		Diagnostics: Summarize(regions, pair),
	}, nil
}

// Compare runs ComparePair on every pair using up to parallelism workers
// (runtime.NumCPU() if parallelism <= 0).  Workers pull pair indices from a
// shared counter and store each result at its pair's index, so results[i]
// always corresponds to pairs[i] regardless of completion order.
//
// The first error aborts the run: workers stop picking up new pairs, and
// that error is returned.
func Compare(ctx context.Context, opts CompareOpts, pairs []FilePair, parallelism int) ([]PairResult, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(pairs) {
		parallelism = len(pairs)
	}
	results := make([]PairResult, len(pairs))
	if len(pairs) == 0 {
		return results, nil
	}
	log.Printf("stratdiff.Compare: comparing %d pairs (%d jobs)", len(pairs), parallelism)
	var (
		next   int64 = -1
		failed int32
	)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		for atomic.LoadInt32(&failed) == 0 {
			i := int(atomic.AddInt64(&next, 1))
			if i >= len(pairs) {
				return nil
			}
			result, err := ComparePair(ctx, opts, pairs[i])
			if err != nil {
				atomic.StoreInt32(&failed, 1)
				return err
			}
			log.Debug.Printf("stratdiff.Compare: job %d finished pair %d (%v): %d discordant regions",
				jobIdx, i, pairs[i], len(result.Discordant))
			results[i] = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
