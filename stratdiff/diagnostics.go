// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import "github.com/grailbio/stratcmp/interval"

// Diagnostics summarizes coverage agreement for one pair.
type Diagnostics struct {
	Pair FilePair
	// TotalA and TotalB are the bases covered by each side; TotalShared is the
	// bases covered by both.
	TotalA      int64
	TotalB      int64
	TotalShared int64
	// PctSharedA is TotalShared as a percentage of TotalA, and likewise for B.
	// A side with no coverage gets 0; see Empty.
	PctSharedA float64
	PctSharedB float64
}

// Empty returns whether either side covers nothing, in which case at least
// one percentage is a placeholder 0 rather than a real ratio.
func (d Diagnostics) Empty() bool {
	return d.TotalA == 0 || d.TotalB == 0
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Summarize computes coverage totals over the output of interval.Partition.
func Summarize(regions []interval.Region, pair FilePair) Diagnostics {
	d := Diagnostics{Pair: pair}
	for _, r := range regions {
		n := r.Len()
		if r.CoveredByA() {
			d.TotalA += n
		}
		if r.CoveredByB() {
			d.TotalB += n
		}
		if r.Concordant() {
			d.TotalShared += n
		}
	}
	d.PctSharedA = percent(d.TotalShared, d.TotalA)
	d.PctSharedB = percent(d.TotalShared, d.TotalB)
	return d
}
