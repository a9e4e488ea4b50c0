// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import "github.com/grailbio/stratcmp/interval"

// Adjacency describes which sides of a discordant region touch a concordant
// region with no gap.
type Adjacency uint8

const (
	// AdjacentNone: no concordant neighbor touches the region.
	AdjacentNone Adjacency = iota
	// AdjacentPrev: only the preceding region is concordant and touching.
	AdjacentPrev
	// AdjacentNext: only the following region is concordant and touching.
	AdjacentNext
	// AdjacentBoth: both neighbors are concordant and touching.
	AdjacentBoth
)

var adjacencyLabels = [...]string{".", "<", ">", "<>"}

func (a Adjacency) String() string {
	return adjacencyLabels[a]
}

// DiscordantRegion is a region covered by exactly one side of a pair.
type DiscordantRegion struct {
	ChrName   string
	Start0    interval.PosType
	End       interval.PosType
	Source    Source
	Adjacency Adjacency
	Pair      FilePair
}

// Classify labels every discordant region in regions, which must be grouped
// by chromosome and sorted within each chromosome as interval.Partition
// returns them.  Concordant regions are dropped.
func Classify(regions []interval.Region, pair FilePair) []DiscordantRegion {
	var out []DiscordantRegion
	for begin := 0; begin < len(regions); {
		end := begin + 1
		for end < len(regions) && regions[end].ChrName == regions[begin].ChrName {
			end++
		}
		out = classifyChrom(out, regions[begin:end], pair)
		begin = end
	}
	return out
}

// classifyChrom scans one chromosome, looking at most one region back and one
// region ahead.  The first region has no predecessor and the last has no
// successor.
func classifyChrom(dst []DiscordantRegion, regions []interval.Region, pair FilePair) []DiscordantRegion {
	for i, r := range regions {
		if r.Count() != 1 {
			continue
		}
		prev := i > 0 && regions[i-1].Concordant() && regions[i-1].End == r.Start0
		next := i+1 < len(regions) && regions[i+1].Concordant() && regions[i+1].Start0 == r.End
		adj := AdjacentNone
		switch {
		case prev && next:
			adj = AdjacentBoth
		case next:
			adj = AdjacentNext
		case prev:
			adj = AdjacentPrev
		}
		src := SourceA
		if r.CoveredByB() {
			src = SourceB
		}
		dst = append(dst, DiscordantRegion{
			ChrName:   r.ChrName,
			Start0:    r.Start0,
			End:       r.End,
			Source:    src,
			Adjacency: adj,
			Pair:      pair,
		})
	}
	return dst
}
