package interval

import (
	"fmt"
	"sort"
)

// BEDUnion is the union of a set of BED entries, stored per chromosome as a
// length-2N sequence of sorted endpoints: the (0-based) start position of
// interval #k is in element [2k] and the end position is in element [2k+1].
// Touching and overlapping entries are merged, and empty ones are dropped.
type BEDUnion struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	// Always initialized.
	nameMap map[string][]PosType
	// chroms lists every chromosome mentioned by the entries, in order of first
	// appearance.  A chromosome mentioned only by empty entries is listed but
	// has no endpoints.
	chroms []string
}

func initBEDUnion() BEDUnion {
	return BEDUnion{nameMap: make(map[string][]PosType)}
}

// NewBEDUnionFromEntries builds a BEDUnion from entries in any order.
// Entries are grouped by chromosome and sorted by start, so unlike the
// streaming BED loaders, split chromosomes and unsorted input are fine.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	bedUnion = initBEDUnion()
	byChr := make(map[string][]Entry)
	for _, entry := range entries {
		if entry.Start0 < 0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: negative start coordinate on %s", entry.ChrName)
			return
		}
		if entry.End < entry.Start0 || entry.End >= PosTypeMax {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: invalid coordinate pair [%d, %d) on %s", entry.Start0, entry.End, entry.ChrName)
			return
		}
		if _, found := byChr[entry.ChrName]; !found {
			bedUnion.chroms = append(bedUnion.chroms, entry.ChrName)
		}
		byChr[entry.ChrName] = append(byChr[entry.ChrName], entry)
	}
	for _, chrName := range bedUnion.chroms {
		bedUnion.nameMap[chrName] = mergeSorted(byChr[chrName])
	}
	return
}

// mergeSorted sorts one chromosome's entries in place and returns their
// interval-union as an endpoint sequence.
func mergeSorted(chrEntries []Entry) []PosType {
	sort.SliceStable(chrEntries, func(i, j int) bool {
		return chrEntries[i].Start0 < chrEntries[j].Start0
	})
	chrIntervals := []PosType{}
	prevStart, prevEnd := PosType(-1), PosType(-1)
	for _, entry := range chrEntries {
		if entry.End == entry.Start0 {
			continue
		}
		if prevEnd == -1 {
			prevStart, prevEnd = entry.Start0, entry.End
			continue
		}
		if entry.Start0 > prevEnd {
			// New interval doesn't overlap or touch the previous one, so we can
			// save the previous one.
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			prevStart, prevEnd = entry.Start0, entry.End
			continue
		}
		if entry.End > prevEnd {
			prevEnd = entry.End
		}
	}
	if prevEnd != -1 {
		chrIntervals = append(chrIntervals, prevStart, prevEnd)
	}
	return chrIntervals
}

// Chroms returns the chromosomes mentioned by the union's entries, in order
// of first appearance.  The caller must not modify the result.
func (u *BEDUnion) Chroms() []string {
	return u.chroms
}

// Endpoints returns the sorted endpoint sequence for chrName, or nil if the
// chromosome has no covered bases.  The caller must not modify the result.
func (u *BEDUnion) Endpoints(chrName string) []PosType {
	return u.nameMap[chrName]
}

// Len returns the total number of covered bases.
func (u *BEDUnion) Len() int64 {
	var total int64
	for _, endpoints := range u.nameMap {
		for i := 0; i < len(endpoints); i += 2 {
			total += int64(endpoints[i+1] - endpoints[i])
		}
	}
	return total
}

// ContainsByName checks whether the (0-based) interval [pos, pos+1) is
// contained within the BEDUnion.
func (u *BEDUnion) ContainsByName(chrName string, pos PosType) bool {
	return NewEndpointIndex(pos, u.nameMap[chrName]).Contained()
}
