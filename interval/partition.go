package interval

// Coverage records which of two interval sets cover a region.
type Coverage uint8

const (
	// CoveredA marks a region covered by the first set.
	CoveredA Coverage = 1 << iota
	// CoveredB marks a region covered by the second set.
	CoveredB
	// CoveredBoth marks a region covered by both sets.
	CoveredBoth = CoveredA | CoveredB
)

// Region is a maximal stretch of one chromosome over which coverage by two
// interval sets is constant and nonzero.
type Region struct {
	ChrName  string
	Start0   PosType
	End      PosType
	Coverage Coverage
}

// Len returns the number of bases in the region.
func (r Region) Len() int64 {
	return int64(r.End - r.Start0)
}

// CoveredByA returns whether the first set covers the region.
func (r Region) CoveredByA() bool {
	return r.Coverage&CoveredA != 0
}

// CoveredByB returns whether the second set covers the region.
func (r Region) CoveredByB() bool {
	return r.Coverage&CoveredB != 0
}

// Count returns the number of sets covering the region: 1 or 2.
func (r Region) Count() int {
	n := 0
	if r.CoveredByA() {
		n++
	}
	if r.CoveredByB() {
		n++
	}
	return n
}

// Concordant returns whether both sets cover the region.
func (r Region) Concordant() bool {
	return r.Coverage == CoveredBoth
}

// Partition computes the union of a and b, split into the fewest disjoint
// regions of constant coverage.  Uncovered space is never emitted.
//
// Regions are grouped by chromosome, with a's chromosomes first (in a's
// order) followed by chromosomes only b mentions (in b's order).  Within a
// chromosome, regions are sorted by start and pairwise disjoint; consecutive
// regions may or may not touch.
func Partition(a, b *BEDUnion) []Region {
	var regions []Region
	seen := make(map[string]struct{}, len(a.chroms))
	for _, chrName := range a.chroms {
		seen[chrName] = struct{}{}
		regions = partitionChrom(regions, chrName, a.Endpoints(chrName), b.Endpoints(chrName))
	}
	for _, chrName := range b.chroms {
		if _, ok := seen[chrName]; ok {
			continue
		}
		regions = partitionChrom(regions, chrName, nil, b.Endpoints(chrName))
	}
	return regions
}

// partitionChrom sweeps the merged endpoints of one chromosome left to right.
// Each pair of consecutive breakpoints bounds a stretch where neither set
// changes membership, so one EndpointIndex lookup per set at the stretch's
// start determines its coverage.
func partitionChrom(dst []Region, chrName string, endpointsA, endpointsB []PosType) []Region {
	breaks := mergeEndpoints(endpointsA, endpointsB)
	var eiA, eiB EndpointIndex
	for k := 0; k+1 < len(breaks); k++ {
		start := breaks[k]
		eiA.Update(start, endpointsA)
		eiB.Update(start, endpointsB)
		var cov Coverage
		if eiA.Contained() {
			cov |= CoveredA
		}
		if eiB.Contained() {
			cov |= CoveredB
		}
		if cov == 0 {
			continue
		}
		// Both inputs are maximal unions, so every breakpoint changes
		// coverage and no two emitted neighbors need coalescing.
		dst = append(dst, Region{ChrName: chrName, Start0: start, End: breaks[k+1], Coverage: cov})
	}
	return dst
}

// mergeEndpoints returns the sorted, deduplicated union of two sorted
// endpoint sequences.
func mergeEndpoints(a, b []PosType) []PosType {
	merged := make([]PosType, 0, len(a)+len(b))
	push := func(x PosType) {
		if n := len(merged); n == 0 || merged[n-1] != x {
			merged = append(merged, x)
		}
	}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			push(a[i])
			i++
		} else {
			push(b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		push(a[i])
	}
	for ; j < len(b); j++ {
		push(b[j])
	}
	return merged
}
