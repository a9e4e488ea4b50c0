package interval

import (
	"math"
	"sort"
)

// An interval-union is represented as a sorted []PosType of interval
// endpoints.  For example, given the intervals
//   [5, 15)
//   [7, 17)
//   [20, 25)
// the interval-union is
//   [5, 17) U [20, 25)
// so the sorted sequence of endpoints is
//   {5, 17, 20, 25}.
// A position is covered iff an odd number of endpoints are <= it.

// PosType is the type used to represent interval coordinates.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// SearchPosTypes returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func SearchPosTypes(a []PosType, x PosType) EndpointIndex {
	return EndpointIndex(sort.Search(len(a), func(i int) bool { return a[i] >= x }))
}

// ExpsearchPosType returns the same value as SearchPosTypes(a, x), given a
// lower bound idx on the answer.  It checks a[idx], a[idx+1], a[idx+3],
// a[idx+7], etc. before finishing with binary search, so it is cheap when the
// answer is close to idx, which is the common case during a left-to-right
// sweep.
func ExpsearchPosType(a []PosType, x PosType, idx EndpointIndex) EndpointIndex {
	nextIncr := EndpointIndex(1)
	startIdx := idx
	endIdx := EndpointIndex(len(a))
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		midIdx := EndpointIndex((uint(startIdx) + uint(endIdx)) >> 1)
		if a[midIdx] >= x {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// EndpointIndex is intended to represent the result of
// SearchPosTypes(endpoints, pos+1), i.e. the number of endpoints <= pos.
// NOTE THE "+1"!  This is necessary to line up with our usual left-closed
// right-open intervals.
//
// The zero value is a valid starting point for a sweep that begins at or
// before the first endpoint.
type EndpointIndex uint32

// NewEndpointIndex returns an EndpointIndex initialized to
// SearchPosTypes(endpoints, pos+1).
func NewEndpointIndex(pos PosType, endpoints []PosType) EndpointIndex {
	return SearchPosTypes(endpoints, pos+1)
}

// Contained returns whether the position is inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Update moves the EndpointIndex to newPos, which cannot be smaller than the
// position it previously referred to.
func (ei *EndpointIndex) Update(newPos PosType, endpoints []PosType) {
	*ei = ExpsearchPosType(endpoints, newPos+1, *ei)
}
