package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mustUnion(t *testing.T, entries ...Entry) BEDUnion {
	u, err := NewBEDUnionFromEntries(entries)
	assert.NoError(t, err)
	return u
}

func TestPartition(t *testing.T) {
	tests := []struct {
		a, b []Entry
		want []Region
	}{
		{
			[]Entry{{"chr1", 0, 100}},
			[]Entry{{"chr1", 50, 150}},
			[]Region{
				{"chr1", 0, 50, CoveredA},
				{"chr1", 50, 100, CoveredBoth},
				{"chr1", 100, 150, CoveredB},
			},
		},
		{
			// Identical sets are entirely concordant.
			[]Entry{{"chr1", 10, 20}, {"chr1", 30, 40}},
			[]Entry{{"chr1", 30, 40}, {"chr1", 10, 20}},
			[]Region{
				{"chr1", 10, 20, CoveredBoth},
				{"chr1", 30, 40, CoveredBoth},
			},
		},
		{
			// Touching but disjoint: A ends where B starts.
			[]Entry{{"chr1", 0, 10}},
			[]Entry{{"chr1", 10, 20}},
			[]Region{
				{"chr1", 0, 10, CoveredA},
				{"chr1", 10, 20, CoveredB},
			},
		},
		{
			// B nested inside A, plus chromosomes only one side mentions.
			[]Entry{{"chr2", 0, 100}, {"chr1", 5, 6}},
			[]Entry{{"chr3", 1, 2}, {"chr2", 40, 60}},
			[]Region{
				{"chr2", 0, 40, CoveredA},
				{"chr2", 40, 60, CoveredBoth},
				{"chr2", 60, 100, CoveredA},
				{"chr1", 5, 6, CoveredA},
				{"chr3", 1, 2, CoveredB},
			},
		},
		{
			nil,
			nil,
			nil,
		},
	}
	for _, tt := range tests {
		a := mustUnion(t, tt.a...)
		b := mustUnion(t, tt.b...)
		expect.EQ(t, Partition(&a, &b), tt.want)
	}
}

func TestRegionCounts(t *testing.T) {
	expect.EQ(t, Region{Coverage: CoveredA}.Count(), 1)
	expect.EQ(t, Region{Coverage: CoveredB}.Count(), 1)
	expect.EQ(t, Region{Coverage: CoveredBoth}.Count(), 2)
	expect.True(t, Region{Coverage: CoveredBoth}.Concordant())
	expect.False(t, Region{Coverage: CoveredB}.CoveredByA())
	expect.EQ(t, Region{Start0: 5, End: 12}.Len(), int64(7))
}

func randomEntries(r *rand.Rand, chroms []string, n int, span PosType) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		start := PosType(r.Intn(int(span)))
		entries[i] = Entry{
			ChrName: chroms[r.Intn(len(chroms))],
			Start0:  start,
			End:     start + PosType(r.Intn(50)),
		}
	}
	return entries
}

// Partition output must agree base-by-base with the two inputs, be sorted and
// disjoint, and add up to the size of the union.
func TestPartitionRandom(t *testing.T) {
	const span = 1000
	r := rand.New(rand.NewSource(1))
	chroms := []string{"chr1", "chr2", "chr3"}
	for iter := 0; iter < 200; iter++ {
		a := mustUnion(t, randomEntries(r, chroms, r.Intn(30), span)...)
		b := mustUnion(t, randomEntries(r, chroms, r.Intn(30), span)...)
		regions := Partition(&a, &b)

		var totalA, totalB, totalShared, totalRegions int64
		for i, region := range regions {
			assert.True(t, region.Start0 < region.End)
			if i > 0 && regions[i-1].ChrName == region.ChrName {
				assert.True(t, regions[i-1].End <= region.Start0)
				// Touching neighbors always differ in coverage.
				if regions[i-1].End == region.Start0 {
					assert.True(t, regions[i-1].Coverage != region.Coverage)
				}
			}
			for pos := region.Start0; pos < region.End; pos++ {
				assert.EQ(t, a.ContainsByName(region.ChrName, pos), region.CoveredByA())
				assert.EQ(t, b.ContainsByName(region.ChrName, pos), region.CoveredByB())
			}
			if region.CoveredByA() {
				totalA += region.Len()
			}
			if region.CoveredByB() {
				totalB += region.Len()
			}
			if region.Concordant() {
				totalShared += region.Len()
			}
			totalRegions += region.Len()
		}
		expect.EQ(t, totalA, a.Len())
		expect.EQ(t, totalB, b.Len())
		expect.EQ(t, totalA+totalB-totalShared, totalRegions)
		expect.True(t, totalShared <= totalA && totalShared <= totalB)

		// Every covered base of either input lands in some region.
		var covered int64
		for _, chrName := range chroms {
			for pos := PosType(0); pos < span+50; pos++ {
				if a.ContainsByName(chrName, pos) || b.ContainsByName(chrName, pos) {
					covered++
				}
			}
		}
		expect.EQ(t, covered, totalRegions)
	}
}
