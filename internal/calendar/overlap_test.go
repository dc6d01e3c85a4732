package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// legacyOverlap is the five-way disjunction the release query used to run.
// RangesOverlap must agree with it on every well-formed pair.
func legacyOverlap(bStart, bEnd, selStart, selEnd Date) bool {
	between := func(x, lo, hi Date) bool { return !x.Before(lo) && !x.After(hi) }
	return (!bStart.After(selEnd) && !bEnd.Before(selStart)) ||
		between(bStart, selStart, selEnd) ||
		between(bEnd, selStart, selEnd) ||
		(!bStart.After(selStart) && !bEnd.Before(selEnd)) ||
		bStart == selStart || bStart == selEnd || bEnd == selStart || bEnd == selEnd
}

func TestRangesOverlapMatchesLegacyQuery(t *testing.T) {
	base := MustParseDate("2024-03-01")
	const span = 8
	for as := 0; as < span; as++ {
		for ae := as; ae < span; ae++ {
			for bs := 0; bs < span; bs++ {
				for be := bs; be < span; be++ {
					aStart, aEnd := base.AddDays(as), base.AddDays(ae)
					bStart, bEnd := base.AddDays(bs), base.AddDays(be)
					got := RangesOverlap(aStart, aEnd, bStart, bEnd)
					if got != legacyOverlap(aStart, aEnd, bStart, bEnd) {
						t.Fatalf("mismatch for [%s,%s] vs [%s,%s]", aStart, aEnd, bStart, bEnd)
					}
					if got != RangesOverlap(bStart, bEnd, aStart, aEnd) {
						t.Fatalf("not symmetric for [%s,%s] vs [%s,%s]", aStart, aEnd, bStart, bEnd)
					}
				}
			}
		}
	}
}

func TestRangesOverlapBoundaries(t *testing.T) {
	d := MustParseDate
	cases := []struct {
		name           string
		aS, aE, bS, bE string
		want           bool
	}{
		{"identical", "2024-03-10", "2024-03-12", "2024-03-10", "2024-03-12", true},
		{"touching end", "2024-03-10", "2024-03-12", "2024-03-12", "2024-03-14", true},
		{"adjacent", "2024-03-10", "2024-03-12", "2024-03-13", "2024-03-14", false},
		{"nested", "2024-03-01", "2024-03-31", "2024-03-11", "2024-03-11", true},
		{"point equal", "2024-03-11", "2024-03-11", "2024-03-11", "2024-03-11", true},
		{"point apart", "2024-03-11", "2024-03-11", "2024-03-12", "2024-03-12", false},
		{"before", "2024-02-01", "2024-02-28", "2024-03-01", "2024-03-02", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RangesOverlap(d(tc.aS), d(tc.aE), d(tc.bS), d(tc.bE)))
		})
	}
}

func TestFindOverlappingKeepsOrder(t *testing.T) {
	ranges := []Range{
		{ID: 3, Start: MustParseDate("2024-03-10"), End: MustParseDate("2024-03-12")},
		{ID: 1, Start: MustParseDate("2024-03-01"), End: MustParseDate("2024-03-03")},
		{ID: 2, Start: MustParseDate("2024-03-12"), End: MustParseDate("2024-03-20")},
	}
	got := FindOverlapping(MustParseDate("2024-03-11"), MustParseDate("2024-03-12"), ranges)
	if assert.Len(t, got, 2) {
		assert.Equal(t, uint64(3), got[0].ID)
		assert.Equal(t, uint64(2), got[1].ID)
	}
	assert.Empty(t, FindOverlapping(MustParseDate("2024-04-01"), MustParseDate("2024-04-01"), ranges))
}

func TestFilterWithinWindowExcludesEnd(t *testing.T) {
	w := MonthWindow(MustParseDate("2024-03-15"))
	ranges := []Range{
		{ID: 1, Start: MustParseDate("2024-02-25"), End: MustParseDate("2024-03-01")},
		{ID: 2, Start: MustParseDate("2024-04-01"), End: MustParseDate("2024-04-03")},
		{ID: 3, Start: MustParseDate("2024-02-01"), End: MustParseDate("2024-05-01")},
		{ID: 4, Start: MustParseDate("2024-02-01"), End: MustParseDate("2024-02-29")},
	}
	got := FilterWithinWindow(ranges, w)
	var ids []uint64
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint64{1, 3}, ids)
}
