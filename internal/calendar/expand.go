package calendar

import (
	"slices"
	"sort"
)

// Range is a stored booking reduced to what the calendar needs.
type Range struct {
	ID    uint64
	Start Date
	End   Date
	Note  string
}

// ColorGroup alternates between consecutive ranges so that adjacent
// bookings render in different colors.  It has no scheduling meaning.
type ColorGroup string

const (
	ColorOdd  ColorGroup = "odd"
	ColorEven ColorGroup = "even"
)

// ColorFor returns the group of the range at position i of the sorted order.
func ColorFor(i int) ColorGroup {
	if i%2 == 0 {
		return ColorOdd
	}
	return ColorEven
}

// DayInfo is the owner of a highlighted day.
type DayInfo struct {
	BookingID  uint64     `json:"bookingId"`
	Note       string     `json:"note"`
	ColorGroup ColorGroup `json:"colorGroup"`
	StartDate  Date       `json:"startDate"`
	EndDate    Date       `json:"endDate"`
}

// ExpandRange returns every day from start to end inclusive, ascending.  A
// reversed range yields nothing.
func ExpandRange(start, end Date) []Date {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}
	days := make([]Date, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// SortRanges returns a copy of ranges ordered by start day.  Ranges sharing
// a start day keep their relative order.
func SortRanges(ranges []Range) []Range {
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b Range) int { return a.Start.Compare(b.Start) })
	return sorted
}

// BuildDayMap maps every day covered by ranges to its owning range.  Ranges
// are colored by their position in start order.  When two ranges cover the
// same day the later one in that order wins.
func BuildDayMap(ranges []Range) map[Date]DayInfo {
	days := make(map[Date]DayInfo)
	for i, r := range SortRanges(ranges) {
		info := DayInfo{
			BookingID:  r.ID,
			Note:       r.Note,
			ColorGroup: ColorFor(i),
			StartDate:  r.Start,
			EndDate:    r.End,
		}
		for _, d := range ExpandRange(r.Start, r.End) {
			days[d] = info
		}
	}
	return days
}

// SortedDays returns the keys of a day map in ascending order.
func SortedDays(m map[Date]DayInfo) []Date {
	out := make([]Date, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsPast reports whether d is strictly before today.
func IsPast(d, today Date) bool { return d.Before(today) }

// PartitionDays splits days into those before today and those on or after
// it.  Input order is kept in both halves.
func PartitionDays(days []Date, today Date) (past, upcoming []Date) {
	for _, d := range days {
		if IsPast(d, today) {
			past = append(past, d)
		} else {
			upcoming = append(upcoming, d)
		}
	}
	return past, upcoming
}
