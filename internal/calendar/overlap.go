package calendar

// RangesOverlap reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one day.
func RangesOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// Overlaps reports whether r intersects [start, end].
func (r Range) Overlaps(start, end Date) bool {
	return RangesOverlap(r.Start, r.End, start, end)
}

// FindOverlapping returns every range intersecting [start, end], keeping the
// input order.
func FindOverlapping(start, end Date, ranges []Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out
}

// FilterWithinWindow returns the ranges touching w, keeping the input order.
func FilterWithinWindow(ranges []Range, w Window) []Range {
	return FindOverlapping(w.Start, w.Last(), ranges)
}
