package calendar

// Window is a half-open span of days [Start, End) searched by a listing
// query.
type Window struct {
	Start Date
	End   Date // exclusive
}

// Last returns the final day inside the window.
func (w Window) Last() Date { return w.End.AddDays(-1) }

// Contains reports whether d lies inside the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// MonthWindow spans the month containing today: its first day up to the
// first day of the next month.
func MonthWindow(today Date) Window {
	first := today.FirstOfMonth()
	return Window{Start: first, End: first.AddMonths(1)}
}

// PagingWindow is the wide window behind the calendar view: the first day of
// the previous month up to the first day of the month after next, so a
// client can page one month in either direction without refetching.
func PagingWindow(today Date) Window {
	first := today.FirstOfMonth()
	return Window{Start: first.AddMonths(-1), End: first.AddMonths(2)}
}
