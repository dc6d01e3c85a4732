// Package service implements the booking use cases on top of the store and
// the pure calendar logic.  Every call recomputes its result from freshly
// fetched rows; nothing is cached between requests.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iliyamo/lodging-booking/internal/calendar"
	"github.com/iliyamo/lodging-booking/internal/logging"
	"github.com/iliyamo/lodging-booking/internal/model"
	"github.com/iliyamo/lodging-booking/internal/queue"
	"github.com/iliyamo/lodging-booking/internal/repository"
	"github.com/iliyamo/lodging-booking/internal/utils"
)

// BookingStore is the persistence the service needs.  repository.BookingRepo
// implements it.
type BookingStore interface {
	Insert(ctx context.Context, b model.NewBooking) (uint64, error)
	FetchActiveOverlapping(ctx context.Context, from, to calendar.Date) ([]model.Booking, error)
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	SoftDelete(ctx context.Context, ids []uint64, at time.Time) ([]uint64, error)
}

// MaxBookingDays caps how many days a single new booking may cover.
const MaxBookingDays = 366

// EventPublisher receives booking events after a mutation has been stored.
// Publishing is best effort; failures are logged and never undo the
// mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Option configures a BookingService.
type Option func(*BookingService)

// WithClock replaces time.Now, which tests use to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// WithLocation sets the zone in which "today" and the month windows are
// computed.  UTC by default.
func WithLocation(loc *time.Location) Option {
	return func(s *BookingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPublisher attaches an event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *BookingService) { s.events = p }
}

// BookingService lists, creates and releases bookings.
type BookingService struct {
	store    BookingStore
	events   EventPublisher
	now      func() time.Time
	loc      *time.Location
	validate *validator.Validate
}

func NewBookingService(store BookingStore, opts ...Option) *BookingService {
	if store == nil {
		panic("nil store passed to NewBookingService")
	}
	s := &BookingService{
		store:    store,
		now:      time.Now,
		loc:      time.UTC,
		validate: utils.NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's zone.
func (s *BookingService) Today() calendar.Date {
	return calendar.Today(s.now(), s.loc)
}

// DaysResult is the set of booked days in the current month.
type DaysResult struct {
	Dates []calendar.Date
	Month time.Month
	Year  int
}

// BookingRange is one active booking with every day it covers.
type BookingRange struct {
	BookingID  uint64
	StartDate  *calendar.Date
	EndDate    *calendar.Date
	Note       *string
	Dates      []calendar.Date
	ColorGroup calendar.ColorGroup
}

// RangesResult lists the bookings visible in the paging window.
type RangesResult struct {
	Ranges []BookingRange
	Month  time.Month
	Year   int
}

// CalendarDay is one highlighted day of the calendar view.
type CalendarDay struct {
	Date calendar.Date
	calendar.DayInfo
	Past bool
}

// CalendarResult is the server-side day map for the paging window.  Past
// and Upcoming split the booked days around Today.
type CalendarResult struct {
	Days     []CalendarDay
	Past     []calendar.Date
	Upcoming []calendar.Date
	Today    calendar.Date
	Month time.Month
	Year  int
}

// BookingSummary identifies a booking touched by a release or found by an
// availability check.
type BookingSummary struct {
	ID        uint64
	StartDate *calendar.Date
	EndDate   *calendar.Date
}

// ReleaseResult reports what a release did.
type ReleaseResult struct {
	ReleasedCount    int64
	ReleasedBookings []BookingSummary
}

// AvailabilityResult tells whether a candidate range is free.
type AvailabilityResult struct {
	Available bool
	Conflicts []BookingSummary
}

// CreateBookingInput is the raw request for CreateBooking.  Dates are
// YYYY-MM-DD strings; EndDate defaults to StartDate.
type CreateBookingInput struct {
	StartDate string `json:"startdate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"enddate" validate:"omitempty,datetime=2006-01-02"`
	Note      string `json:"note" validate:"max=1000"`
}

// RangeInput is a raw [startdate, enddate] pair used by release and the
// availability check.
type RangeInput struct {
	StartDate string `json:"startdate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"enddate" validate:"omitempty,datetime=2006-01-02"`
}

// CurrentWindowDays returns the booked days of the current month.  Days of a
// booking that spill into neighbouring months are left out.
func (s *BookingService) CurrentWindowDays(ctx context.Context) (DaysResult, error) {
	today := s.Today()
	w := calendar.MonthWindow(today)
	ranges, err := s.activeRanges(ctx, w)
	if err != nil {
		return DaysResult{}, err
	}

	seen := make(map[calendar.Date]struct{})
	dates := []calendar.Date{}
	for _, r := range calendar.SortRanges(ranges) {
		for _, d := range calendar.ExpandRange(r.Start, r.End) {
			if !w.Contains(d) {
				continue
			}
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, calendar.Date.Compare)
	return DaysResult{Dates: dates, Month: today.Month, Year: today.Year}, nil
}

// CurrentWindowRanges returns every active booking touching the paging
// window (previous month through next month), each with its full day list
// even where it extends past the window.  Ranges are ordered by start day
// and carry the same color group the calendar view assigns.
func (s *BookingService) CurrentWindowRanges(ctx context.Context) (RangesResult, error) {
	today := s.Today()
	w := calendar.PagingWindow(today)
	bookings, err := s.fetch(ctx, w.Start, w.Last())
	if err != nil {
		return RangesResult{}, err
	}

	byID := make(map[uint64]model.Booking, len(bookings))
	ranges := make([]calendar.Range, 0, len(bookings))
	for _, b := range bookings {
		r, ok := b.Range()
		if !ok {
			continue
		}
		byID[b.ID] = b
		ranges = append(ranges, r)
	}

	out := make([]BookingRange, 0, len(ranges))
	for i, r := range calendar.SortRanges(calendar.FilterWithinWindow(ranges, w)) {
		days := calendar.ExpandRange(r.Start, r.End)
		if len(days) == 0 {
			continue
		}
		b := byID[r.ID]
		out = append(out, BookingRange{
			BookingID:  r.ID,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Note:       b.Note,
			Dates:      days,
			ColorGroup: calendar.ColorFor(i),
		})
	}
	return RangesResult{Ranges: out, Month: today.Month, Year: today.Year}, nil
}

// Calendar returns the day map of the paging window: every booked day with
// its owning booking, color group and whether it is already past.
func (s *BookingService) Calendar(ctx context.Context) (CalendarResult, error) {
	today := s.Today()
	w := calendar.PagingWindow(today)
	ranges, err := s.activeRanges(ctx, w)
	if err != nil {
		return CalendarResult{}, err
	}
	m := calendar.BuildDayMap(ranges)
	sorted := calendar.SortedDays(m)
	past, upcoming := calendar.PartitionDays(sorted, today)
	days := make([]CalendarDay, 0, len(sorted))
	for i, d := range sorted {
		days = append(days, CalendarDay{Date: d, DayInfo: m[d], Past: i < len(past)})
	}
	if past == nil {
		past = []calendar.Date{}
	}
	if upcoming == nil {
		upcoming = []calendar.Date{}
	}
	return CalendarResult{
		Days:     days,
		Past:     past,
		Upcoming: upcoming,
		Today:    today,
		Month:    today.Month,
		Year:     today.Year,
	}, nil
}

// GetBooking returns one active booking with the days it covers.
// ErrBookingNotFound is returned for unknown and released ids.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (BookingRange, error) {
	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return BookingRange{}, ErrBookingNotFound
	}
	if err != nil {
		return BookingRange{}, storageErr("get", err)
	}
	if b.IsDeleted {
		return BookingRange{}, ErrBookingNotFound
	}
	out := BookingRange{BookingID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate, Note: b.Note, Dates: []calendar.Date{}}
	if r, ok := b.Range(); ok {
		out.Dates = calendar.ExpandRange(r.Start, r.End)
	}
	return out, nil
}

// CheckAvailability reports the active bookings that intersect the
// requested range.
func (s *BookingService) CheckAvailability(ctx context.Context, in RangeInput) (AvailabilityResult, error) {
	start, end, err := s.parseRange(in)
	if err != nil {
		return AvailabilityResult{}, err
	}
	bookings, hits, err := s.overlapping(ctx, start, end)
	if err != nil {
		return AvailabilityResult{}, err
	}
	return AvailabilityResult{Available: len(hits) == 0, Conflicts: summarize(bookings, hits)}, nil
}

// CreateBooking stores a new active booking and returns its id.  It does
// not look for existing bookings on the same days; callers that care run
// CheckAvailability first.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (uint64, error) {
	if err := s.check(in); err != nil {
		return 0, err
	}
	start, end, err := s.parseRange(RangeInput{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return 0, err
	}
	if calendar.DaysBetween(start, end)+1 > MaxBookingDays {
		return 0, &ValidationError{Field: "enddate", Message: fmt.Sprintf("A booking may span at most %d days", MaxBookingDays)}
	}
	noteText := strings.TrimSpace(in.Note)
	var note *string
	if noteText != "" {
		note = &noteText
	}
	now := s.now().UTC()
	id, err := s.store.Insert(ctx, model.NewBooking{StartDate: start, EndDate: end, Note: note, CreatedAt: now})
	if err != nil {
		return 0, storageErr("insert", err)
	}
	logging.FromContext(ctx).Info("booking created",
		slog.Uint64("booking_id", id), slog.String("start", start.String()), slog.String("end", end.String()))

	s.publish(ctx, queue.BookingEvent{
		Type:       queue.EventBookingCreated,
		OccurredAt: now,
		Bookings:   []queue.BookingRef{{ID: id, StartDate: start.String(), EndDate: end.String(), Note: noteText}},
	})
	return id, nil
}

// Release soft-deletes every active booking that touches the requested
// range, whole bookings included even when only one of their days is
// selected.  Only the bookings this call actually flipped are counted,
// listed and published; rows a concurrent release got to first are left
// out.  When nothing overlaps, nothing is written and the count is zero.
// A failed update reports no count.
func (s *BookingService) Release(ctx context.Context, in RangeInput) (ReleaseResult, error) {
	start, end, err := s.parseRange(in)
	if err != nil {
		return ReleaseResult{}, err
	}
	bookings, hits, err := s.overlapping(ctx, start, end)
	if err != nil {
		return ReleaseResult{}, err
	}
	if len(hits) == 0 {
		return ReleaseResult{ReleasedBookings: []BookingSummary{}}, nil
	}

	ids := make([]uint64, 0, len(hits))
	for _, r := range hits {
		ids = append(ids, r.ID)
	}
	now := s.now().UTC()
	releasedIDs, err := s.store.SoftDelete(ctx, ids, now)
	if err != nil {
		return ReleaseResult{}, storageErr("soft delete", err)
	}
	logging.FromContext(ctx).Info("bookings released",
		slog.Int("count", len(releasedIDs)), slog.Int("matched", len(hits)),
		slog.String("start", start.String()), slog.String("end", end.String()))
	if len(releasedIDs) == 0 {
		return ReleaseResult{ReleasedBookings: []BookingSummary{}}, nil
	}

	done := make(map[uint64]struct{}, len(releasedIDs))
	for _, id := range releasedIDs {
		done[id] = struct{}{}
	}
	mine := make([]calendar.Range, 0, len(releasedIDs))
	refs := make([]queue.BookingRef, 0, len(releasedIDs))
	for _, r := range hits {
		if _, ok := done[r.ID]; !ok {
			continue
		}
		mine = append(mine, r)
		refs = append(refs, queue.BookingRef{ID: r.ID, StartDate: r.Start.String(), EndDate: r.End.String(), Note: r.Note})
	}
	s.publish(ctx, queue.BookingEvent{Type: queue.EventBookingsReleased, OccurredAt: now, Bookings: refs})
	return ReleaseResult{ReleasedCount: int64(len(mine)), ReleasedBookings: summarize(bookings, mine)}, nil
}

// activeRanges fetches the bookings touching w and reduces them to ranges.
func (s *BookingService) activeRanges(ctx context.Context, w calendar.Window) ([]calendar.Range, error) {
	bookings, err := s.fetch(ctx, w.Start, w.Last())
	if err != nil {
		return nil, err
	}
	return calendar.FilterWithinWindow(toRanges(bookings), w), nil
}

// overlapping fetches the candidates for [start, end] and narrows them with
// the canonical overlap test.
func (s *BookingService) overlapping(ctx context.Context, start, end calendar.Date) ([]model.Booking, []calendar.Range, error) {
	bookings, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	return bookings, calendar.FindOverlapping(start, end, toRanges(bookings)), nil
}

func (s *BookingService) fetch(ctx context.Context, from, to calendar.Date) ([]model.Booking, error) {
	bookings, err := s.store.FetchActiveOverlapping(ctx, from, to)
	if err != nil {
		return nil, storageErr("fetch", err)
	}
	return bookings, nil
}

func (s *BookingService) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		if fe, ok := utils.FirstFieldError(err); ok {
			return &ValidationError{Field: fe.Field, Message: requestMessage(fe)}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func (s *BookingService) parseRange(in RangeInput) (calendar.Date, calendar.Date, error) {
	if err := s.check(in); err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	start, err := calendar.ParseDate(strings.TrimSpace(in.StartDate))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, &ValidationError{Field: "startdate", Message: err.Error()}
	}
	end := start
	if raw := strings.TrimSpace(in.EndDate); raw != "" {
		if end, err = calendar.ParseDate(raw); err != nil {
			return calendar.Date{}, calendar.Date{}, &ValidationError{Field: "enddate", Message: err.Error()}
		}
	}
	if end.Before(start) {
		return calendar.Date{}, calendar.Date{}, &ValidationError{Field: "enddate", Message: "End date must not be before start date"}
	}
	return start, end, nil
}

func (s *BookingService) publish(ctx context.Context, ev queue.BookingEvent) {
	if s.events == nil {
		return
	}
	ev.EventID = uuid.NewString()
	if err := s.events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish booking event failed",
			slog.String("type", ev.Type), slog.String("error", err.Error()))
	}
}

func requestMessage(fe utils.FieldError) string {
	if fe.Field == "startdate" && fe.Tag == "required" {
		return "Start date is required"
	}
	return fe.Message()
}

func toRanges(bookings []model.Booking) []calendar.Range {
	out := make([]calendar.Range, 0, len(bookings))
	for _, b := range bookings {
		if r, ok := b.Range(); ok {
			out = append(out, r)
		}
	}
	return out
}

// summarize reports the stored dates of the bookings behind hits, in hit
// order.
func summarize(bookings []model.Booking, hits []calendar.Range) []BookingSummary {
	byID := make(map[uint64]model.Booking, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
	}
	out := make([]BookingSummary, 0, len(hits))
	for _, r := range hits {
		b := byID[r.ID]
		out = append(out, BookingSummary{ID: r.ID, StartDate: b.StartDate, EndDate: b.EndDate})
	}
	return out
}
