package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lodging-booking/internal/calendar"
	"github.com/iliyamo/lodging-booking/internal/logging"
	"github.com/iliyamo/lodging-booking/internal/middleware"
	"github.com/iliyamo/lodging-booking/internal/service"
)

// BookingHandler serves the /api/bookings endpoints.
type BookingHandler struct {
	Bookings *service.BookingService

	// Cache and CachePrefix locate the cached listing responses that a
	// successful mutation purges.  Cache may be nil.
	Cache       *redis.Client
	CachePrefix string
}

func NewBookingHandler(svc *service.BookingService, cache *redis.Client, cachePrefix string) *BookingHandler {
	return &BookingHandler{Bookings: svc, Cache: cache, CachePrefix: cachePrefix}
}

// ----- DTOs -----

type createBookingReq struct {
	StartDate string `json:"startdate"`
	EndDate   string `json:"enddate"`
	Note      string `json:"note"`
}

type rangeReq struct {
	StartDate string `json:"startdate" query:"startdate"`
	EndDate   string `json:"enddate" query:"enddate"`
}

type bookingRangeResp struct {
	BookingID  uint64              `json:"bookingId"`
	StartDate  *calendar.Date      `json:"startDate"`
	EndDate    *calendar.Date      `json:"endDate"`
	Note       *string             `json:"note"`
	Dates      []calendar.Date     `json:"dates"`
	ColorGroup calendar.ColorGroup `json:"colorGroup"`
}

type releasedBookingResp struct {
	ID        uint64         `json:"id"`
	StartDate *calendar.Date `json:"startdate"`
	EndDate   *calendar.Date `json:"enddate"`
}

type conflictResp struct {
	ID        uint64         `json:"id"`
	StartDate *calendar.Date `json:"startDate"`
	EndDate   *calendar.Date `json:"endDate"`
}

type calendarDayResp struct {
	Date calendar.Date `json:"date"`
	calendar.DayInfo
	Past bool `json:"past"`
}

// CurrentMonthDates lists the booked days of the current month.
func (h *BookingHandler) CurrentMonthDates(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Bookings.CurrentWindowDays(ctx)
	if err != nil {
		return serviceError(c, err, "Error fetching booking dates")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"dates":   res.Dates,
		"month":   int(res.Month),
		"year":    res.Year,
	})
}

// CurrentMonthRanges lists the bookings from last month through next month
// with their full day lists.
func (h *BookingHandler) CurrentMonthRanges(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Bookings.CurrentWindowRanges(ctx)
	if err != nil {
		return serviceError(c, err, "Error fetching booking ranges")
	}
	ranges := make([]bookingRangeResp, 0, len(res.Ranges))
	for _, r := range res.Ranges {
		ranges = append(ranges, bookingRangeResp{
			BookingID:  r.BookingID,
			StartDate:  r.StartDate,
			EndDate:    r.EndDate,
			Note:       r.Note,
			Dates:      r.Dates,
			ColorGroup: r.ColorGroup,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"bookingRanges": ranges,
		"month":         int(res.Month),
		"year":          res.Year,
	})
}

// Calendar returns the highlighted days of the visible calendar.
func (h *BookingHandler) Calendar(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Bookings.Calendar(ctx)
	if err != nil {
		return serviceError(c, err, "Error fetching booking calendar")
	}
	days := make([]calendarDayResp, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, calendarDayResp{Date: d.Date, DayInfo: d.DayInfo, Past: d.Past})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"today":         res.Today,
		"month":         int(res.Month),
		"year":          res.Year,
		"days":          days,
		"pastDates":     res.Past,
		"upcomingDates": res.Upcoming,
	})
}

// Get returns one active booking by id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "Invalid booking id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return serviceError(c, err, "Error fetching booking")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"booking": bookingRangeResp{
			BookingID: b.BookingID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
			Note:      b.Note,
			Dates:     b.Dates,
		},
	})
}

// Availability reports whether ?startdate=&enddate= is free.
func (h *BookingHandler) Availability(c echo.Context) error {
	var req rangeReq
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid query")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Bookings.CheckAvailability(ctx, service.RangeInput{StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		return serviceError(c, err, "Error checking availability")
	}
	conflicts := make([]conflictResp, 0, len(res.Conflicts))
	for _, b := range res.Conflicts {
		conflicts = append(conflicts, conflictResp{ID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"available": res.Available,
		"conflicts": conflicts,
	})
}

// Create stores a new booking.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Bookings.CreateBooking(ctx, service.CreateBookingInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Note:      req.Note,
	})
	if err != nil {
		return serviceError(c, err, "Error creating booking")
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Booking created successfully",
		"bookingId": id,
	})
}

// Release soft-deletes every booking overlapping the posted range.  The
// range may also be given as query parameters.
func (h *BookingHandler) Release(c echo.Context) error {
	var req rangeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Bookings.Release(ctx, service.RangeInput{StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		return serviceError(c, err, "Error releasing bookings")
	}
	released := make([]releasedBookingResp, 0, len(res.ReleasedBookings))
	for _, b := range res.ReleasedBookings {
		released = append(released, releasedBookingResp{ID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate})
	}
	msg := "No overlapping bookings found"
	if res.ReleasedCount > 0 {
		msg = fmt.Sprintf("Successfully released %d booking(s)", res.ReleasedCount)
		h.purge(ctx)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":          true,
		"message":          msg,
		"releasedCount":    res.ReleasedCount,
		"releasedBookings": released,
	})
}

func (h *BookingHandler) purge(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if _, err := middleware.PurgeCache(ctx, h.Cache, h.CachePrefix); err != nil {
		logging.FromContext(ctx).Warn("cache purge failed", slog.String("error", err.Error()))
	}
}
