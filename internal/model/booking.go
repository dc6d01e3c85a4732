package model

import (
	"time"

	"github.com/iliyamo/lodging-booking/internal/calendar"
)

// Booking represents a row of the `bookings` table: an inclusive range of
// calendar days held on the shared lodging calendar.
//
// Fields:
//  ID        – primary key identifier.
//  StartDate – first booked day; nil only for legacy rows.
//  EndDate   – last booked day; nil only for legacy rows.
//  Note      – optional free-text annotation.
//  IsDeleted – soft-delete flag; NULL in legacy rows is read as false.
//  CreatedAt – creation timestamp (UTC).
//  UpdatedAt – last update timestamp (UTC).
type Booking struct {
	ID        uint64         // bookings.id
	StartDate *calendar.Date // bookings.startdate (nullable)
	EndDate   *calendar.Date // bookings.enddate (nullable)
	Note      *string        // bookings.note (nullable)
	IsDeleted bool           // bookings.is_deleted
	CreatedAt time.Time      // bookings.created_at
	UpdatedAt time.Time      // bookings.updated_at
}

// Range reduces the booking to the closed day range it occupies.  A row
// with only one of its dates set occupies that single day; a row with
// neither occupies nothing and ok is false.
func (b Booking) Range() (r calendar.Range, ok bool) {
	r.ID = b.ID
	if b.Note != nil {
		r.Note = *b.Note
	}
	switch {
	case b.StartDate != nil && b.EndDate != nil:
		r.Start, r.End = *b.StartDate, *b.EndDate
	case b.StartDate != nil:
		r.Start, r.End = *b.StartDate, *b.StartDate
	case b.EndDate != nil:
		r.Start, r.End = *b.EndDate, *b.EndDate
	default:
		return calendar.Range{}, false
	}
	return r, true
}

// NewBooking carries the values inserted for a new booking.
type NewBooking struct {
	StartDate calendar.Date
	EndDate   calendar.Date
	Note      *string
	CreatedAt time.Time
}
