// Package queue defines the booking events exchanged over the message broker
// together with their publisher and the audit-log consumer.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// QueueName is the durable queue carrying booking events.
const QueueName = "booking.events"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingsReleased = "booking.released"
)

// BookingRef is the part of a booking an event carries.  Dates are
// YYYY-MM-DD strings.
type BookingRef struct {
	ID        uint64 `json:"id"`
	StartDate string `json:"startdate"`
	EndDate   string `json:"enddate"`
	Note      string `json:"note,omitempty"`
}

// BookingEvent is published after a create or a release has been committed.
// It carries enough for consumers to log or notify without querying the
// database.
type BookingEvent struct {
	EventID    string       `json:"event_id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Bookings   []BookingRef `json:"bookings"`
}

// LogLine renders the event as one line of the audit log, newline included.
func (e BookingEvent) LogLine() string {
	var action string
	switch e.Type {
	case EventBookingCreated:
		action = "Booking created"
	case EventBookingsReleased:
		action = "Bookings released"
	default:
		action = "Booking event " + e.Type
	}
	refs := make([]string, 0, len(e.Bookings))
	for _, b := range e.Bookings {
		refs = append(refs, fmt.Sprintf("%d:%s..%s", b.ID, b.StartDate, b.EndDate))
	}
	return fmt.Sprintf("[%s] %s | event_id=%s | count=%d | bookings=[%s]\n",
		e.OccurredAt.UTC().Format(time.RFC3339), action, e.EventID, len(e.Bookings), strings.Join(refs, ","))
}
