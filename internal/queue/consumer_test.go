package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLine(t *testing.T) {
	ev := BookingEvent{
		EventID:    "e-1",
		Type:       EventBookingsReleased,
		OccurredAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Bookings: []BookingRef{
			{ID: 1, StartDate: "2024-03-10", EndDate: "2024-03-12"},
			{ID: 2, StartDate: "2024-03-14", EndDate: "2024-03-14"},
		},
	}
	assert.Equal(t,
		"[2024-03-15T10:00:00Z] Bookings released | event_id=e-1 | count=2 | bookings=[1:2024-03-10..2024-03-12,2:2024-03-14..2024-03-14]\n",
		ev.LogLine())
}

func TestConsumerHandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	c := NewConsumer("", path, nil)

	for _, id := range []uint64{7, 8} {
		body, err := json.Marshal(BookingEvent{
			EventID:    "e",
			Type:       EventBookingCreated,
			OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Bookings:   []BookingRef{{ID: id, StartDate: "2024-03-01", EndDate: "2024-03-02"}},
		})
		require.NoError(t, err)
		require.NoError(t, c.Handle(body))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Booking created")
	assert.Contains(t, lines[0], "7:2024-03-01..2024-03-02")
	assert.Contains(t, lines[1], "8:2024-03-01..2024-03-02")
}

func TestConsumerHandleRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")
	c := NewConsumer("", path, nil)

	assert.Error(t, c.Handle([]byte("{not json")))
	assert.Error(t, c.Handle([]byte(`{"event_id":"x"}`)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
