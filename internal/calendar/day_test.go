package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 10}, d)
	assert.Equal(t, "2024-03-10", d.String())

	for _, bad := range []string{"", "2024-3-10", "2024-02-30", "10/03/2024", "2024-03-10T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	assert.Equal(t, MustParseDate("2024-03-01"), MustParseDate("2024-02-29").AddDays(1))
	assert.Equal(t, MustParseDate("2023-03-01"), MustParseDate("2023-02-28").AddDays(1))
	assert.Equal(t, MustParseDate("2024-12-31"), MustParseDate("2025-01-01").AddDays(-1))
	assert.Equal(t, MustParseDate("2023-12-01"), MustParseDate("2024-01-01").AddMonths(-1))
	assert.Equal(t, 366, DaysBetween(MustParseDate("2024-01-01"), MustParseDate("2025-01-01")))
	assert.Equal(t, -1, DaysBetween(MustParseDate("2024-01-02"), MustParseDate("2024-01-01")))
}

func TestTodayIgnoresServerZone(t *testing.T) {
	// 23:30 UTC is already the next day in Tokyo.
	now := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, MustParseDate("2024-03-31"), Today(now, nil))
	assert.Equal(t, MustParseDate("2024-04-01"), Today(now, tokyo))
}

func TestDateJSON(t *testing.T) {
	payload := map[Date]string{MustParseDate("2024-03-10"): "x"}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-03-10":"x"}`, string(b))

	var back struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &back))
	assert.Equal(t, MustParseDate("2024-02-29"), back.D)
	assert.Error(t, json.Unmarshal([]byte(`{"d":"2023-02-29"}`), &back))
}
