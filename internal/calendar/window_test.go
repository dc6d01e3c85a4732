package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(MustParseDate("2024-12-17"))
	assert.Equal(t, MustParseDate("2024-12-01"), w.Start)
	assert.Equal(t, MustParseDate("2025-01-01"), w.End)
	assert.Equal(t, MustParseDate("2024-12-31"), w.Last())
	assert.True(t, w.Contains(MustParseDate("2024-12-31")))
	assert.False(t, w.Contains(MustParseDate("2025-01-01")))
	assert.False(t, w.Contains(MustParseDate("2024-11-30")))
}

func TestPagingWindowCrossesYears(t *testing.T) {
	w := PagingWindow(MustParseDate("2024-01-15"))
	assert.Equal(t, MustParseDate("2023-12-01"), w.Start)
	assert.Equal(t, MustParseDate("2024-03-01"), w.End)

	w = PagingWindow(MustParseDate("2024-12-31"))
	assert.Equal(t, MustParseDate("2024-11-01"), w.Start)
	assert.Equal(t, MustParseDate("2025-02-01"), w.End)
}
