package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDayOf verifies timestamp normalization to midnight UTC.
func TestDayOf(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "midday timestamp",
			input:    time.Date(2025, 3, 15, 13, 45, 12, 999, time.UTC),
			expected: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "already midnight",
			input:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "end of day",
			input:    time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayOf(tt.input))
		})
	}
}

// TestNumDays verifies inclusive day counting across month and year edges.
func TestNumDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{
			name:     "single day",
			start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "full january",
			start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			expected: 31,
		},
		{
			name:     "leap february",
			start:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			expected: 29,
		},
		{
			name:     "across year boundary",
			start:    time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			expected: 4,
		},
		{
			name:     "full non-leap year",
			start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: 365,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NumDays(tt.start, tt.end))
		})
	}
}

// TestDays verifies the generated day sequence is complete, ascending and
// gap-free, with intraday time components stripped.
func TestDays(t *testing.T) {
	start := time.Date(2025, 2, 26, 8, 30, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 17, 0, 0, 0, time.UTC)

	days, err := Days(start, end)
	require.NoError(t, err)

	var got []time.Time
	for d := range days {
		got = append(got, d)
	}

	require.Len(t, got, 5)
	assert.Equal(t, time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), got[4])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].AddDate(0, 0, 1), got[i], "sequence must be gap-free")
	}
}

// TestDaysSingleDay verifies a range where start equals end yields one day.
func TestDaysSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	days, err := Days(day, day)
	require.NoError(t, err)

	var got []time.Time
	for d := range days {
		got = append(got, d)
	}
	assert.Equal(t, []time.Time{day}, got)
}

// TestDaysInvalidRange verifies a reversed range is rejected.
func TestDaysInvalidRange(t *testing.T) {
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)

	days, err := Days(start, end)
	assert.Nil(t, days)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// TestDaysRestartable verifies the sequence can be ranged over twice.
func TestDaysRestartable(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)

	days, err := Days(start, end)
	require.NoError(t, err)

	first, second := 0, 0
	for range days {
		first++
	}
	for range days {
		second++
	}
	assert.Equal(t, 3, first)
	assert.Equal(t, 3, second)
}
