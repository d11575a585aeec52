package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestWindows_ContiguousNonOverlapping(t *testing.T) {
	windows := domain.Windows(day(0), day(365), 90*24*time.Hour, 30*24*time.Hour)
	require.NotEmpty(t, windows)

	for i, w := range windows {
		assert.Equal(t, w.TrainEnd, w.TestStart, "window %d: test starts where training ends", i)
		assert.True(t, w.TestEnd.After(w.TestStart), "window %d: test range non-empty", i)

		if i > 0 {
			prev := windows[i-1]
			assert.Equal(t, prev.TestEnd, w.TestStart,
				"window %d: test ranges must be contiguous with no gap", i)
		}
	}

	// Union covers first TestStart → last TestEnd.
	first := windows[0]
	last := windows[len(windows)-1]
	assert.Equal(t, day(90), first.TestStart)
	assert.False(t, last.TestEnd.After(day(365)), "never reads past the dataset max")
}

func TestWindows_AdvanceByTestLength(t *testing.T) {
	windows := domain.Windows(day(0), day(20), 5*24*time.Hour, 3*24*time.Hour)
	require.Len(t, windows, 5) // test ends at days 8, 11, 14, 17, 20

	for i := 1; i < len(windows); i++ {
		assert.Equal(t, 3*24*time.Hour, windows[i].TestStart.Sub(windows[i-1].TestStart))
		assert.Equal(t, 3*24*time.Hour, windows[i].TrainEnd.Sub(windows[i-1].TrainEnd),
			"both boundaries shift by the test length")
	}
}

func TestWindows_DatasetTooShort(t *testing.T) {
	windows := domain.Windows(day(0), day(5), 5*24*time.Hour, 3*24*time.Hour)
	assert.Empty(t, windows)
}

func TestWindow_Contains(t *testing.T) {
	w := domain.WalkForwardWindow{TestStart: day(10), TestEnd: day(20)}

	assert.False(t, w.Contains(day(10)), "test_start itself is excluded")
	assert.True(t, w.Contains(day(11)))
	assert.True(t, w.Contains(day(20)), "test_end is included")
	assert.False(t, w.Contains(day(21)))
}
