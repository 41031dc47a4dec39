package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cutoff = time.Date(2013, 7, 1, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedWindow(now time.Time) Window {
	return Window{Cutoff: cutoff, Now: func() time.Time { return now }}
}

func TestBackwardCutoffBoundary(t *testing.T) {
	w := fixedWindow(day(2025, 1, 1))
	page := w.Backward([]Fixture{
		{ID: "1", Date: day(2013, 6, 30)},
		{ID: "2", Date: day(2013, 7, 1)},
	})

	assert.True(t, page.CrossedCutoff)
	require.Len(t, page.Fixtures, 1)
	assert.Equal(t, MatchID("2"), page.Fixtures[0].ID)
}

func TestBackwardWithinRange(t *testing.T) {
	w := fixedWindow(day(2025, 1, 1))
	page := w.Backward([]Fixture{
		{ID: "1", Date: day(2014, 1, 1)},
		{ID: "2", Date: day(2014, 1, 5)},
	})

	assert.False(t, page.CrossedCutoff)
	assert.Len(t, page.Fixtures, 2)
	oldest, ok := page.Oldest()
	require.True(t, ok)
	assert.Equal(t, MatchID("1"), oldest)
}

func TestCurrentSeasonStopsAtFirstFutureFixture(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	w := fixedWindow(now)
	page := w.CurrentSeason([]Fixture{
		{ID: "1", Date: day(2025, 3, 1)},
		{ID: "2", Date: day(2025, 3, 10)}, // today still counts
		{ID: "3", Date: day(2025, 3, 11)},
		{ID: "4", Date: day(2025, 3, 2)}, // never reached
	})

	assert.True(t, page.UpToDate)
	require.Len(t, page.Fixtures, 2)
	newest, _ := page.Newest()
	assert.Equal(t, MatchID("2"), newest)
}

func TestForwardFlagsBothBoundaries(t *testing.T) {
	w := fixedWindow(day(2025, 3, 10))
	page := w.Forward([]Fixture{
		{ID: "0", Date: day(2013, 6, 1)},
		{ID: "1", Date: day(2025, 3, 1)},
		{ID: "2", Date: day(2025, 4, 1)},
	})

	assert.True(t, page.CrossedCutoff)
	assert.True(t, page.UpToDate)
	require.Len(t, page.Fixtures, 1)
	assert.Equal(t, MatchID("1"), page.Fixtures[0].ID)
}

func TestForwardEmptyPage(t *testing.T) {
	page := fixedWindow(day(2025, 3, 10)).Forward(nil)

	assert.False(t, page.UpToDate)
	_, ok := page.Newest()
	assert.False(t, ok)
}

func TestParseDateTruncatesTime(t *testing.T) {
	d, err := ParseDate("2024-08-16T19:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 8, 16), d)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}
