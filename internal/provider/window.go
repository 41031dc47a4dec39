package provider

import "time"

// Window applies the date boundaries of the synchronized range to raw
// fixtures. Upstream lists are ascending by date, so the first fixture
// after today ends a page.
type Window struct {
	// Cutoff is the first date collected (inclusive).
	Cutoff time.Time
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// today is the current UTC date at midnight. Fixtures dated today count
// as played.
func (w Window) today() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return TruncateDate(now())
}

// CurrentSeason keeps fixtures until the first one dated after today.
func (w Window) CurrentSeason(raw []Fixture) Page {
	today := w.today()
	var page Page
	for _, f := range raw {
		if f.Date.After(today) {
			page.UpToDate = true
			break
		}
		page.Fixtures = append(page.Fixtures, f)
	}
	return page
}

// Backward drops fixtures earlier than the cutoff and flags the page.
func (w Window) Backward(raw []Fixture) Page {
	var page Page
	for _, f := range raw {
		if f.Date.Before(w.Cutoff) {
			page.CrossedCutoff = true
			continue
		}
		page.Fixtures = append(page.Fixtures, f)
	}
	return page
}

// Forward drops fixtures earlier than the cutoff and stops at the first
// fixture dated after today.
func (w Window) Forward(raw []Fixture) Page {
	today := w.today()
	var page Page
	for _, f := range raw {
		if f.Date.Before(w.Cutoff) {
			page.CrossedCutoff = true
			continue
		}
		if f.Date.After(today) {
			page.UpToDate = true
			break
		}
		page.Fixtures = append(page.Fixtures, f)
	}
	return page
}

// TruncateDate drops the time of day, keeping the UTC calendar date.
func TruncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate reads the date part of an ISO-8601 timestamp such as
// "2024-08-16T19:00:00.000Z".
func ParseDate(s string) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse(time.DateOnly, s)
}
