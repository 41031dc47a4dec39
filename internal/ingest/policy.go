package ingest

import (
	"fmt"

	"github.com/albapepper/gdtracker/internal/provider"
)

// continueBackward decides whether to fetch an older page. Paging ends once
// the cutoff was crossed. A page that neither crosses the cutoff nor moves
// the cursor further back leaves the history incomplete.
func continueBackward(page provider.Page, cursor provider.MatchID) (provider.MatchID, bool, error) {
	if page.CrossedCutoff {
		return "", false, nil
	}
	next, ok := page.Oldest()
	if !ok {
		return "", false, fmt.Errorf("empty page before %s: %w", cursor, ErrBackfillIncomplete)
	}
	if next == cursor {
		return "", false, fmt.Errorf("cursor stuck at %s: %w", cursor, ErrBackfillIncomplete)
	}
	return next, true, nil
}

// continueForward decides whether to fetch a newer page. Paging stops when
// the present was reached, the page was empty, or the cursor did not move.
func continueForward(page provider.Page, cursor provider.MatchID) (provider.MatchID, bool) {
	if page.UpToDate {
		return "", false
	}
	next, ok := page.Newest()
	if !ok || next == cursor {
		return "", false
	}
	return next, true
}
