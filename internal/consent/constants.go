// Package consent timing bounds. Every DOM interaction is a blocking call
// with an explicit short timeout; there is no unbounded wait.
package consent

import "time"

const (
	// VisibilityTimeout bounds the per-element visibility check during a
	// survey pass.
	VisibilityTimeout = 1 * time.Second

	// TextTimeout bounds per-element text extraction.
	TextTimeout = 1 * time.Second

	// KnownSelectorTimeout bounds the visibility probe for each vendor
	// selector. Longer than the survey bound because a hit here ends the
	// whole search.
	KnownSelectorTimeout = 3 * time.Second

	// ClickTimeout bounds clicks on known selectors and multi-step
	// controls.
	ClickTimeout = 3 * time.Second

	// BestCandidateClickTimeout bounds the click on the top heuristic
	// candidate.
	BestCandidateClickTimeout = 5 * time.Second

	// DialogSettleDelay is the fixed wait for a settings dialog to render
	// between multi-step actions.
	DialogSettleDelay = 2 * time.Second
)
