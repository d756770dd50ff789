// Package consent implements the consent action resolution engine: keyword
// matching, button candidate scoring, cross-frame heuristic search, the
// multi-step reject dialog flow, and the banner/affordance classifier.
//
// The engine borrows element handles from the browser collaborator through
// the interfaces below and never persists a handle across navigations. Every
// interaction is bounded; timeouts and stale contexts are recovered locally
// and surface only as an unresolved outcome.
package consent

import (
	"regexp"
	"time"
)

// Element is a borrowed handle to one interactive control inside a single
// document context.
type Element interface {
	// Visible reports whether the element is visible within timeout,
	// failing closed to false when the check times out.
	Visible(timeout time.Duration) bool

	// Text returns the element's inner text.
	Text(timeout time.Duration) (string, error)

	// Click activates the element.
	Click(timeout time.Duration) error
}

// DocumentContext is one queryable document: the main page or one nested
// frame. Consent widgets are frequently rendered inside an iframe, so each
// context is searched independently.
type DocumentContext interface {
	// Name identifies the context for logging.
	Name() string

	// QueryAll returns every element matching selector, in DOM order.
	QueryAll(selector string) ([]Element, error)

	// BySelector returns a handle to the first element matching selector.
	// The handle may point at nothing; Visible fails closed in that case.
	BySelector(selector string) Element

	// ByRole returns the first element with the given ARIA role whose
	// accessible name matches name, or nil.
	ByRole(role string, name *regexp.Regexp) Element

	// ByRoleWithin is like ByRole but scoped to the first element matching
	// the container selector.
	ByRoleWithin(container, role string, name *regexp.Regexp) Element

	// Evaluate runs a read-only script in the context and returns its
	// JSON-compatible result.
	Evaluate(script string) (any, error)
}

// Page is the top-level document plus its nested frames in DOM order.
type Page interface {
	DocumentContext

	URL() string
	Frames() []DocumentContext
}

// contexts returns the main document followed by every nested frame, the
// order candidate ranking ties are broken in.
func contexts(page Page) []DocumentContext {
	out := make([]DocumentContext, 0, 1+len(page.Frames()))
	out = append(out, page)
	out = append(out, page.Frames()...)
	return out
}
