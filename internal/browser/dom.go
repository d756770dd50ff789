package browser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"

	"consent-crawler/internal/consent"
	"consent-crawler/internal/models"
)

// element adapts a playwright locator to the engine's Element capability.
// Visibility fails closed: an absent element, a detached frame, or a timed
// out check all report not visible.
type element struct {
	loc playwright.Locator
}

func (e *element) Visible(timeout time.Duration) bool {
	err := e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (e *element) Text(timeout time.Duration) (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return "", &models.InteractionTimeoutError{
			Operation: "inner text",
			Timeout:   timeout.String(),
			Err:       err,
		}
	}
	return text, nil
}

func (e *element) Click(timeout time.Duration) error {
	if err := e.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return &models.InteractionTimeoutError{
			Operation: "click",
			Timeout:   timeout.String(),
			Err:       err,
		}
	}
	return nil
}

func wrapLocators(locs []playwright.Locator) []consent.Element {
	out := make([]consent.Element, len(locs))
	for i, loc := range locs {
		out[i] = &element{loc: loc}
	}
	return out
}

// PageAdapter exposes a live playwright page as the engine's Page
// capability: the main document plus its nested frames in DOM order.
type PageAdapter struct {
	page playwright.Page
}

// NewPageAdapter wraps page. The adapter holds no state beyond the page
// reference and must not outlive a navigation's handles.
func NewPageAdapter(page playwright.Page) *PageAdapter {
	return &PageAdapter{page: page}
}

func (a *PageAdapter) Name() string { return "main" }

func (a *PageAdapter) URL() string { return a.page.URL() }

func (a *PageAdapter) QueryAll(selector string) ([]consent.Element, error) {
	all, err := a.page.Locator(selector).All()
	if err != nil {
		return nil, &models.ContextUnavailableError{Context: "main", Err: err}
	}
	return wrapLocators(all), nil
}

func (a *PageAdapter) BySelector(selector string) consent.Element {
	return &element{loc: a.page.Locator(selector).First()}
}

func (a *PageAdapter) ByRole(role string, name *regexp.Regexp) consent.Element {
	loc := a.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{Name: name})
	return &element{loc: loc.First()}
}

func (a *PageAdapter) ByRoleWithin(container, role string, name *regexp.Regexp) consent.Element {
	loc := a.page.Locator(container).First().
		GetByRole(playwright.AriaRole(role), playwright.LocatorGetByRoleOptions{Name: name})
	return &element{loc: loc.First()}
}

func (a *PageAdapter) Evaluate(script string) (any, error) {
	return a.page.Evaluate(script)
}

func (a *PageAdapter) Frames() []consent.DocumentContext {
	main := a.page.MainFrame()
	var out []consent.DocumentContext
	for i, f := range a.page.Frames() {
		if f == main {
			continue
		}
		out = append(out, &frameContext{frame: f, name: fmt.Sprintf("frame[%d]", i)})
	}
	return out
}

// frameContext adapts one nested frame. Frames disappear when the page
// rerenders, so every call tolerates a torn-down target.
type frameContext struct {
	frame playwright.Frame
	name  string
}

func (f *frameContext) Name() string { return f.name }

func (f *frameContext) QueryAll(selector string) ([]consent.Element, error) {
	all, err := f.frame.Locator(selector).All()
	if err != nil {
		return nil, &models.ContextUnavailableError{Context: f.name, Err: err}
	}
	return wrapLocators(all), nil
}

func (f *frameContext) BySelector(selector string) consent.Element {
	return &element{loc: f.frame.Locator(selector).First()}
}

func (f *frameContext) ByRole(role string, name *regexp.Regexp) consent.Element {
	loc := f.frame.GetByRole(playwright.AriaRole(role), playwright.FrameGetByRoleOptions{Name: name})
	return &element{loc: loc.First()}
}

func (f *frameContext) ByRoleWithin(container, role string, name *regexp.Regexp) consent.Element {
	loc := f.frame.Locator(container).First().
		GetByRole(playwright.AriaRole(role), playwright.LocatorGetByRoleOptions{Name: name})
	return &element{loc: loc.First()}
}

func (f *frameContext) Evaluate(script string) (any, error) {
	return f.frame.Evaluate(script)
}
