// Package browser owns the Playwright session lifecycle for one visit:
// browser launch, a recording context with the cookie-write hook installed,
// navigation, screenshots, and guaranteed teardown. It adapts the live page
// to the consent engine's document-context interfaces.
package browser

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"consent-crawler/internal/consent"
	"consent-crawler/internal/models"
)

// cookieWriteHook instruments document.cookie before any page script runs,
// logging client-side writes into window.__cookieWrites.
const cookieWriteHook = `(() => {
  const { get, set } = Object.getOwnPropertyDescriptor(Document.prototype, "cookie");
  window.__cookieWrites = [];
  Object.defineProperty(document, "cookie", {
    configurable: true,
    enumerable: true,
    get() { return get.call(document); },
    set(value) {
      try { window.__cookieWrites.push({ value, time: Date.now() }); } catch (_) {}
      return set.call(document, value);
    }
  });
})();`

// Options configures one recorded visit session.
type Options struct {
	Headless  bool
	UserAgent string
	Locale    string

	// HarPath and VideoDir enable network and video recording. Empty
	// disables the respective artifact.
	HarPath  string
	VideoDir string

	// BlockHost, when set, aborts every request whose host it matches.
	BlockHost func(host string) bool
}

// Session is one isolated browser context and its page. Each visit owns an
// independent session; sessions share no mutable state.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *zap.Logger
}

// NewSession launches a browser and builds a recording context with the
// cookie-write hook installed. Callers must Close the session regardless of
// outcome.
func NewSession(pw *playwright.Playwright, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		return nil, err
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
		Locale:    playwright.String(opts.Locale),
	}
	if opts.HarPath != "" {
		ctxOpts.RecordHarPath = playwright.String(opts.HarPath)
	}
	if opts.VideoDir != "" {
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: opts.VideoDir}
	}

	ctx, err := b.NewContext(ctxOpts)
	if err != nil {
		b.Close()
		return nil, err
	}

	if err := ctx.AddInitScript(playwright.Script{Content: playwright.String(cookieWriteHook)}); err != nil {
		ctx.Close()
		b.Close()
		return nil, err
	}

	if opts.BlockHost != nil {
		blocked := opts.BlockHost
		err = ctx.Route("**/*", func(route playwright.Route) {
			host := ""
			if parsed, perr := url.Parse(route.Request().URL()); perr == nil {
				host = parsed.Hostname()
			}
			if host != "" && blocked(host) {
				_ = route.Abort()
				return
			}
			_ = route.Continue()
		})
		if err != nil {
			ctx.Close()
			b.Close()
			return nil, err
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		b.Close()
		return nil, err
	}

	return &Session{browser: b, context: ctx, page: page, logger: logger}, nil
}

// Navigate loads the URL and waits for domcontentloaded, returning the main
// response status.
func (s *Session) Navigate(target string, timeoutMs int) (int, error) {
	resp, err := s.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeoutMs)),
	})
	if err != nil {
		return 0, &models.NavigationError{URL: target, Err: err}
	}
	if resp == nil {
		return 0, &models.NavigationError{URL: target, Err: errors.New("no response")}
	}
	return resp.Status(), nil
}

// Page returns the engine-facing view of the live page.
func (s *Session) Page() consent.Page {
	return NewPageAdapter(s.page)
}

// Screenshot writes a full-page capture to path.
func (s *Session) Screenshot(path string, timeoutMs int) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
		Timeout:  playwright.Float(float64(timeoutMs)),
	})
	return err
}

// ScrollToBottom jumps the viewport to the end of the document so lazy
// content and late trackers load before the HAR is flushed.
func (s *Session) ScrollToBottom() error {
	if err := s.page.Locator("body").WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateAttached,
	}); err != nil {
		return err
	}
	_, err := s.page.Evaluate("window.scrollTo(0, document.body.scrollHeight);")
	return err
}

// Wait pauses the page for ms milliseconds.
func (s *Session) Wait(ms float64) {
	s.page.WaitForTimeout(ms)
}

// CookieWrites reads the client-side cookie writes captured by the init
// hook.
func (s *Session) CookieWrites() ([]models.CookieWrite, error) {
	raw, err := s.page.Evaluate("window.__cookieWrites || []")
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var writes []models.CookieWrite
	if err := json.Unmarshal(data, &writes); err != nil {
		return nil, err
	}
	return writes, nil
}

// Close tears the session down. Closing the context flushes the HAR and
// video recordings, so it must run even after interaction failures.
func (s *Session) Close() {
	if err := s.context.Close(); err != nil {
		s.logger.Warn("closing browser context", zap.Error(err))
	}
	if err := s.browser.Close(); err != nil {
		s.logger.Warn("closing browser", zap.Error(err))
	}
}
