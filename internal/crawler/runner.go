package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"consent-crawler/internal/browser"
	"consent-crawler/internal/config"
	"consent-crawler/internal/consent"
	"consent-crawler/internal/models"
)

// CrawlMode selects what a visit does with the consent banner.
type CrawlMode string

const (
	CrawlAccept CrawlMode = "accept"
	CrawlReject CrawlMode = "reject"
	CrawlBlock  CrawlMode = "block"
)

// engineMode maps a crawl mode to the consent action it requests. Block
// mode blocks trackers at the network layer and accepts the banner.
func engineMode(mode CrawlMode) models.Mode {
	if mode == CrawlReject {
		return models.ModeReject
	}
	return models.ModeAccept
}

// Runner executes visits for a site list under a bounded worker pool. Each
// visit owns an independent browser session; the runner itself holds only
// immutable configuration and the compiled keyword sets.
type Runner struct {
	cfg      config.CrawlConfig
	keywords Keywords
	pw       *playwright.Playwright
	logger   *zap.Logger
}

// NewRunner compiles the keyword vocabulary and prepares a runner.
func NewRunner(pw *playwright.Playwright, cfg config.CrawlConfig, words config.KeywordConfig, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	keywords, err := BuildKeywords(words)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, keywords: keywords, pw: pw, logger: logger}, nil
}

// Run crawls every domain under mode. Per-domain failures are recorded and
// logged, never fatal for the rest of the list.
func (r *Runner) Run(ctx context.Context, mode CrawlMode, domains []string) error {
	outputDir := filepath.Join(r.cfg.OutputRoot, "crawl_data_"+string(mode))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	var blocked BlockSet
	if mode == CrawlBlock {
		var err error
		blocked, err = LoadDisconnectBlocklist(r.cfg.BlocklistPath)
		if err != nil {
			return err
		}
		r.logger.Info("loaded blocklist", zap.Int("etld1_domains", len(blocked)))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	total := len(domains)
	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			r.logger.Info("crawling site",
				zap.String("domain", domain),
				zap.Int("index", i+1),
				zap.Int("total", total))
			r.visit(mode, domain, outputDir, blocked)
			return nil
		})
	}
	return g.Wait()
}

// visit runs one recorded session end to end: navigate, settle, screenshot,
// consent policy, screenshot, scroll, and artifact persistence. The session
// is torn down and its cookie-write log persisted regardless of outcome.
func (r *Runner) visit(mode CrawlMode, domain, outputDir string, blocked BlockSet) {
	log := r.logger.With(zap.String("domain", domain), zap.String("mode", string(mode)))
	result := models.VisitResult{
		Domain:    domain,
		Mode:      engineMode(mode),
		Outcome:   models.ConsentOutcome{Method: models.MethodNone},
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
		if err := writeJSON(filepath.Join(outputDir, domain+"_consent_result.json"), result); err != nil {
			log.Error("saving visit result", zap.Error(err))
		}
	}()

	target, err := targetURL(domain)
	if err != nil {
		log.Error("invalid site list entry", zap.Error(err))
		result.Error = err.Error()
		return
	}

	opts := browser.Options{
		Headless:  r.cfg.Headless,
		UserAgent: r.cfg.UserAgent,
		Locale:    r.cfg.Locale,
		HarPath:   filepath.Join(outputDir, domain+".har"),
	}
	if r.cfg.RecordVideo {
		opts.VideoDir = outputDir
	}
	if mode == CrawlBlock {
		opts.BlockHost = blocked.MatchesHost
	}

	session, err := browser.NewSession(r.pw, opts, log)
	if err != nil {
		log.Error("starting browser session", zap.Error(err))
		result.Error = err.Error()
		return
	}
	defer func() {
		if writes, werr := session.CookieWrites(); werr != nil {
			log.Warn("reading cookie writes", zap.Error(werr))
		} else if err := writeJSON(
			filepath.Join(outputDir, domain+"_cookie_writes.json"),
			models.CookieWriteLog{Domain: domain, Writes: writes},
		); err != nil {
			log.Error("saving cookie writes", zap.Error(err))
		}
		session.Close()
	}()

	status, err := session.Navigate(target, r.cfg.NavigationTimeoutMs)
	if err != nil {
		log.Error("navigation failed", zap.Error(err))
		result.Error = err.Error()
		return
	}
	log.Info("page loaded", zap.Int("status", status))

	session.Wait(float64(r.cfg.PageSettleSeconds) * 1000)

	if err := session.Screenshot(filepath.Join(outputDir, domain+"_pre_consent.png"), 10000); err != nil {
		log.Warn("pre-consent screenshot failed", zap.Error(err))
	}

	policy := NewPolicy(consent.NewResolver(log), consent.NewClassifier(log), r.keywords, log)
	outcome, branch := policy.Apply(session.Page(), engineMode(mode))
	result.Outcome = outcome
	result.Branch = branch
	log.Info("consent handling finished",
		zap.Bool("resolved", outcome.Resolved),
		zap.String("method", string(outcome.Method)),
		zap.String("branch", string(branch)))

	session.Wait(float64(r.cfg.PostConsentSeconds) * 1000)

	if err := session.Screenshot(filepath.Join(outputDir, domain+"_post_consent.png"), 10000); err != nil {
		log.Warn("post-consent screenshot failed", zap.Error(err))
	}

	if err := session.ScrollToBottom(); err != nil {
		log.Warn("scroll to bottom failed", zap.Error(err))
	}
	session.Wait(2000)

	log.Info("visit completed")
}

// targetURL builds the visit URL for a site list entry. Entries are bare
// domains as a rule but a full URL is honored; anything that does not parse
// to a usable host is rejected before a browser session is spent on it.
func targetURL(domain string) (string, error) {
	target := domain
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return "", &models.InvalidURLError{URL: domain, Err: err}
	}
	if parsed.Hostname() == "" {
		return "", &models.InvalidURLError{URL: domain, Err: errors.New("missing host")}
	}
	return target, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
