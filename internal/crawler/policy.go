// Package crawler sequences consent resolution into complete crawl visits:
// the policy controller that picks fallback paths, the per-domain visit
// runner with its recorded artifacts, site-list loading, and the Disconnect
// blocklist for block mode.
package crawler

import (
	"go.uber.org/zap"

	"consent-crawler/internal/config"
	"consent-crawler/internal/consent"
	"consent-crawler/internal/models"
)

// Keywords holds the compiled keyword sets for one crawl. Built once;
// Settings, Save, and Essentials stay nil when their vocabulary is empty,
// which disables the multi-step flow and the essentials fallback
// respectively.
type Keywords struct {
	Accept     *consent.KeywordSet
	Reject     *consent.KeywordSet
	Settings   *consent.KeywordSet
	Save       *consent.KeywordSet
	Essentials *consent.KeywordSet
}

// BuildKeywords compiles the vocabulary. Accept and reject are always
// required; the rest are optional.
func BuildKeywords(cfg config.KeywordConfig) (Keywords, error) {
	var kw Keywords
	var err error

	if kw.Accept, err = consent.NewKeywordSet(cfg.Accept()); err != nil {
		return Keywords{}, err
	}
	if kw.Reject, err = consent.NewKeywordSet(cfg.Reject()); err != nil {
		return Keywords{}, err
	}
	if words := cfg.Settings(); len(words) > 0 {
		if kw.Settings, err = consent.NewKeywordSet(words); err != nil {
			return Keywords{}, err
		}
	}
	if words := cfg.Save(); len(words) > 0 {
		if kw.Save, err = consent.NewKeywordSet(words); err != nil {
			return Keywords{}, err
		}
	}
	if words := cfg.EssentialsOnly(); len(words) > 0 {
		if kw.Essentials, err = consent.NewKeywordSet(words); err != nil {
			return Keywords{}, err
		}
	}
	return kw, nil
}

// Resolver is the consent engine surface the policy drives.
type Resolver interface {
	Resolve(page consent.Page, mode models.Mode, sets consent.KeywordSets) models.ConsentOutcome
}

// Classifier answers the affordance queries the policy falls back on.
type Classifier interface {
	BannerPresent(page consent.Page) bool
	ControlAvailable(page consent.Page, set *consent.KeywordSet) bool
	SubscribeAvailable(page consent.Page) bool
}

// Policy sequences resolution and fallback for one visit and reports which
// branch was taken, so a true reject stays distinguishable from a forced
// accept downstream.
type Policy struct {
	resolver   Resolver
	classifier Classifier
	keywords   Keywords
	logger     *zap.Logger
}

// NewPolicy wires a policy controller.
func NewPolicy(resolver Resolver, classifier Classifier, keywords Keywords, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{resolver: resolver, classifier: classifier, keywords: keywords, logger: logger}
}

// Apply runs the protocol for mode against the page.
func (p *Policy) Apply(page consent.Page, mode models.Mode) (models.ConsentOutcome, models.Branch) {
	if mode == models.ModeReject {
		return p.applyReject(page)
	}
	return p.applyAccept(page, mode)
}

func (p *Policy) applyAccept(page consent.Page, mode models.Mode) (models.ConsentOutcome, models.Branch) {
	set := p.keywords.Accept
	if mode == models.ModeEssentialsOnly && p.keywords.Essentials != nil {
		set = p.keywords.Essentials
	}

	outcome := p.resolver.Resolve(page, mode, consent.KeywordSets{Action: set})
	if outcome.Resolved {
		return outcome, models.BranchResolved
	}
	if !p.classifier.BannerPresent(page) {
		p.logger.Info("no consent banner detected, auto-accept site", zap.String("url", page.URL()))
		return outcome, models.BranchAutoAcceptSite
	}
	return outcome, models.BranchNoActionableControl
}

// applyReject tries a true reject and, when the page offers no reject
// control, picks the least-consenting fallback the banner allows.
func (p *Policy) applyReject(page consent.Page) (models.ConsentOutcome, models.Branch) {
	outcome := p.resolver.Resolve(page, models.ModeReject, consent.KeywordSets{
		Action:   p.keywords.Reject,
		Settings: p.keywords.Settings,
		Save:     p.keywords.Save,
	})
	if outcome.Resolved {
		return outcome, models.BranchResolved
	}

	subscribe := p.classifier.SubscribeAvailable(page)
	acceptAvailable := p.classifier.ControlAvailable(page, p.keywords.Accept)

	if subscribe && acceptAvailable {
		// A subscribe-gated banner: forcing an accept here would corrupt
		// the reject-mode data, so no action is taken.
		p.logger.Warn("subscribe-gated banner, no fallback attempted", zap.String("url", page.URL()))
		return outcome, models.BranchSubscribeGated
	}

	banner := p.classifier.BannerPresent(page)
	if banner && acceptAvailable {
		if p.keywords.Essentials != nil && p.classifier.ControlAvailable(page, p.keywords.Essentials) {
			if out := p.resolver.Resolve(page, models.ModeEssentialsOnly, consent.KeywordSets{
				Action: p.keywords.Essentials,
			}); out.Resolved {
				p.logger.Warn("accepted essential cookies only as fallback", zap.String("url", page.URL()))
				return out, models.BranchFallbackEssentials
			}
		}

		if out := p.resolver.Resolve(page, models.ModeAccept, consent.KeywordSets{
			Action: p.keywords.Accept,
		}); out.Resolved {
			p.logger.Warn("accepted all cookies as fallback", zap.String("url", page.URL()))
			return out, models.BranchFallbackAcceptAll
		}
		return outcome, models.BranchNoActionableControl
	}

	if !banner {
		p.logger.Info("no consent banner detected, auto-accept site", zap.String("url", page.URL()))
		return outcome, models.BranchAutoAcceptSite
	}

	p.logger.Warn("banner present but no actionable control", zap.String("url", page.URL()))
	return outcome, models.BranchNoActionableControl
}
