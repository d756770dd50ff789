package consent

import (
	"go.uber.org/zap"
)

// Classifier answers yes/no questions about page state after a failed
// resolution. Queries are read-only, side-effect-free, and independent of
// each other; nothing is cached because page state can change between
// calls.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier returns a Classifier logging through logger.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// BannerPresent checks the known CMP container selectors plus the generic
// cookie/consent/gdpr/privacy attribute patterns, in the main document then
// frames, and is true on the first visible hit.
func (c *Classifier) BannerPresent(page Page) bool {
	selectors := BannerSelectors()
	for _, ctx := range contexts(page) {
		for _, selector := range selectors {
			el := ctx.BySelector(selector)
			if el != nil && el.Visible(VisibilityTimeout) {
				c.logger.Debug("consent banner detected",
					zap.String("selector", selector),
					zap.String("context", ctx.Name()))
				return true
			}
		}
	}
	return false
}

// ControlAvailable reports whether any visible control scores above zero
// under set, in the main document or any frame. It backs both the
// accept-available and essentials-only-available affordance queries.
func (c *Classifier) ControlAvailable(page Page, set *KeywordSet) bool {
	for _, ctx := range contexts(page) {
		if len(SurveyCandidates(ctx, set)) > 0 {
			return true
		}
	}
	return false
}

// SubscribeAvailable reports whether a subscribe-style control sits inside a
// detected consent container. The container restriction keeps unrelated
// subscribe calls-to-action elsewhere on the page from counting.
func (c *Classifier) SubscribeAvailable(page Page) bool {
	containers := BannerSelectors()
	for _, ctx := range contexts(page) {
		for _, container := range containers {
			host := ctx.BySelector(container)
			if host == nil || !host.Visible(VisibilityTimeout) {
				continue
			}
			for _, role := range []string{"button", "link"} {
				el := ctx.ByRoleWithin(container, role, SubscribePattern)
				if el != nil && el.Visible(VisibilityTimeout) {
					c.logger.Debug("subscribe control detected in consent container",
						zap.String("container", container),
						zap.String("role", role))
					return true
				}
			}
		}
	}
	return false
}
