package consent

import (
	"regexp"
	"strings"

	"consent-crawler/internal/models"
)

// InteractiveControls is the broad query a survey pass enumerates: buttons,
// link/div elements carrying a button role, and submit/button inputs.
const InteractiveControls = "button, a[role='button'], div[role='button'], input[type='submit'], input[type='button']"

// Vendor-specific selectors for popular consent platforms. CMP vendors are a
// small closed set, and a direct selector is far faster and more reliable
// than heuristic scanning.
var acceptSelectors = []string{
	// OneTrust
	"#onetrust-accept-btn-handler", "button#onetrust-accept-btn-handler",
	// Cookiebot
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	"a#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	// Cookie Information
	"#cookie-information-template-wrapper button.cookie-information-accept-all",
	// Termly
	"#termly-code-snippet-support button[data-tid='banner-accept']",
	// Didomi
	"#didomi-notice-agree-button", "button#didomi-notice-agree-button",
	// Osano
	".osano-cm-accept-all", "button.osano-cm-accept-all",
	// TrustArc
	"#truste-consent-button",
	// Quantcast
	"button[data-testid='qc-cmp2-ui-button'][mode='primary']",
}

var rejectSelectors = []string{
	// OneTrust
	"#onetrust-reject-all-handler", "button#onetrust-reject-all-handler",
	// Cookiebot
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinDeclineAll",
	"a#CybotCookiebotDialogBodyLevelButtonLevelOptinDeclineAll",
	// Didomi
	"#didomi-notice-disagree-button", "button#didomi-notice-disagree-button",
	// Osano
	".osano-cm-deny-all", "button.osano-cm-deny-all",
	// TrustArc
	"#truste-consent-required",
	// Quantcast
	"button[data-testid='qc-cmp2-ui-button'][mode='secondary']",
	// Cookie Information
	"#cookie-information-template-wrapper button.cookie-information-reject-all",
}

// KnownSelectors returns the ordered vendor selector table for mode. No
// vendor ships a dedicated essentials-only control, so that mode goes
// straight to heuristic search.
func KnownSelectors(mode models.Mode) []string {
	switch mode {
	case models.ModeAccept:
		return acceptSelectors
	case models.ModeReject:
		return rejectSelectors
	default:
		return nil
	}
}

// CMPContainerSelectors locate the banner containers of known vendors.
var CMPContainerSelectors = []string{
	"#onetrust-banner-sdk",
	"#onetrust-consent-sdk",
	"#CybotCookiebotDialog",
	"#didomi-host",
	"#didomi-notice",
	".osano-cm-dialog",
	"#truste-consent-track",
	".qc-cmp2-container",
	"#termly-code-snippet-support",
	"#cookie-information-template-wrapper",
	".cc-window",
}

// genericBannerSelectors catch home-grown banners by attribute substring.
var genericBannerSelectors = []string{
	`[id*="cookie" i]`,
	`[class*="cookie" i]`,
	`[id*="consent" i]`,
	`[class*="consent" i]`,
	`[id*="gdpr" i]`,
	`[class*="gdpr" i]`,
	`[id*="privacy" i]`,
	`[class*="privacy" i]`,
}

// BannerSelectors is the full container probe order: known vendors first,
// then the generic patterns.
func BannerSelectors() []string {
	out := make([]string, 0, len(CMPContainerSelectors)+len(genericBannerSelectors))
	out = append(out, CMPContainerSelectors...)
	out = append(out, genericBannerSelectors...)
	return out
}

// subscribePhrases cover subscribe-gated banners across the locales seen in
// crawls. Matching is restricted to controls inside a detected consent
// container so that unrelated newsletter calls-to-action do not count.
var subscribePhrases = []string{
	"subscribe",
	"subscribe now",
	"subscribe to continue",
	"sign up",
	"abonnieren",
	"jetzt abonnieren",
	"s'abonner",
	"je m'abonne",
	"abonnez-vous",
	"abonneren",
	"suscríbete",
	"suscribirse",
	"abbonati",
	"prenumerera",
	"tilaa",
}

// SubscribePattern is the whole-word accessible-name pattern built from the
// subscribe phrase list.
var SubscribePattern = compilePhrasePattern(subscribePhrases)

func compilePhrasePattern(phrases []string) *regexp.Regexp {
	escaped := make([]string, len(phrases))
	for i, p := range phrases {
		escaped[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
}
