package analysis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type cmpVendor struct {
	Name      string
	Selectors []string
}

// cmpVendors maps consent platform vendors to DOM markers their embeds leave
// in the page. Order matters: the first vendor with a match wins.
var cmpVendors = []cmpVendor{
	{"OneTrust", []string{"#onetrust-banner-sdk", "#onetrust-consent-sdk", "script[src*='onetrust']", "script[src*='cookielaw.org']"}},
	{"Cookiebot", []string{"#CybotCookiebotDialog", "script[src*='cookiebot.com']", "script[id='Cookiebot']"}},
	{"Didomi", []string{"#didomi-notice", "#didomi-host", "script[src*='didomi.io']"}},
	{"Osano", []string{".osano-cm-dialog", "script[src*='osano.com']"}},
	{"TrustArc", []string{"#truste-consent-track", "script[src*='trustarc.com']", "script[src*='truste.com']"}},
	{"Quantcast", []string{"#qc-cmp2-container", "script[src*='quantcast']"}},
	{"Termly", []string{"#termly-code-snippet-support", "script[src*='termly.io']"}},
	{"Cookie Information", []string{"#coiOverlay", "script[src*='cookieinformation.com']"}},
}

// DetectCMP parses an HTML document and reports the first consent platform
// vendor whose markers appear in it, or an empty string.
func DetectCMP(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	for _, vendor := range cmpVendors {
		for _, selector := range vendor.Selectors {
			if doc.Find(selector).Length() > 0 {
				return vendor.Name
			}
		}
	}
	return ""
}

// detectCMPFromEntries runs CMP detection over the first-party HTML documents
// captured in a visit's HAR entries.
func detectCMPFromEntries(entries []HAREntry, firstParty string) string {
	for i := range entries {
		entry := &entries[i]
		if !strings.Contains(strings.ToLower(entry.Response.Content.MimeType), "text/html") {
			continue
		}
		host := hostOf(entry.Request.URL)
		if isThirdParty(host, firstParty) {
			continue
		}
		if vendor := DetectCMP(entry.Response.Content.Body()); vendor != "" {
			return vendor
		}
	}
	return ""
}
