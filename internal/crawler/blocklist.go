package crawler

import (
	"encoding/json"
	"os"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Disconnect categories whose domains block mode refuses to contact.
var requiredCategories = map[string]struct{}{
	"Advertising":            {},
	"Analytics":              {},
	"Social":                 {},
	"FingerprintingInvasive": {},
	"FingerprintingGeneral":  {},
}

// BlockSet is the set of blocked registrable domains (eTLD+1).
type BlockSet map[string]struct{}

// MatchesHost reports whether host's registrable domain is blocked.
func (s BlockSet) MatchesHost(host string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[etld1(host)]
	return ok
}

// etld1 reduces a host to its registrable domain, falling back to the bare
// host when the public suffix list has no answer.
func etld1(host string) string {
	host = strings.ToLower(strings.Trim(strings.TrimPrefix(host, "*."), "."))
	if host == "" {
		return ""
	}
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return registrable
	}
	return host
}

// LoadDisconnectBlocklist reads Disconnect's services.json and builds the
// blocked eTLD+1 set. Both published schemas are supported: the
// categories-first layout and the older entities-first layout.
func LoadDisconnectBlocklist(path string) (BlockSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var services map[string]json.RawMessage
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}

	blocked := make(BlockSet)

	// Categories-first layout: {"categories": {"Advertising": ..., ...}}.
	if rawCats, ok := services["categories"]; ok {
		var cats map[string]json.RawMessage
		if err := json.Unmarshal(rawCats, &cats); err != nil {
			return nil, err
		}
		for name, payload := range cats {
			if _, wanted := requiredCategories[name]; !wanted {
				continue
			}
			for _, host := range collectHosts(payload) {
				if d := etld1(host); d != "" {
					blocked[d] = struct{}{}
				}
			}
		}
		return blocked, nil
	}

	// Entities-first layout: {"Google": {"categories": [...], "properties": [...]}}.
	for _, raw := range services {
		var entry struct {
			Categories []string `json:"categories"`
			Properties []string `json:"properties"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		wanted := false
		for _, cat := range entry.Categories {
			if _, ok := requiredCategories[cat]; ok {
				wanted = true
				break
			}
		}
		if !wanted {
			continue
		}
		for _, host := range entry.Properties {
			if d := etld1(host); d != "" {
				blocked[d] = struct{}{}
			}
		}
	}
	return blocked, nil
}

// collectHosts gathers every string leaf from a category payload, which may
// be a list of domains, an entity map of domain lists, or nested variants.
func collectHosts(raw json.RawMessage) []string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []string{asString}
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		var out []string
		for _, item := range asList {
			out = append(out, collectHosts(item)...)
		}
		return out
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err == nil {
		var out []string
		for _, item := range asMap {
			out = append(out, collectHosts(item)...)
		}
		return out
	}

	return nil
}
