package analysis

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
)

// NormalizeDomain reduces a site identifier (domain, URL, or visit id) to a
// bare lowercase host without the www prefix.
func NormalizeDomain(domain string) string {
	if domain == "" {
		return ""
	}
	domain = strings.ToLower(domain)
	raw := domain
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	host := domain
	if parsed, err := url.Parse(raw); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	}
	return strings.TrimPrefix(host, "www.")
}

// LoadSiteCatalog reads the site list CSV into a map keyed by normalized
// domain, preserving every column for the record's site metadata.
func LoadSiteCatalog(path string) (map[string]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	catalog := make(map[string]map[string]string)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		entry := make(map[string]string, len(header))
		for i, value := range row {
			if i < len(header) {
				entry[header[i]] = strings.TrimSpace(value)
			}
		}

		domain := ""
		for _, col := range []string{"domain", "site", "url", "homepage"} {
			if entry[col] != "" {
				domain = entry[col]
				break
			}
		}
		if domain == "" {
			continue
		}
		if normalized := NormalizeDomain(domain); normalized != "" {
			catalog[normalized] = entry
		}
	}
	return catalog, nil
}

// LoadDisconnectCategories builds a host suffix -> category lookup from
// Disconnect's services.json. Both entity keys and domain leaves are
// registered, matching how the list mixes the two.
func LoadDisconnectCategories(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Categories map[string]json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	lookup := make(map[string]string)
	for category, raw := range payload.Categories {
		registerDomains(raw, category, lookup)
	}
	return lookup, nil
}

// registerDomains walks an arbitrarily nested Disconnect payload and records
// every domain-shaped string under the given label.
func registerDomains(raw json.RawMessage, label string, lookup map[string]string) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		register(asString, label, lookup)
		return
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		for _, item := range asList {
			registerDomains(item, label, lookup)
		}
		return
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err == nil {
		for key, item := range asMap {
			register(key, label, lookup)
			registerDomains(item, label, lookup)
		}
	}
}

func register(value, label string, lookup map[string]string) {
	domain := NormalizeDomain(value)
	if domain != "" && strings.Contains(domain, ".") {
		lookup[domain] = label
	}
}

// LoadDisconnectEntities builds a host suffix -> entity-name lookup from an
// entities.json file.
func LoadDisconnectEntities(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Entities map[string]struct {
			Domains    []string `json:"domains"`
			Properties []string `json:"properties"`
			Resources  []string `json:"resources"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	lookup := make(map[string]string)
	for name, entity := range payload.Entities {
		for _, group := range [][]string{entity.Domains, entity.Properties, entity.Resources} {
			for _, domain := range group {
				domain = strings.ToLower(domain)
				if domain == "" {
					continue
				}
				if _, exists := lookup[domain]; !exists {
					lookup[domain] = name
				}
			}
		}
	}
	return lookup, nil
}

// lookupSuffix resolves host against a suffix table, trying the host itself
// and then each parent domain.
func lookupSuffix(host string, table map[string]string) string {
	if host == "" || len(table) == 0 {
		return ""
	}
	parts := strings.Split(strings.ToLower(host), ".")
	for i := range parts {
		if label, ok := table[strings.Join(parts[i:], ".")]; ok {
			return label
		}
	}
	return ""
}

// isThirdParty reports whether host falls outside the first party domain or
// any of its subdomains.
func isThirdParty(host, firstParty string) bool {
	if host == "" || firstParty == "" {
		return false
	}
	host = strings.ToLower(host)
	firstParty = strings.ToLower(firstParty)
	return host != firstParty && !strings.HasSuffix(host, "."+firstParty)
}
