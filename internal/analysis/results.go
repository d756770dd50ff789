package analysis

import (
	"bufio"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestRecord is one observed HTTP exchange from a visit's HAR.
type RequestRecord struct {
	URL                string              `json:"url"`
	Method             string              `json:"method"`
	Status             int                 `json:"status"`
	TimeMs             float64             `json:"time_ms"`
	ResourceType       string              `json:"resource_type,omitempty"`
	ServerIP           string              `json:"server_ip,omitempty"`
	ThirdParty         bool                `json:"is_third_party"`
	DisconnectCategory string              `json:"disconnect_category,omitempty"`
	DisconnectEntity   string              `json:"disconnect_entity,omitempty"`
	Blocked            bool                `json:"blocked"`
	RedirectURL        string              `json:"redirect_url,omitempty"`
	RequestHeaders     map[string][]string `json:"request_headers,omitempty"`
	ResponseHeaders    map[string][]string `json:"response_headers,omitempty"`
	RequestCookies     []HARCookie         `json:"request_cookies,omitempty"`
	ResponseCookies    []HARCookie         `json:"response_cookies,omitempty"`
}

// Summary aggregates a visit's traffic.
type Summary struct {
	TotalRequests      int            `json:"total_requests"`
	ThirdPartyRequests int            `json:"third_party_requests"`
	BlockedRequests    int            `json:"blocked_requests"`
	FailedRequests     int            `json:"failed_requests"`
	SetCookieResponses int            `json:"set_cookie_responses"`
	ByCategory         map[string]int `json:"by_category,omitempty"`
	ByResourceType     map[string]int `json:"by_resource_type,omitempty"`
	DistinctHosts      int            `json:"distinct_hosts"`
}

// Artifacts lists the per-visit files the crawl wrote alongside the HAR.
type Artifacts struct {
	PreConsentScreenshot  string `json:"pre_consent_screenshot,omitempty"`
	PostConsentScreenshot string `json:"post_consent_screenshot,omitempty"`
	CookieWriteLog        string `json:"cookie_write_log,omitempty"`
	ConsentResult         string `json:"consent_result,omitempty"`
}

// Record is the JSONL row produced for each visit.
type Record struct {
	Domain        string            `json:"domain"`
	ConsentAction string            `json:"consent_action"`
	HARPath       string            `json:"har_path"`
	VisitStart    string            `json:"visit_start,omitempty"`
	VisitEnd      string            `json:"visit_end,omitempty"`
	CMPVendor     string            `json:"cmp_vendor,omitempty"`
	Site          map[string]string `json:"site,omitempty"`
	Summary       Summary           `json:"summary"`
	Requests      []RequestRecord   `json:"requests"`
	Artifacts     Artifacts         `json:"artifacts"`
}

// consentActions maps a crawl output directory's mode suffix to the action
// label recorded per visit.
var consentActions = map[string]string{
	"accept": "accept_all",
	"reject": "reject_all",
	"block":  "disconnect_blocklist",
}

// Transformer turns crawl HAR archives into analysis records.
type Transformer struct {
	catalog    map[string]map[string]string
	categories map[string]string
	entities   map[string]string
	logger     *zap.Logger
}

// NewTransformer builds a transformer. Any lookup map may be nil, in which
// case the corresponding record fields stay empty.
func NewTransformer(catalog map[string]map[string]string, categories, entities map[string]string, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{catalog: catalog, categories: categories, entities: entities, logger: logger}
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// detectMode extracts the crawl mode from a HAR path's enclosing
// crawl_data_<mode> directory.
func detectMode(harPath string) string {
	for dir := filepath.Dir(harPath); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		name := filepath.Base(dir)
		if strings.HasPrefix(name, "crawl_data_") {
			return strings.TrimPrefix(name, "crawl_data_")
		}
	}
	return ""
}

// visitBounds returns the earliest request start and the latest request
// finish (start plus entry duration) across the entries. Entries with an
// unparseable timestamp are skipped.
func visitBounds(entries []HAREntry) (string, string) {
	var start, end time.Time
	for i := range entries {
		ts, err := time.Parse(time.RFC3339Nano, entries[i].StartedDateTime)
		if err != nil {
			continue
		}
		if start.IsZero() || ts.Before(start) {
			start = ts
		}
		finished := ts
		if entries[i].Time > 0 {
			finished = ts.Add(time.Duration(entries[i].Time * float64(time.Millisecond)))
		}
		if end.IsZero() || finished.After(end) {
			end = finished
		}
	}
	if start.IsZero() {
		return "", ""
	}
	const stamp = "2006-01-02T15:04:05.000Z07:00"
	return start.UTC().Format(stamp), end.UTC().Format(stamp)
}

// TransformVisit builds the analysis record for one visit's HAR file.
func (t *Transformer) TransformVisit(harPath string) (*Record, error) {
	har, err := LoadHAR(harPath)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(harPath)
	domain := NormalizeDomain(strings.TrimSuffix(base, filepath.Ext(base)))
	mode := detectMode(harPath)

	record := &Record{
		Domain:        domain,
		ConsentAction: consentActions[mode],
		HARPath:       harPath,
	}
	record.VisitStart, record.VisitEnd = visitBounds(har.Log.Entries)

	if t.catalog != nil {
		record.Site = t.catalog[domain]
	}

	hosts := make(map[string]struct{})
	record.Summary.ByCategory = make(map[string]int)
	record.Summary.ByResourceType = make(map[string]int)

	for i := range har.Log.Entries {
		entry := &har.Log.Entries[i]
		host := hostOf(entry.Request.URL)
		if host != "" {
			hosts[host] = struct{}{}
		}

		req := RequestRecord{
			URL:             entry.Request.URL,
			Method:          entry.Request.Method,
			Status:          entry.Response.Status,
			TimeMs:          entry.Time,
			ResourceType:    entry.ResourceType,
			ServerIP:        entry.ServerIPAddress,
			ThirdParty:      isThirdParty(host, domain),
			Blocked:         entry.WasAborted,
			RedirectURL:     entry.Response.RedirectURL,
			RequestHeaders:  headersToMap(entry.Request.Headers),
			ResponseHeaders: headersToMap(entry.Response.Headers),
			RequestCookies:  entry.Request.Cookies,
			ResponseCookies: entry.Response.Cookies,
		}
		req.DisconnectCategory = lookupSuffix(host, t.categories)
		req.DisconnectEntity = lookupSuffix(host, t.entities)

		record.Summary.TotalRequests++
		if req.ThirdParty {
			record.Summary.ThirdPartyRequests++
		}
		if req.Blocked {
			record.Summary.BlockedRequests++
		}
		if entry.Response.Status == 0 || entry.Response.Error != "" {
			record.Summary.FailedRequests++
		}
		if len(req.ResponseHeaders["set-cookie"]) > 0 {
			record.Summary.SetCookieResponses++
		}
		if req.DisconnectCategory != "" {
			record.Summary.ByCategory[req.DisconnectCategory]++
		}
		if req.ResourceType != "" {
			record.Summary.ByResourceType[req.ResourceType]++
		}

		record.Requests = append(record.Requests, req)
	}
	record.Summary.DistinctHosts = len(hosts)
	record.CMPVendor = detectCMPFromEntries(har.Log.Entries, domain)
	record.Artifacts = collectArtifacts(harPath, domain)

	return record, nil
}

// collectArtifacts records the sibling crawl outputs that exist on disk.
func collectArtifacts(harPath, domain string) Artifacts {
	dir := filepath.Dir(harPath)
	pick := func(suffix string) string {
		p := filepath.Join(dir, domain+suffix)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	return Artifacts{
		PreConsentScreenshot:  pick("_pre_consent.png"),
		PostConsentScreenshot: pick("_post_consent.png"),
		CookieWriteLog:        pick("_cookie_writes.json"),
		ConsentResult:         pick("_consent_result.json"),
	}
}

// FindHARFiles walks the given crawl output roots and returns every .har
// file, sorted for stable output. Missing roots are skipped.
func FindHARFiles(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".har" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// WriteResults transforms every HAR under the roots and appends one JSON
// line per visit to the output path. Visits that fail to parse are logged
// and skipped.
func (t *Transformer) WriteResults(roots []string, outPath string) (int, error) {
	files, err := FindHARFiles(roots)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)

	written := 0
	for _, file := range files {
		record, err := t.TransformVisit(file)
		if err != nil {
			t.logger.Warn("skipping unreadable archive", zap.String("path", file), zap.Error(err))
			continue
		}
		if err := encoder.Encode(record); err != nil {
			return written, err
		}
		written++
	}
	if err := writer.Flush(); err != nil {
		return written, err
	}
	return written, nil
}
