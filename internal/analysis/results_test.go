package analysis

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestHAR(t *testing.T, root, domain string) string {
	t.Helper()
	har := HAR{Log: HARLog{Entries: []HAREntry{
		{
			StartedDateTime: "2026-08-01T10:00:00.000Z",
			Time:            120,
			Request:         HARRequest{Method: "GET", URL: "https://" + domain + "/"},
			Response: HARResponse{
				Status: 200,
				Headers: []HARHeader{
					{Name: "Content-Type", Value: "text/html"},
					{Name: "Set-Cookie", Value: "session=abc"},
				},
				Content: HARContent{
					MimeType: "text/html",
					Text:     `<html><head><script src="https://cdn.cookielaw.org/onetrust.js"></script></head></html>`,
				},
			},
			ResourceType: "document",
		},
		{
			StartedDateTime: "2026-08-01T10:00:01.000Z",
			Time:            45,
			Request:         HARRequest{Method: "GET", URL: "https://ads.adco-tracker.com/pixel.gif"},
			Response:        HARResponse{Status: 200},
			ResourceType:    "image",
		},
		{
			StartedDateTime: "2026-08-01T10:00:02.000Z",
			Request:         HARRequest{Method: "GET", URL: "https://metrics.blockedco.net/beacon"},
			Response:        HARResponse{Status: 0, Error: "net::ERR_FAILED"},
			ResourceType:    "script",
			WasAborted:      true,
		},
	}}}

	data, err := json.Marshal(har)
	require.NoError(t, err)

	dir := filepath.Join(root, "crawl_data_accept")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, domain+".har")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestTransformVisit(t *testing.T) {
	root := t.TempDir()
	harPath := writeTestHAR(t, root, "example.com")

	// A sibling artifact that exists should be picked up; absent ones stay
	// empty.
	shot := filepath.Join(filepath.Dir(harPath), "example.com_pre_consent.png")
	require.NoError(t, os.WriteFile(shot, []byte("png"), 0o644))

	transformer := NewTransformer(
		map[string]map[string]string{"example.com": {"rank": "1"}},
		map[string]string{"adco-tracker.com": "Advertising"},
		map[string]string{"adco-tracker.com": "AdCo"},
		nil,
	)

	record, err := transformer.TransformVisit(harPath)
	require.NoError(t, err)

	assert.Equal(t, "example.com", record.Domain)
	assert.Equal(t, "accept_all", record.ConsentAction)
	assert.Equal(t, "2026-08-01T10:00:00.000Z", record.VisitStart)
	assert.Equal(t, "2026-08-01T10:00:02.000Z", record.VisitEnd)
	assert.Equal(t, map[string]string{"rank": "1"}, record.Site)
	assert.Equal(t, "OneTrust", record.CMPVendor)

	assert.Equal(t, 3, record.Summary.TotalRequests)
	assert.Equal(t, 2, record.Summary.ThirdPartyRequests)
	assert.Equal(t, 1, record.Summary.BlockedRequests)
	assert.Equal(t, 1, record.Summary.FailedRequests)
	assert.Equal(t, 1, record.Summary.SetCookieResponses)
	assert.Equal(t, 3, record.Summary.DistinctHosts)
	assert.Equal(t, map[string]int{"Advertising": 1}, record.Summary.ByCategory)

	require.Len(t, record.Requests, 3)
	assert.False(t, record.Requests[0].ThirdParty)
	assert.True(t, record.Requests[1].ThirdParty)
	assert.Equal(t, "Advertising", record.Requests[1].DisconnectCategory)
	assert.Equal(t, "AdCo", record.Requests[1].DisconnectEntity)
	assert.True(t, record.Requests[2].Blocked)

	assert.Equal(t, shot, record.Artifacts.PreConsentScreenshot)
	assert.Empty(t, record.Artifacts.PostConsentScreenshot)
}

func TestWriteResults(t *testing.T) {
	root := t.TempDir()
	writeTestHAR(t, root, "example.com")
	writeTestHAR(t, root, "another.org")

	outPath := filepath.Join(root, "analysis", "results.jsonl")
	transformer := NewTransformer(nil, nil, nil, nil)

	written, err := transformer.WriteResults([]string{filepath.Join(root, "crawl_data_accept"), filepath.Join(root, "missing_root")}, outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		domains = append(domains, record.Domain)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"another.org", "example.com"}, domains, "visits are sorted by path")
}

func TestVisitBoundsIncludeFinalRequestDuration(t *testing.T) {
	entries := []HAREntry{
		{StartedDateTime: "2026-08-01T10:00:05.000Z", Time: 2500},
		{StartedDateTime: "2026-08-01T10:00:00.000Z", Time: 120},
		{StartedDateTime: "not a timestamp", Time: 50},
	}

	start, end := visitBounds(entries)
	assert.Equal(t, "2026-08-01T10:00:00.000Z", start)
	assert.Equal(t, "2026-08-01T10:00:07.500Z", end, "end covers the last request's duration")
}

func TestVisitBoundsEmpty(t *testing.T) {
	start, end := visitBounds(nil)
	assert.Empty(t, start)
	assert.Empty(t, end)
}

func TestDetectMode(t *testing.T) {
	assert.Equal(t, "reject", detectMode(filepath.Join("out", "crawl_data_reject", "example.com.har")))
	assert.Equal(t, "block", detectMode(filepath.Join("crawl_data_block", "example.com.har")))
	assert.Equal(t, "", detectMode(filepath.Join("somewhere", "example.com.har")))
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "example.com", NormalizeDomain("https://www.Example.com/path"))
	assert.Equal(t, "example.com", NormalizeDomain("WWW.EXAMPLE.COM"))
	assert.Equal(t, "example.com", NormalizeDomain("example.com"))
	assert.Equal(t, "", NormalizeDomain(""))
}

func TestLookupSuffix(t *testing.T) {
	table := map[string]string{"adco-tracker.com": "Advertising"}

	assert.Equal(t, "Advertising", lookupSuffix("adco-tracker.com", table))
	assert.Equal(t, "Advertising", lookupSuffix("cdn.eu.adco-tracker.com", table))
	assert.Equal(t, "", lookupSuffix("tracker.com", table))
	assert.Equal(t, "", lookupSuffix("", table))
}

func TestIsThirdParty(t *testing.T) {
	assert.False(t, isThirdParty("example.com", "example.com"))
	assert.False(t, isThirdParty("static.example.com", "example.com"))
	assert.True(t, isThirdParty("evilexample.com", "example.com"))
	assert.True(t, isThirdParty("tracker.net", "example.com"))
}
