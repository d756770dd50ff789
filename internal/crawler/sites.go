package crawler

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"consent-crawler/internal/models"
)

// siteColumns are accepted site-list header names, in preference order.
var siteColumns = []string{"domain", "site", "url", "homepage"}

// LoadSiteList reads the crawl site list CSV and returns its domains in file
// order. The file needs a header carrying one of the accepted columns.
func LoadSiteList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &models.ConfigurationError{Field: "site list", Err: err}
	}

	col := -1
	for _, want := range siteColumns {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), want) {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, &models.ConfigurationError{
			Field: "site list",
			Err:   errors.New("missing domain column"),
		}
	}

	var domains []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if col >= len(row) {
			continue
		}
		if domain := strings.TrimSpace(row[col]); domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains, nil
}
