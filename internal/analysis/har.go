// Package analysis transforms recorded HAR archives into structured JSON
// lines for downstream privacy analysis: third-party labeling against the
// Disconnect blocklist and entity map, traffic summaries, and CMP vendor
// detection from the captured main-document HTML.
package analysis

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
)

// HAR is the subset of the HTTP Archive format the transform reads.
type HAR struct {
	Log HARLog `json:"log"`
}

type HARLog struct {
	Entries []HAREntry `json:"entries"`
}

type HAREntry struct {
	StartedDateTime string         `json:"startedDateTime"`
	Time            float64        `json:"time"`
	Request         HARRequest     `json:"request"`
	Response        HARResponse    `json:"response"`
	ServerIPAddress string         `json:"serverIPAddress"`
	ResourceType    string         `json:"_resourceType"`
	WasAborted      bool           `json:"_wasAborted"`
	Timings         map[string]any `json:"timings"`
	Cache           any            `json:"cache"`
}

type HARRequest struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	HTTPVersion string      `json:"httpVersion"`
	Headers     []HARHeader `json:"headers"`
	Cookies     []HARCookie `json:"cookies"`
}

type HARResponse struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	Error       string      `json:"_error"`
	Headers     []HARHeader `json:"headers"`
	Cookies     []HARCookie `json:"cookies"`
	BodySize    float64     `json:"bodySize"`
	RedirectURL string      `json:"redirectURL"`
	Content     HARContent  `json:"content"`
}

type HARContent struct {
	Size     float64 `json:"size"`
	MimeType string  `json:"mimeType"`
	Text     string  `json:"text"`
	Encoding string  `json:"encoding"`
}

// Body returns the decoded response body text.
func (c HARContent) Body() string {
	if c.Encoding == "base64" {
		if decoded, err := base64.StdEncoding.DecodeString(c.Text); err == nil {
			return string(decoded)
		}
		return ""
	}
	return c.Text
}

type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type HARCookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  string `json:"expires,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// LoadHAR parses a HAR file from disk.
func LoadHAR(path string) (*HAR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var har HAR
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, err
	}
	return &har, nil
}

// headersToMap folds repeated header names into value lists, keyed by the
// lowercased name.
func headersToMap(headers []HARHeader) map[string][]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string][]string, len(headers))
	for _, h := range headers {
		if h.Name == "" {
			continue
		}
		key := strings.ToLower(h.Name)
		out[key] = append(out[key], h.Value)
	}
	return out
}
