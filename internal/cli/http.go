package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/podium/internal/domain/types"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// getJSON performs a GET request and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return fmt.Errorf("GET %s: %d: %s", path, resp.StatusCode, e.Message)
		}
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.Unmarshal(body, v)
}

// fetchReport asks a running service for the summary and raw rows.
func fetchReport(ctx context.Context, config *Config) (Report, error) {
	client := newHTTPClient(config.BaseURL, config.Timeout)

	q := url.Values{}
	for _, s := range config.Sports {
		q.Add("sport", s)
	}
	for _, r := range config.RegionSel {
		q.Add("region", r)
	}
	for _, m := range config.Medals {
		q.Add("medal", m)
	}

	var report Report
	if err := client.getJSON(ctx, "/api/v1/summary", q, &report.Summary); err != nil {
		return Report{}, err
	}
	// The server ranks with its own top_countries; -top can only shorten that.
	if config.TopN > 0 && len(report.Summary.TopCountries) > config.TopN {
		report.Summary.TopCountries = report.Summary.TopCountries[:config.TopN]
	}
	if config.Raw > 0 {
		pq := url.Values{}
		for k, v := range q {
			pq[k] = v
		}
		pq.Set("limit", strconv.Itoa(config.Raw))
		var page types.RecordsPage
		if err := client.getJSON(ctx, "/api/v1/records", pq, &page); err != nil {
			return Report{}, err
		}
		report.Records = page.Records
	}
	return report, nil
}
