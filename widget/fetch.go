package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetcher retrieves widget data-source payloads over HTTP. Relative URLs are
// resolved against BaseURL so built-in templates can point at the API's own
// telemetry endpoints without knowing where the server is mounted.
type Fetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewFetcher returns a fetcher with the given base URL, bearer token and
// per-request timeout.
func NewFetcher(baseURL, token string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the data source and decodes the JSON body. Every failure mode
// degrades to nil: empty URL, bad URL, network error, non-2xx status, or a
// body that is not JSON. Widgets render their empty state instead of the
// dashboard failing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) interface{} {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}
	target := f.resolve(rawURL)
	if target == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		zap.S().Debugw("failed to build data source request", "url", target, "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		zap.S().Debugw("data source fetch failed", "url", target, "error", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.S().Debugw("data source returned non-2xx", "url", target, "status", resp.StatusCode)
		return nil
	}
	var data interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		zap.S().Debugw("data source body is not json", "url", target, "error", err)
		return nil
	}
	return data
}

// Check reports whether the URL answers with a 2xx status. Used by status
// widgets probing a list of services.
func (f *Fetcher) Check(ctx context.Context, rawURL string) bool {
	target := f.resolve(strings.TrimSpace(rawURL))
	if target == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (f *Fetcher) resolve(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return rawURL
	}
	base, err := url.Parse(f.BaseURL)
	if err != nil || base.Scheme == "" {
		return ""
	}
	return base.ResolveReference(u).String()
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}
