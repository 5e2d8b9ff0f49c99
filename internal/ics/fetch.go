package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appLog "icsjson/internal/log"
)

// ErrTransport wraps every failure to obtain the feed body.
var ErrTransport = errors.New("fetch ical feed")

const userAgent = "icsjson/0.1"

// Fetcher retrieves a single ICS feed over HTTP. There is no retry and no
// cache: each call is one GET.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a new ICS Fetcher. A zero timeout leaves the request
// unbounded.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs one GET against feedURL and returns the response body.
// Connection errors, non-2xx statuses and body read errors are wrapped in
// ErrTransport.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if feedURL == "" {
		return nil, fmt.Errorf("%w: feed URL is empty", ErrTransport)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/calendar, text/plain;q=0.9, */*;q=0.1")

	appLog.Info("ics fetch start", "url", redactURL(feedURL))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appLog.Error("ics fetch non-OK", errors.New(resp.Status), "url", redactURL(feedURL), "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	appLog.Info("ics fetch success", "url", redactURL(feedURL), "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// redactURL reduces a feed URL to scheme and host for logging. Paths and
// queries of private feeds often embed tokens, and userinfo is dropped too.
func redactURL(raw string) string {
	const redacted = "/...(redacted)"

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + redacted
}
