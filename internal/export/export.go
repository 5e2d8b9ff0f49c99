package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"icsjson/internal/ics"
	appLog "icsjson/internal/log"
	"icsjson/internal/model"
)

// Fetcher returns the raw feed body for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options controls a single export run.
type Options struct {
	URL     string
	Timeout time.Duration
	Strict  bool
	Pretty  bool

	// Fetcher overrides the HTTP fetcher. If nil, ics.NewFetcher(Timeout) is used.
	Fetcher Fetcher
}

// Run fetches the feed, converts its events and writes them to w as a JSON
// array. The document is fully built before the single write to w, so on
// any error w receives nothing.
func Run(ctx context.Context, opts Options, w io.Writer) error {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = ics.NewFetcher(opts.Timeout)
	}

	body, err := fetcher.Fetch(ctx, opts.URL)
	if err != nil {
		return err
	}

	raws, err := ics.ParseCalendar(body)
	if err != nil {
		return err
	}

	events, err := ics.Extractor{Strict: opts.Strict}.Events(raws)
	if err != nil {
		return err
	}

	doc, err := Marshal(events, opts.Pretty)
	if err != nil {
		return err
	}

	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	appLog.Info("export completed", "event_count", len(events), "bytes", len(doc))
	return nil
}

// Marshal encodes events as a JSON array followed by a newline. A nil slice
// encodes as [] rather than null.
func Marshal(events []model.Event, pretty bool) ([]byte, error) {
	if events == nil {
		events = []model.Event{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(events); err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}
	return buf.Bytes(), nil
}
