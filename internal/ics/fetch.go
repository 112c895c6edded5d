package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/model"
)

const defaultTimeout = 15 * time.Second

// Fetcher retrieves ICS documents for configured sources. Every request
// is fetched fresh; the combined feed never returns partial output, so
// there is no cache to fall back to and no retry.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a default one with a
// request timeout; tests pass their own.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the raw ICS body for one source. Any transport
// failure or non-2xx status is an error; the caller aborts the whole
// request on it.
func (f *Fetcher) Fetch(ctx context.Context, src model.Source) ([]byte, error) {
	if src.URL == "" {
		return nil, errors.New("source URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"source": src.ID, "url": redactURL(src.URL)}).Debug("fetching calendar source")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"source": src.ID, "bytes": len(body)}).Debug("fetched calendar source")
	return body, nil
}

// redactURL hides path and query of an ICS URL for logging; private
// feed URLs routinely embed access tokens.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "ics://...(redacted)"
	}

	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
