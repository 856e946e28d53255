// Package ena resolves sample metadata from the ENA browser API and builds
// the fixed-shape metadata table rows.
package ena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	DefaultXMLURL  = "https://www.ebi.ac.uk/ena/browser/api/xml"
	DefaultFTPURL  = "http://ftp.ebi.ac.uk/"
	DefaultTimeout = 20 * time.Second

	maxDocument = 32 << 20
)

// ErrNoMetadata is returned for any non-success answer from the API.
var ErrNoMetadata = errors.New("no metadata")

// Fetcher returns the raw XML document for an accession.
type Fetcher interface {
	Fetch(ctx context.Context, accession string) ([]byte, error)
}

// Client fetches sample XML documents over HTTP.
type Client struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

// NewClient returns a Client on a pooled cleanhttp client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultXMLURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: timeout, HTTP: hc}
}

// Fetch GETs {BaseURL}/{accession}?download=true. Transport failures and
// non-2xx statuses both wrap ErrNoMetadata.
func (c *Client) Fetch(ctx context.Context, accession string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?download=true", c.BaseURL, url.PathEscape(accession))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned %s", ErrNoMetadata, accession, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocument))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoMetadata, accession, err)
	}
	return body, nil
}
