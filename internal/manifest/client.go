// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
)

const (
	// DefaultPrimaryURL is the canonical manifest endpoint.
	DefaultPrimaryURL = "https://releases.phpvm.dev/manifest.json"

	// DefaultMirrorURL is the community mirror consulted when the primary
	// endpoint is unreachable.
	DefaultMirrorURL = "https://mirror.phpvm.dev/phpvm/manifest.json"

	// mirrorHeader must accompany every request to the mirror endpoint;
	// the mirror rejects requests without it.
	mirrorHeader      = "X-Phpvm-Mirror"
	mirrorHeaderValue = "1"

	// maxManifestBytes is the upper bound on manifest body size (10 MB).
	// Prevents unbounded memory consumption from a misbehaving endpoint.
	maxManifestBytes = 10 << 20
)

// ErrUnavailable indicates that every manifest source was tried and none
// produced a response body.
var ErrUnavailable = errors.New("version manifest unavailable")

type (
	// Client retrieves the version manifest, trying an ordered list of
	// sources: the primary endpoint first, then the mirror. Parse failures
	// are terminal; a body that downloads but does not parse is not
	// retried against the next source.
	Client struct {
		httpClient *http.Client
		primaryURL string
		mirrorURL  string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// fetchSource is one named manifest endpoint with its required headers.
	fetchSource struct {
		name   string
		url    string
		mirror bool
	}
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(m *Client) {
		m.httpClient = c
	}
}

// WithPrimaryURL overrides the primary manifest endpoint.
func WithPrimaryURL(u string) ClientOption {
	return func(m *Client) {
		m.primaryURL = u
	}
}

// WithMirrorURL overrides the mirror manifest endpoint. An empty string
// disables the mirror fallback entirely.
func WithMirrorURL(u string) ClientOption {
	return func(m *Client) {
		m.mirrorURL = u
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(m *Client) {
		m.userAgent = ua
	}
}

// NewClient creates a Client with the default endpoints and http.DefaultClient.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		primaryURL: DefaultPrimaryURL,
		mirrorURL:  DefaultMirrorURL,
		userAgent:  "phpvm/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves and parses the version manifest. Sources are tried in
// order; a source fails on transport error or non-2xx status. Only when all
// sources are exhausted does Fetch return ErrUnavailable, carrying the
// per-source failures. A successfully retrieved body that fails to parse
// returns ErrParse immediately, since parse errors are not network errors.
func (c *Client) Fetch(ctx context.Context) (*Manifest, error) {
	var errs []error

	for _, src := range c.sources() {
		body, err := c.get(ctx, src)
		if err != nil {
			log.Debug("manifest source failed", "source", src.name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.name, err))
			continue
		}

		m, parseErr := Parse(io.LimitReader(body, maxManifestBytes))
		_ = body.Close() // read-only response body

		if parseErr != nil {
			return nil, parseErr
		}

		log.Debug("manifest fetched", "source", src.name, "versions", len(m.Versions))
		return m, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// Download fetches the artifact at artifactURL and returns the response body
// as a streaming reader. The caller is responsible for closing it. Transport
// errors and non-2xx statuses are returned as plain errors; the installer
// layers its own classification on top.
func (c *Client) Download(ctx context.Context, artifactURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", redactURL(artifactURL), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("downloading %s: unexpected status %d", redactURL(artifactURL), resp.StatusCode)
	}

	return resp.Body, nil
}

// sources returns the ordered list of manifest endpoints to try.
func (c *Client) sources() []fetchSource {
	srcs := []fetchSource{{name: "primary", url: c.primaryURL}}
	if c.mirrorURL != "" {
		srcs = append(srcs, fetchSource{name: "mirror", url: c.mirrorURL, mirror: true})
	}
	return srcs
}

// get executes a single manifest request against one source and returns the
// response body on a 2xx status.
func (c *Client) get(ctx context.Context, src fetchSource) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if src.mirror {
		req.Header.Set(mirrorHeader, mirrorHeaderValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
