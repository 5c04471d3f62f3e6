// Package registry implements ports.RegistryClient against the npm registry HTTP API.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	httpTimeout = 10 * time.Second
	// acceptHeader asks for the abbreviated install metadata, which carries dist fields.
	acceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"
	maxErrorBody = 512
)

// Client reads package metadata from npm-compatible registries.
type Client struct {
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithRetry sets the number of attempts and the initial delay for transient failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(client *Client) {
		client.attempts = attempts
		client.delay = delay
	}
}

// NewClient creates a Client with a standard timeout and 3 attempts per request.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version fetches the dist metadata of name@version. It returns nil, nil when the
// package or the version does not exist.
func (c *Client) Version(ctx context.Context, registry, name, version, token string) (*domain.PublishedVersion, error) {
	url := domain.NormalizeRegistry(registry) + EscapeName(name)

	var doc packument
	var found bool
	err := retry(ctx, c.attempts, c.delay, func() error {
		var err error
		found, err = c.getJSON(ctx, url, token, &doc)
		return err
	})
	if err != nil {
		return nil, zerr.With(zerr.With(err, "registry", registry), "package", name)
	}
	if !found {
		return nil, nil
	}

	v, ok := doc.Versions[version]
	if !ok {
		return nil, nil
	}
	return &domain.PublishedVersion{
		Name:      name,
		Version:   version,
		Shasum:    v.Dist.Shasum,
		Integrity: v.Dist.Integrity,
		Tarball:   v.Dist.Tarball,
	}, nil
}

// Ping checks that registry answers HTTP requests. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context, registry, token string) error {
	url := domain.NormalizeRegistry(registry) + "-/ping"

	err := retry(ctx, c.attempts, c.delay, func() error {
		resp, err := c.do(ctx, url, token)
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRegistryUnreachable.Error()), "registry", registry)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url, token string, v any) (bool, error) {
	resp, err := c.do(ctx, url, token)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, zerr.Wrap(err, domain.ErrRegistryRequest.Error())
	}
	return true, nil
}

func (c *Client) do(ctx context.Context, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequest.Error())
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{err: zerr.Wrap(err, domain.ErrRegistryRequest.Error())}
	}
	return resp, nil
}

var errNotFound = zerr.New("not found")

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return zerr.With(domain.ErrRegistryAuth, "status", code)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &retryableError{err: zerr.With(domain.ErrRegistryRequest, "status", code)}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return zerr.With(zerr.With(domain.ErrRegistryRequest, "status", code), "body", strings.TrimSpace(string(body)))
	}
}

// EscapeName encodes a package name for a registry URL path. The slash of a
// scoped name is escaped: "@scope/pkg" becomes "@scope%2fpkg".
func EscapeName(name string) string {
	return strings.ReplaceAll(name, "/", "%2f")
}

type packument struct {
	Name     string                   `json:"name"`
	Versions map[string]versionRecord `json:"versions"`
}

type versionRecord struct {
	Version string `json:"version"`
	Dist    dist   `json:"dist"`
}

type dist struct {
	Shasum    string `json:"shasum"`
	Integrity string `json:"integrity"`
	Tarball   string `json:"tarball"`
}
