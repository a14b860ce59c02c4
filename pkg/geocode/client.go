// Package geocode wraps the Google Geocoding API behind a small client
// interface: formatted address in, coordinate pair or typed failure out.
package geocode

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Typed failures. Callers distinguish them with errors.Is; anything else is
// a transport-level failure.
var (
	// ErrNoMatch means the provider answered but found nothing.
	ErrNoMatch = eris.New("geocode: no match")
	// ErrMalformedAddress means the provider rejected the address itself.
	ErrMalformedAddress = eris.New("geocode: malformed address")
	// ErrRateLimited means the provider refused the lookup for quota reasons.
	ErrRateLimited = eris.New("geocode: rate limited")
)

// Result holds the coordinates for a matched address.
type Result struct {
	Lat float64
	Lng float64
}

// Client geocodes a single formatted address.
type Client interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Option configures the Google client.
type Option func(*googleClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *googleClient) {
		g.httpClient = hc
	}
}

// WithRegion sets the region bias sent with every request (ccTLD code,
// e.g. "ar").
func WithRegion(region string) Option {
	return func(g *googleClient) {
		g.region = region
	}
}

// NewClient creates a Google Geocoding API client.
func NewClient(apiKey string, opts ...Option) Client {
	g := &googleClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
