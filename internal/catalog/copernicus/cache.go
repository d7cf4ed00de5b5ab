package copernicus

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
)

// DefaultExpirySkew is subtracted from the credential lifetime so a token is
// refreshed before it actually expires mid-request.
const DefaultExpirySkew = 30 * time.Second

// TokenSource provides bearer credentials for catalog requests.
type TokenSource interface {
	Token(ctx context.Context) (catalog.Credential, error)
}

// CachedTokenSource decorates a TokenSource with an expiry-keyed cache.
// Consumers keep the plain TokenSource contract; the dispatcher opts in at
// wiring time. Safe for concurrent use.
type CachedTokenSource struct {
	source TokenSource
	clock  clockwork.Clock
	skew   time.Duration

	mu   sync.Mutex
	cred catalog.Credential
}

// CachedTokenSourceConfig holds configuration for the cached token source.
type CachedTokenSourceConfig struct {
	// Source is the underlying token source (required).
	Source TokenSource

	// Clock is the time source (optional, defaults to the real clock).
	Clock clockwork.Clock

	// ExpirySkew is the refresh-ahead margin (optional, defaults to 30s).
	ExpirySkew time.Duration
}

// NewCachedTokenSource creates a caching decorator around a token source.
func NewCachedTokenSource(cfg CachedTokenSourceConfig) *CachedTokenSource {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	skew := cfg.ExpirySkew
	if skew == 0 {
		skew = DefaultExpirySkew
	}
	return &CachedTokenSource{
		source: cfg.Source,
		clock:  clock,
		skew:   skew,
	}
}

// Token returns the cached credential when still valid past the skew margin,
// fetching a fresh one otherwise.
func (s *CachedTokenSource) Token(ctx context.Context) (catalog.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred.Valid(s.clock.Now().Add(s.skew)) {
		return s.cred, nil
	}

	cred, err := s.source.Token(ctx)
	if err != nil {
		return catalog.Credential{}, err
	}
	s.cred = cred
	return cred, nil
}

// Invalidate discards the cached credential, forcing the next Token call to
// fetch a fresh one.
func (s *CachedTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = catalog.Credential{}
}
