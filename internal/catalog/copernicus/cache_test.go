package copernicus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/catalog/copernicus"
)

// countingTokenSource returns a fresh token per call and counts calls.
type countingTokenSource struct {
	clock clockwork.Clock
	ttl   time.Duration
	calls int
	err   error
}

func (s *countingTokenSource) Token(context.Context) (catalog.Credential, error) {
	if s.err != nil {
		return catalog.Credential{}, s.err
	}
	s.calls++
	return catalog.Credential{
		AccessToken: "tok",
		ExpiresAt:   s.clock.Now().Add(s.ttl),
	}, nil
}

func TestCachedTokenSource_ReusesUntilExpiry(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	source := &countingTokenSource{clock: fakeClock, ttl: 10 * time.Minute}

	cached := copernicus.NewCachedTokenSource(copernicus.CachedTokenSourceConfig{
		Source: source,
		Clock:  fakeClock,
	})

	for i := 0; i < 5; i++ {
		_, err := cached.Token(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, source.calls)

	// Past expiry the next call fetches a fresh credential.
	fakeClock.Advance(11 * time.Minute)
	_, err := cached.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedTokenSource_RefreshesWithinSkew(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	source := &countingTokenSource{clock: fakeClock, ttl: time.Minute}

	cached := copernicus.NewCachedTokenSource(copernicus.CachedTokenSourceConfig{
		Source:     source,
		Clock:      fakeClock,
		ExpirySkew: 30 * time.Second,
	})

	_, err := cached.Token(context.Background())
	require.NoError(t, err)

	// 40s in, the credential has 20s left - inside the skew margin.
	fakeClock.Advance(40 * time.Second)
	_, err = cached.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedTokenSource_PropagatesErrors(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	wantErr := errors.New("upstream down")
	source := &countingTokenSource{clock: fakeClock, ttl: time.Minute, err: wantErr}

	cached := copernicus.NewCachedTokenSource(copernicus.CachedTokenSourceConfig{
		Source: source,
		Clock:  fakeClock,
	})

	_, err := cached.Token(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestCachedTokenSource_Invalidate(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	source := &countingTokenSource{clock: fakeClock, ttl: 10 * time.Minute}

	cached := copernicus.NewCachedTokenSource(copernicus.CachedTokenSourceConfig{
		Source: source,
		Clock:  fakeClock,
	})

	_, err := cached.Token(context.Background())
	require.NoError(t, err)

	cached.Invalidate()

	_, err = cached.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
