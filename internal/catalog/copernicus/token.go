package copernicus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
)

// DefaultTokenURL is the Copernicus Data Space identity endpoint.
const DefaultTokenURL = "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token"

// TokenClientConfig holds configuration for the token client.
type TokenClientConfig struct {
	// ClientID is the OAuth2 client id (required).
	ClientID string

	// ClientSecret is the OAuth2 client secret (required).
	ClientSecret string

	// TokenURL is the identity endpoint (optional, defaults to CDSE).
	TokenURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient HTTPDoer

	// Clock is the time source (optional, defaults to the real clock).
	Clock clockwork.Clock

	// Logger for token operations.
	Logger zerolog.Logger
}

// TokenClient obtains bearer credentials via the OAuth2 client-credentials
// grant. Each Token call performs a fresh round trip; wrap with
// NewCachedTokenSource to reuse credentials until expiry.
type TokenClient struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   HTTPDoer
	clock        clockwork.Clock
	logger       zerolog.Logger
}

// NewTokenClient creates a new token client.
func NewTokenClient(cfg TokenClientConfig) *TokenClient {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &TokenClient{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
		clock:        clock,
		logger:       cfg.Logger,
	}
}

// Token acquires a fresh credential from the identity provider.
// Fails without a network call when credentials are not configured.
func (c *TokenClient) Token(ctx context.Context) (catalog.Credential, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return catalog.Credential{}, &catalog.Error{
			Provider: ProviderName,
			Code:     "NOT_CONFIGURED",
			Message:  "missing client id or secret",
			Err:      catalog.ErrNotConfigured,
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return catalog.Credential{}, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Credential{}, &catalog.Error{
			Provider: ProviderName,
			Code:     "TOKEN_REQUEST_FAILED",
			Message:  "failed to reach identity provider",
			Err:      catalog.ErrAuthFailed,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.Credential{}, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Msg("token endpoint rejected the request")
		return catalog.Credential{}, &catalog.Error{
			Provider:   ProviderName,
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    fmt.Sprintf("failed to get access token: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        catalog.ErrAuthFailed,
		}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return catalog.Credential{}, fmt.Errorf("decoding token response: %w", err)
	}

	cred := catalog.Credential{
		AccessToken: tok.AccessToken,
		ExpiresAt:   c.clock.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}

	c.logger.Debug().
		Time("expires_at", cred.ExpiresAt).
		Msg("acquired access token")

	return cred, nil
}
