// Package copernicus provides a client for the Copernicus Data Space OData
// product catalog and its OAuth2 identity provider.
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
	"github.com/hazardwatch/hazardwatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this catalog provider.
	ProviderName = "copernicus"

	// DefaultCatalogURL is the Copernicus Data Space OData API base URL.
	DefaultCatalogURL = "https://catalogue.dataspace.copernicus.eu/odata/v1"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// maxResults caps how many products a single search returns.
	maxResults = 10

	// cloudCoverAttribute is the catalog attribute carrying scene cloud cover.
	cloudCoverAttribute = "cloudCover"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Copernicus catalog client.
type ClientConfig struct {
	// BaseURL is the catalog API base URL (optional, defaults to CDSE).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Clock is the time source for temporal filters (optional).
	Clock clockwork.Clock

	// Metrics records per-call instrumentation (optional).
	Metrics *Metrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Copernicus Data Space catalog client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	registry   *resilience.Registry
	clock      clockwork.Clock
	metrics    *Metrics
	logger     zerolog.Logger
}

// NewClient creates a new catalog client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultCatalogURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		clock:      clock,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search queries the product catalog for the given region and satellite,
// returning at most ten normalized products ordered newest first.
func (c *Client) Search(ctx context.Context, accessToken string, req catalog.SearchRequest) ([]catalog.Product, error) {
	start := c.clock.Now()
	products, err := c.search(ctx, accessToken, req)
	if c.metrics != nil {
		c.metrics.RecordRequest("search", c.clock.Since(start), err)
	}
	if c.registry != nil {
		if err != nil {
			c.registry.RecordFailure(ProviderName, err)
		} else {
			c.registry.RecordSuccess(ProviderName)
		}
	}
	return products, err
}

func (c *Client) search(ctx context.Context, accessToken string, req catalog.SearchRequest) ([]catalog.Product, error) {
	filter := BuildFilter(req.Region, req.Satellite, req.MaxCloudCover, req.DaysBack, c.clock.Now())

	query := url.Values{}
	query.Set("$filter", filter)
	query.Set("$top", fmt.Sprintf("%d", maxResults))
	query.Set("$orderby", "ContentDate/Start desc")

	searchURL := c.baseURL + "/Products?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	c.logger.Debug().
		Str("region", req.Region.ID).
		Str("satellite", string(req.Satellite)).
		Int("days_back", req.DaysBack).
		Msg("searching product catalog")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &catalog.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach product catalog",
			Err:      catalog.ErrCatalogFailed,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Str("region", req.Region.ID).
			Str("satellite", string(req.Satellite)).
			Int("status", resp.StatusCode).
			Msg("catalog search failed")
		return nil, &catalog.Error{
			Provider:   ProviderName,
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    fmt.Sprintf("failed to search products: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        catalog.ErrCatalogFailed,
		}
	}

	var odata odataResponse
	if err := json.Unmarshal(body, &odata); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	products := make([]catalog.Product, 0, len(odata.Value))
	for i := range odata.Value {
		products = append(products, toProduct(&odata.Value[i], req.Satellite))
	}

	c.logger.Debug().
		Str("region", req.Region.ID).
		Str("satellite", string(req.Satellite)).
		Int("product_count", len(products)).
		Msg("catalog search completed")

	return products, nil
}

// toProduct normalizes a raw catalog record into product metadata.
func toProduct(p *odataProduct, sat catalog.Satellite) catalog.Product {
	acquisitionDate := p.ContentDate.Start
	if acquisitionDate == "" {
		acquisitionDate = p.ModificationDate
	}

	var cloudCover *float64
	for _, attr := range p.Attributes {
		if attr.Name != cloudCoverAttribute {
			continue
		}
		if v, ok := attr.floatValue(); ok {
			cloudCover = &v
		}
		break
	}

	productType := p.ProductType
	if productType == "" {
		productType = catalog.ProcessingLevelUnknown
	}

	return catalog.Product{
		ID:              p.ID,
		Name:            p.Name,
		AcquisitionDate: acquisitionDate,
		CloudCover:      cloudCover,
		ProductType:     productType,
		Satellite:       sat.Label(),
		ProcessingLevel: inferProcessingLevel(p.Name),
	}
}

// inferProcessingLevel guesses the processing level from the product name.
// The catalog does not expose the level as a structured field here, so this
// substring match is a heuristic, not authoritative.
func inferProcessingLevel(name string) string {
	switch {
	case strings.Contains(name, catalog.ProcessingLevelL2A):
		return catalog.ProcessingLevelL2A
	case strings.Contains(name, catalog.ProcessingLevelL1C):
		return catalog.ProcessingLevelL1C
	default:
		return catalog.ProcessingLevelUnknown
	}
}
