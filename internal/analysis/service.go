// Package analysis orchestrates region listing, product search, and
// multi-satellite hazard analysis.
package analysis

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/hazard"
	"github.com/hazardwatch/hazardwatch/internal/region"
)

// Defaults applied when the caller omits search parameters.
const (
	DefaultSatellite     = catalog.SatelliteSentinel2
	DefaultMaxCloudCover = 30
	DefaultDaysBack      = 30
)

// maxProductsPerList caps each product list in an analysis response.
const maxProductsPerList = 5

// radarCloudCover effectively disables cloud filtering for radar searches.
// The filter builder omits the predicate for Sentinel-1 anyway; the permissive
// value is kept so the request parameters read the same as the optical path.
const radarCloudCover = 100

// TokenSource provides bearer credentials for catalog requests.
type TokenSource interface {
	Token(ctx context.Context) (catalog.Credential, error)
}

// Searcher executes catalog product searches.
type Searcher interface {
	Search(ctx context.Context, accessToken string, req catalog.SearchRequest) ([]catalog.Product, error)
}

// ServiceConfig holds configuration for the analysis service.
type ServiceConfig struct {
	// Registry is the region lookup table (required).
	Registry *region.Registry

	// Tokens supplies catalog credentials (required).
	Tokens TokenSource

	// Catalog executes product searches (required).
	Catalog Searcher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service handles the satellite-data actions. It holds no per-request state;
// every invocation is independent.
type Service struct {
	registry *region.Registry
	tokens   TokenSource
	catalog  Searcher
	logger   zerolog.Logger
}

// NewService creates a new analysis service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		registry: cfg.Registry,
		tokens:   cfg.Tokens,
		catalog:  cfg.Catalog,
		logger:   cfg.Logger,
	}
}

// RegionSummary is a region projected for listing responses.
type RegionSummary struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	BBox region.BBox `json:"bbox"`
}

// Regions returns all known regions. No credential is acquired.
func (s *Service) Regions() []RegionSummary {
	regions := s.registry.List()
	out := make([]RegionSummary, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionSummary{ID: r.ID, Name: r.Name, BBox: r.BBox})
	}
	return out
}

// SearchParams are the caller-supplied parameters for a product search.
// Zero values fall back to the documented defaults.
type SearchParams struct {
	RegionID      string
	Satellite     catalog.Satellite
	MaxCloudCover float64
	DaysBack      int
}

func (p *SearchParams) applyDefaults() {
	if p.Satellite == "" {
		p.Satellite = DefaultSatellite
	}
	if p.MaxCloudCover <= 0 {
		p.MaxCloudCover = DefaultMaxCloudCover
	}
	if p.DaysBack <= 0 {
		p.DaysBack = DefaultDaysBack
	}
}

// Search runs a single catalog search for the given region and satellite.
// The region is resolved before any network call so unknown ids fail fast.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]catalog.Product, error) {
	params.applyDefaults()

	reg, err := s.registry.Lookup(params.RegionID)
	if err != nil {
		return nil, err
	}

	cred, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	return s.catalog.Search(ctx, cred.AccessToken, catalog.SearchRequest{
		Region:        reg,
		Satellite:     params.Satellite,
		MaxCloudCover: params.MaxCloudCover,
		DaysBack:      params.DaysBack,
	})
}

// AnalyzeParams are the caller-supplied parameters for a hazard analysis.
type AnalyzeParams struct {
	RegionID      string
	MaxCloudCover float64
	DaysBack      int
}

// RegionAnalysis is the aggregate analysis response for one region.
type RegionAnalysis struct {
	RegionID          string            `json:"regionId"`
	RegionName        string            `json:"regionName"`
	BBox              region.BBox       `json:"bbox"`
	Indicators        hazard.Indicators `json:"indicators"`
	Sentinel2Products []catalog.Product `json:"sentinel2Products"`
	Sentinel1Products []catalog.Product `json:"sentinel1Products"`
}

// Analyze runs the optical and radar searches concurrently, derives hazard
// indicators from both result sets, and assembles the region analysis.
// If either search fails the whole operation fails; the sibling search is
// cancelled through the group context and no partial result is returned.
func (s *Service) Analyze(ctx context.Context, params AnalyzeParams) (*RegionAnalysis, error) {
	maxCloudCover := params.MaxCloudCover
	if maxCloudCover <= 0 {
		maxCloudCover = DefaultMaxCloudCover
	}
	daysBack := params.DaysBack
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}

	reg, err := s.registry.Lookup(params.RegionID)
	if err != nil {
		return nil, err
	}

	// One credential serves both searches.
	cred, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var optical, radar []catalog.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var searchErr error
		optical, searchErr = s.catalog.Search(gctx, cred.AccessToken, catalog.SearchRequest{
			Region:        reg,
			Satellite:     catalog.SatelliteSentinel2,
			MaxCloudCover: maxCloudCover,
			DaysBack:      daysBack,
		})
		return searchErr
	})
	g.Go(func() error {
		var searchErr error
		radar, searchErr = s.catalog.Search(gctx, cred.AccessToken, catalog.SearchRequest{
			Region:        reg,
			Satellite:     catalog.SatelliteSentinel1,
			MaxCloudCover: radarCloudCover,
			DaysBack:      daysBack,
		})
		return searchErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	indicators := hazard.DeriveIndicators(optical, radar)

	s.logger.Debug().
		Str("region", reg.ID).
		Int("optical_products", len(optical)).
		Int("radar_products", len(radar)).
		Str("flood_risk", string(indicators.FloodRisk)).
		Str("vegetation_health", string(indicators.VegetationHealth)).
		Msg("derived hazard indicators")

	return &RegionAnalysis{
		RegionID:          reg.ID,
		RegionName:        reg.Name,
		BBox:              reg.BBox,
		Indicators:        indicators,
		Sentinel2Products: truncate(optical, maxProductsPerList),
		Sentinel1Products: truncate(radar, maxProductsPerList),
	}, nil
}

// truncate returns at most n leading products, preserving order.
func truncate(products []catalog.Product, n int) []catalog.Product {
	if len(products) <= n {
		return products
	}
	return products[:n]
}
