package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardwatch/hazardwatch/internal/analysis"
	"github.com/hazardwatch/hazardwatch/internal/api/handler"
	"github.com/hazardwatch/hazardwatch/internal/api/models"
	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/region"
)

type fakeTokenSource struct {
	calls int
	err   error
}

func (f *fakeTokenSource) Token(context.Context) (catalog.Credential, error) {
	f.calls++
	if f.err != nil {
		return catalog.Credential{}, f.err
	}
	return catalog.Credential{AccessToken: "tok"}, nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	results map[catalog.Satellite][]catalog.Product
	errs    map[catalog.Satellite]error
}

func (f *fakeSearcher) Search(_ context.Context, _ string, req catalog.SearchRequest) ([]catalog.Product, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.errs[req.Satellite]; err != nil {
		return nil, err
	}
	return f.results[req.Satellite], nil
}

func newHandler(tokens *fakeTokenSource, searcher *fakeSearcher) *handler.SatelliteHandler {
	svc := analysis.NewService(analysis.ServiceConfig{
		Registry: region.DefaultRegistry(),
		Tokens:   tokens,
		Catalog:  searcher,
		Logger:   zerolog.Nop(),
	})
	return handler.NewSatelliteHandler(svc, zerolog.Nop())
}

func doAction(t *testing.T, h *handler.SatelliteHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/satellite-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleAction(rec, req)
	return rec
}

func TestHandleAction_ListRegions(t *testing.T) {
	tokens := &fakeTokenSource{}
	h := newHandler(tokens, &fakeSearcher{})

	rec := doAction(t, h, `{"action":"list-regions"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.RegionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, len(resp.Regions), 8)

	// Listing regions never touches the identity provider.
	assert.Zero(t, tokens.calls)
}

func TestHandleAction_Search(t *testing.T) {
	cloudCover := 12.5
	searcher := &fakeSearcher{
		results: map[catalog.Satellite][]catalog.Product{
			catalog.SatelliteSentinel2: {
				{
					ID:              "prod-1",
					Name:            "S2A_MSIL2A_20260810",
					AcquisitionDate: "2026-08-10T10:00:31.000Z",
					CloudCover:      &cloudCover,
					ProductType:     "S2MSI2A",
					Satellite:       "Sentinel-2",
					ProcessingLevel: "L2A",
				},
			},
		},
	}
	h := newHandler(&fakeTokenSource{}, searcher)

	rec := doAction(t, h, `{"action":"search","regionId":"fagaras","maxCloudCover":20,"daysBack":14}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "prod-1", resp.Products[0].ID)
	assert.Equal(t, "Sentinel-2", resp.Products[0].Satellite)
}

func TestHandleAction_Analyze(t *testing.T) {
	tokens := &fakeTokenSource{}
	searcher := &fakeSearcher{
		results: map[catalog.Satellite][]catalog.Product{
			catalog.SatelliteSentinel2: {
				{ID: "s2-1", AcquisitionDate: "2026-08-10T10:00:00.000Z"},
			},
			catalog.SatelliteSentinel1: {
				{ID: "s1-1", AcquisitionDate: "2026-08-11T05:00:00.000Z"},
				{ID: "s1-2", AcquisitionDate: "2026-08-12T05:00:00.000Z"},
				{ID: "s1-3", AcquisitionDate: "2026-08-13T05:00:00.000Z"},
			},
		},
	}
	h := newHandler(tokens, searcher)

	rec := doAction(t, h, `{"action":"analyze","regionId":"iasi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analysis.RegionAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "iasi", resp.RegionID)
	assert.Len(t, resp.Sentinel2Products, 1)
	assert.Len(t, resp.Sentinel1Products, 3)
	assert.Equal(t, "low", string(resp.Indicators.FloodRisk))

	assert.Equal(t, 1, tokens.calls)
	assert.Equal(t, 2, searcher.calls)
}

func TestHandleAction_InvalidJSON(t *testing.T) {
	h := newHandler(&fakeTokenSource{}, &fakeSearcher{})

	rec := doAction(t, h, `{"action":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid JSON body", resp.Error)
}

func TestHandleAction_InvalidAction(t *testing.T) {
	tokens := &fakeTokenSource{}
	searcher := &fakeSearcher{}
	h := newHandler(tokens, searcher)

	rec := doAction(t, h, `{"action":"delete-everything","regionId":"fagaras"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid action", resp.Error)

	// Rejected before any credential or catalog work.
	assert.Zero(t, tokens.calls)
	assert.Zero(t, searcher.calls)
}

func TestHandleAction_MissingRegionID(t *testing.T) {
	for _, action := range []string{"search", "analyze"} {
		t.Run(action, func(t *testing.T) {
			tokens := &fakeTokenSource{}
			h := newHandler(tokens, &fakeSearcher{})

			rec := doAction(t, h, `{"action":"`+action+`"}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "regionId is required", resp.Error)
			assert.Zero(t, tokens.calls)
		})
	}
}

func TestHandleAction_UnknownRegion(t *testing.T) {
	h := newHandler(&fakeTokenSource{}, &fakeSearcher{})

	rec := doAction(t, h, `{"action":"search","regionId":"atlantis"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "atlantis")
}

func TestHandleAction_AuthFailure(t *testing.T) {
	tokens := &fakeTokenSource{
		err: &catalog.Error{
			Provider: "copernicus",
			Code:     "NOT_CONFIGURED",
			Message:  "catalog credentials not configured",
			Err:      catalog.ErrNotConfigured,
		},
	}
	h := newHandler(tokens, &fakeSearcher{})

	rec := doAction(t, h, `{"action":"search","regionId":"fagaras"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "catalog credentials not configured", resp.Error)
}

func TestHandleAction_AnalyzePartialFailure(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[catalog.Satellite][]catalog.Product{
			catalog.SatelliteSentinel2: {{ID: "s2-1"}},
		},
		errs: map[catalog.Satellite]error{
			catalog.SatelliteSentinel1: &catalog.Error{
				Provider: "copernicus",
				Code:     "HTTP_503",
				Message:  "failed to search products: 503",
				Err:      catalog.ErrCatalogFailed,
			},
		},
	}
	h := newHandler(&fakeTokenSource{}, searcher)

	rec := doAction(t, h, `{"action":"analyze","regionId":"fagaras"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to search products: 503", resp.Error)
}
