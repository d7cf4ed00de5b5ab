// Package handler provides HTTP handlers for the HazardWatch API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hazardwatch/hazardwatch/internal/analysis"
	"github.com/hazardwatch/hazardwatch/internal/api/models"
	"github.com/hazardwatch/hazardwatch/internal/api/response"
	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/region"
)

// SatelliteHandler dispatches satellite-data actions.
type SatelliteHandler struct {
	service *analysis.Service
	logger  zerolog.Logger
}

// NewSatelliteHandler creates a new SatelliteHandler.
func NewSatelliteHandler(service *analysis.Service, logger zerolog.Logger) *SatelliteHandler {
	return &SatelliteHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAction handles POST /v1/satellite-data - the single action endpoint.
// The action field selects region listing, product search, or hazard analysis.
func (h *SatelliteHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req models.SatelliteDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	h.logger.Info().
		Str("action", req.Action).
		Str("region", req.RegionID).
		Msg("satellite-data action")

	switch req.Action {
	case models.ActionListRegions:
		h.listRegions(w, r)
	case models.ActionSearch:
		h.search(w, r, req)
	case models.ActionAnalyze:
		h.analyze(w, r, req)
	default:
		response.BadRequest(w, r, "invalid action")
	}
}

// listRegions returns the full region registry. No credential is acquired.
func (h *SatelliteHandler) listRegions(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.RegionListResponse{
		Regions: h.service.Regions(),
	})
}

func (h *SatelliteHandler) search(w http.ResponseWriter, r *http.Request, req models.SatelliteDataRequest) {
	if req.RegionID == "" {
		response.BadRequest(w, r, "regionId is required")
		return
	}

	products, err := h.service.Search(r.Context(), analysis.SearchParams{
		RegionID:      req.RegionID,
		Satellite:     catalog.Satellite(req.Satellite),
		MaxCloudCover: req.MaxCloudCover,
		DaysBack:      req.DaysBack,
	})
	if err != nil {
		h.writeError(w, r, req, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ProductListResponse{Products: products})
}

func (h *SatelliteHandler) analyze(w http.ResponseWriter, r *http.Request, req models.SatelliteDataRequest) {
	if req.RegionID == "" {
		response.BadRequest(w, r, "regionId is required")
		return
	}

	result, err := h.service.Analyze(r.Context(), analysis.AnalyzeParams{
		RegionID:      req.RegionID,
		MaxCloudCover: req.MaxCloudCover,
		DaysBack:      req.DaysBack,
	})
	if err != nil {
		h.writeError(w, r, req, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// writeError logs the failure with its action and region, then maps it to the
// error payload: 400 for caller-input errors, 500 for config and upstream
// failures.
func (h *SatelliteHandler) writeError(w http.ResponseWriter, r *http.Request, req models.SatelliteDataRequest, err error) {
	h.logger.Error().
		Err(err).
		Str("action", req.Action).
		Str("region", req.RegionID).
		Msg("satellite-data action failed")

	if errors.Is(err, region.ErrUnknownRegion) {
		response.BadRequest(w, r, err.Error())
		return
	}

	var catErr *catalog.Error
	if errors.As(err, &catErr) {
		response.InternalError(w, r, catErr.Message)
		return
	}

	response.InternalError(w, r, err.Error())
}
