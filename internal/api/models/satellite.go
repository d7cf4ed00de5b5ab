// Package models provides request and response models for the HazardWatch API.
package models

import (
	"github.com/hazardwatch/hazardwatch/internal/analysis"
	"github.com/hazardwatch/hazardwatch/internal/catalog"
)

// Actions accepted by the satellite-data endpoint.
const (
	ActionListRegions = "list-regions"
	ActionSearch      = "search"
	ActionAnalyze     = "analyze"
)

// SatelliteDataRequest is the single inbound body for the satellite-data
// endpoint. Only Action is always required; the remaining fields depend on
// the action and fall back to documented defaults when omitted.
type SatelliteDataRequest struct {
	Action        string  `json:"action"`
	RegionID      string  `json:"regionId,omitempty"`
	Satellite     string  `json:"satellite,omitempty"`
	MaxCloudCover float64 `json:"maxCloudCover,omitempty"`
	DaysBack      int     `json:"daysBack,omitempty"`
}

// RegionListResponse is the list-regions response envelope.
type RegionListResponse struct {
	Regions []analysis.RegionSummary `json:"regions"`
}

// ProductListResponse is the search response envelope.
type ProductListResponse struct {
	Products []catalog.Product `json:"products"`
}

// ErrorResponse is the error payload for all failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
