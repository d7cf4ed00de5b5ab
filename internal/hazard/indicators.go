// Package hazard derives qualitative environmental-hazard indicators from
// satellite product metadata.
package hazard

import (
	"github.com/hazardwatch/hazardwatch/internal/catalog"
)

// FloodRisk is the qualitative flood-risk classification.
type FloodRisk string

const (
	FloodRiskLow    FloodRisk = "low"
	FloodRiskMedium FloodRisk = "medium"
	FloodRiskHigh   FloodRisk = "high"
)

// VegetationHealth is the qualitative vegetation-health classification.
type VegetationHealth string

const (
	VegetationPoor     VegetationHealth = "poor"
	VegetationModerate VegetationHealth = "moderate"
	VegetationGood     VegetationHealth = "good"
)

// DataAvailability classifies how much recent imagery is available.
type DataAvailability string

const (
	AvailabilityLimited  DataAvailability = "limited"
	AvailabilityModerate DataAvailability = "moderate"
	AvailabilityGood     DataAvailability = "good"
)

// Indicators is the derived hazard assessment for a region. It is a value
// recomputed on every analysis request and carries no identity.
type Indicators struct {
	FloodRisk        FloodRisk        `json:"floodRisk"`
	VegetationHealth VegetationHealth `json:"vegetationHealth"`
	DataAvailability DataAvailability `json:"dataAvailability"`

	// LastUpdate is the most recent acquisition timestamp across both
	// product lists, nil when no products are available.
	LastUpdate *string `json:"lastUpdate"`

	RadarCoverage   bool `json:"radarCoverage"`
	OpticalCoverage bool `json:"opticalCoverage"`
}

// Cloud-cover thresholds for the vegetation classification.
const (
	goodVegetationCloudCeiling = 20.0
	poorVegetationCloudFloor   = 50.0
)

// minRadarProductsForLowRisk is the radar scene count that indicates coverage
// good enough for continuous flood monitoring.
const minRadarProductsForLowRisk = 3

// DeriveIndicators reduces the optical and radar product lists to qualitative
// indicators. It is a pure function of its inputs: deterministic, no I/O, no
// hidden state. Each classification is independent of the others.
//
// The vegetation and flood rules are coarse availability heuristics standing
// in for NDVI and SAR intensity analysis, which happen downstream.
func DeriveIndicators(optical, radar []catalog.Product) Indicators {
	hasOptical := len(optical) > 0
	hasRadar := len(radar) > 0

	availability := AvailabilityLimited
	switch {
	case hasOptical && hasRadar:
		availability = AvailabilityGood
	case hasOptical || hasRadar:
		availability = AvailabilityModerate
	}

	avgCloud := averageCloudCover(optical)

	vegetation := VegetationModerate
	switch {
	case avgCloud < goodVegetationCloudCeiling && hasOptical:
		vegetation = VegetationGood
	case avgCloud > poorVegetationCloudFloor || !hasOptical:
		vegetation = VegetationPoor
	}

	flood := FloodRiskMedium
	switch {
	case hasRadar && len(radar) >= minRadarProductsForLowRisk:
		flood = FloodRiskLow
	case !hasRadar:
		flood = FloodRiskHigh
	}

	return Indicators{
		FloodRisk:        flood,
		VegetationHealth: vegetation,
		DataAvailability: availability,
		LastUpdate:       latestAcquisition(optical, radar),
		RadarCoverage:    hasRadar,
		OpticalCoverage:  hasOptical,
	}
}

// averageCloudCover computes the mean cloud cover of the optical products.
// Products without a cloud-cover attribute count as 0, and an empty list
// yields the worst case of 100 so the vegetation rule classifies it poor.
func averageCloudCover(optical []catalog.Product) float64 {
	if len(optical) == 0 {
		return 100
	}
	var sum float64
	for _, p := range optical {
		if p.CloudCover != nil {
			sum += *p.CloudCover
		}
	}
	return sum / float64(len(optical))
}

// latestAcquisition returns the maximum acquisition timestamp across both
// lists. Timestamps are ISO-8601, so lexicographic comparison orders them
// chronologically. Empty timestamps are skipped.
func latestAcquisition(optical, radar []catalog.Product) *string {
	var latest string
	for _, list := range [][]catalog.Product{optical, radar} {
		for _, p := range list {
			if p.AcquisitionDate != "" && p.AcquisitionDate > latest {
				latest = p.AcquisitionDate
			}
		}
	}
	if latest == "" {
		return nil
	}
	return &latest
}
