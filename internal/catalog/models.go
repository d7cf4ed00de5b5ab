// Package catalog provides satellite product discovery against an external
// Earth-observation product catalog.
package catalog

import (
	"errors"
	"time"

	"github.com/hazardwatch/hazardwatch/internal/region"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotConfigured indicates the catalog credentials are missing from configuration.
	ErrNotConfigured = errors.New("catalog credentials not configured")
	// ErrAuthFailed indicates the identity provider rejected the token request.
	ErrAuthFailed = errors.New("token endpoint rejected the request")
	// ErrCatalogFailed indicates the catalog endpoint returned a non-success response.
	ErrCatalogFailed = errors.New("catalog endpoint returned an error")
)

// Satellite identifies a satellite family used as a catalog collection filter.
type Satellite string

const (
	// SatelliteSentinel1 is the radar (SAR) satellite family.
	SatelliteSentinel1 Satellite = "sentinel-1"
	// SatelliteSentinel2 is the optical satellite family.
	SatelliteSentinel2 Satellite = "sentinel-2"
)

// CollectionName returns the catalog collection name for the satellite.
func (s Satellite) CollectionName() string {
	if s == SatelliteSentinel2 {
		return "SENTINEL-2"
	}
	return "SENTINEL-1"
}

// Label returns the display label attached to normalized products.
func (s Satellite) Label() string {
	if s == SatelliteSentinel2 {
		return "Sentinel-2"
	}
	return "Sentinel-1"
}

// Optical reports whether products of this satellite carry a cloud-cover
// attribute. Radar products never do and must not be filtered on it.
func (s Satellite) Optical() bool {
	return s == SatelliteSentinel2
}

// Processing levels inferred from product names.
const (
	ProcessingLevelL1C     = "L1C"
	ProcessingLevelL2A     = "L2A"
	ProcessingLevelUnknown = "Unknown"
)

// Product is normalized metadata for a single catalog product.
// Values are read-only after construction and live for one request.
type Product struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// AcquisitionDate is the ISO-8601 acquisition timestamp. Falls back to
	// the catalog modification date when the content date is absent.
	AcquisitionDate string `json:"acquisitionDate"`

	// CloudCover is the scene cloud-cover percentage (0-100).
	// Nil for radar products, which carry no cloud-cover attribute.
	CloudCover *float64 `json:"cloudCover,omitempty"`

	ProductType string `json:"productType"`

	// Satellite is the display label, "Sentinel-1" or "Sentinel-2".
	Satellite string `json:"satellite"`

	// ProcessingLevel is inferred heuristically from the product name and is
	// not an authoritative catalog field.
	ProcessingLevel string `json:"processingLevel"`
}

// Credential is a bearer credential obtained from the identity provider.
// It is never persisted.
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the credential is usable at the given instant.
func (c Credential) Valid(now time.Time) bool {
	return c.AccessToken != "" && now.Before(c.ExpiresAt)
}

// SearchRequest describes a spatio-temporal catalog query.
type SearchRequest struct {
	// Region bounds the spatial predicate.
	Region region.Region

	// Satellite selects the catalog collection.
	Satellite Satellite

	// MaxCloudCover is the cloud-cover ceiling in percent.
	// Only applied to optical collections.
	MaxCloudCover float64

	// DaysBack sets the temporal window to [now - DaysBack days, now].
	DaysBack int
}

// Error provides detailed error information from the catalog provider.
type Error struct {
	Provider   string // Provider that generated the error
	Code       string // Short machine-readable error code
	Message    string // Human-readable error message
	StatusCode int    // Upstream HTTP status, 0 when not applicable
	Err        error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
