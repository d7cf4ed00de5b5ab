package hazard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/hazard"
)

func product(date string, cloudCover *float64) catalog.Product {
	return catalog.Product{
		ID:              "p-" + date,
		Name:            "S2A_MSIL2A_" + date,
		AcquisitionDate: date,
		CloudCover:      cloudCover,
	}
}

func cloud(v float64) *float64 {
	return &v
}

func TestDeriveIndicators_EmptyInputs(t *testing.T) {
	got := hazard.DeriveIndicators(nil, nil)

	assert.Equal(t, hazard.AvailabilityLimited, got.DataAvailability)
	assert.Equal(t, hazard.VegetationPoor, got.VegetationHealth)
	assert.Equal(t, hazard.FloodRiskHigh, got.FloodRisk)
	assert.Nil(t, got.LastUpdate)
	assert.False(t, got.RadarCoverage)
	assert.False(t, got.OpticalCoverage)
}

func TestDeriveIndicators_GoodCoverage(t *testing.T) {
	optical := []catalog.Product{
		product("2026-08-01T10:00:00.000Z", cloud(5)),
		product("2026-08-05T10:00:00.000Z", cloud(10)),
		product("2026-08-10T10:00:00.000Z", cloud(15)),
	}
	radar := []catalog.Product{
		product("2026-08-02T05:00:00.000Z", nil),
		product("2026-08-06T05:00:00.000Z", nil),
		product("2026-08-11T05:00:00.000Z", nil),
	}

	got := hazard.DeriveIndicators(optical, radar)

	assert.Equal(t, hazard.AvailabilityGood, got.DataAvailability)
	assert.Equal(t, hazard.VegetationGood, got.VegetationHealth)
	assert.Equal(t, hazard.FloodRiskLow, got.FloodRisk)
	assert.True(t, got.RadarCoverage)
	assert.True(t, got.OpticalCoverage)
	require.NotNil(t, got.LastUpdate)
	assert.Equal(t, "2026-08-11T05:00:00.000Z", *got.LastUpdate)
}

func TestDeriveIndicators_CloudyOpticalNoRadar(t *testing.T) {
	optical := []catalog.Product{
		product("2026-08-01T10:00:00.000Z", cloud(70)),
		product("2026-08-05T10:00:00.000Z", cloud(50)),
	}

	got := hazard.DeriveIndicators(optical, nil)

	assert.Equal(t, hazard.AvailabilityModerate, got.DataAvailability)
	assert.Equal(t, hazard.VegetationPoor, got.VegetationHealth)
	assert.Equal(t, hazard.FloodRiskHigh, got.FloodRisk)
	assert.True(t, got.OpticalCoverage)
	assert.False(t, got.RadarCoverage)
}

func TestDeriveIndicators_ModerateBands(t *testing.T) {
	// Average cloud cover of 30 sits between both thresholds, and two radar
	// scenes are not enough for the low flood-risk classification.
	optical := []catalog.Product{
		product("2026-08-01T10:00:00.000Z", cloud(20)),
		product("2026-08-02T10:00:00.000Z", cloud(40)),
	}
	radar := []catalog.Product{
		product("2026-08-03T05:00:00.000Z", nil),
		product("2026-08-04T05:00:00.000Z", nil),
	}

	got := hazard.DeriveIndicators(optical, radar)

	assert.Equal(t, hazard.VegetationModerate, got.VegetationHealth)
	assert.Equal(t, hazard.FloodRiskMedium, got.FloodRisk)
	assert.Equal(t, hazard.AvailabilityGood, got.DataAvailability)
}

func TestDeriveIndicators_MissingCloudCoverCountsAsZero(t *testing.T) {
	// One scene at 30% and one without the attribute average to 15, which is
	// under the good-vegetation ceiling.
	optical := []catalog.Product{
		product("2026-08-01T10:00:00.000Z", cloud(30)),
		product("2026-08-02T10:00:00.000Z", nil),
	}

	got := hazard.DeriveIndicators(optical, nil)

	assert.Equal(t, hazard.VegetationGood, got.VegetationHealth)
}

func TestDeriveIndicators_RadarOnly(t *testing.T) {
	radar := []catalog.Product{
		product("2026-08-03T05:00:00.000Z", nil),
		product("2026-08-04T05:00:00.000Z", nil),
		product("2026-08-05T05:00:00.000Z", nil),
	}

	got := hazard.DeriveIndicators(nil, radar)

	// No optical imagery forces the worst-case cloud average.
	assert.Equal(t, hazard.VegetationPoor, got.VegetationHealth)
	assert.Equal(t, hazard.FloodRiskLow, got.FloodRisk)
	assert.Equal(t, hazard.AvailabilityModerate, got.DataAvailability)
}

func TestDeriveIndicators_LastUpdateOrderIndependent(t *testing.T) {
	optical := []catalog.Product{
		product("2026-07-01T10:00:00.000Z", cloud(10)),
		product("2026-08-20T10:00:00.000Z", cloud(10)),
	}
	radar := []catalog.Product{
		product("2026-08-15T05:00:00.000Z", nil),
	}

	forward := hazard.DeriveIndicators(optical, radar)

	reversed := []catalog.Product{optical[1], optical[0]}
	backward := hazard.DeriveIndicators(reversed, radar)

	require.NotNil(t, forward.LastUpdate)
	require.NotNil(t, backward.LastUpdate)
	assert.Equal(t, "2026-08-20T10:00:00.000Z", *forward.LastUpdate)
	assert.Equal(t, *forward.LastUpdate, *backward.LastUpdate)
}

func TestDeriveIndicators_SkipsEmptyTimestamps(t *testing.T) {
	optical := []catalog.Product{
		{ID: "no-date", Name: "S2A_MSIL1C_X", AcquisitionDate: "", CloudCover: cloud(10)},
	}

	got := hazard.DeriveIndicators(optical, nil)

	assert.Nil(t, got.LastUpdate)
	assert.True(t, got.OpticalCoverage)
}

func TestDeriveIndicators_IsPure(t *testing.T) {
	optical := []catalog.Product{product("2026-08-01T10:00:00.000Z", cloud(10))}
	radar := []catalog.Product{product("2026-08-02T05:00:00.000Z", nil)}

	first := hazard.DeriveIndicators(optical, radar)
	second := hazard.DeriveIndicators(optical, radar)

	assert.Equal(t, first, second)
}
