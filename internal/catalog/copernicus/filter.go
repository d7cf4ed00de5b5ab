package copernicus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hazardwatch/hazardwatch/internal/catalog"
	"github.com/hazardwatch/hazardwatch/internal/region"
)

// isoMillis matches the catalog's expected timestamp format, always UTC.
const isoMillis = "2006-01-02T15:04:05.000Z"

// BuildFilter constructs the OData $filter expression for a product search.
// The expression conjoins, in order: a collection predicate, a spatial
// intersects predicate over the region bounding box, a temporal window of
// [now - daysBack days, now] inclusive, and - for optical collections only -
// a cloud-cover ceiling. The output is deterministic for a fixed now.
func BuildFilter(r region.Region, sat catalog.Satellite, maxCloudCover float64, daysBack int, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Collection/Name eq '%s'", sat.CollectionName()))

	b.WriteString(" and ")
	b.WriteString(fmt.Sprintf("OData.CSC.Intersects(area=geography'SRID=4326;%s')", bboxPolygon(r.BBox)))

	end := now.UTC()
	start := end.AddDate(0, 0, -daysBack)
	b.WriteString(" and ")
	b.WriteString(fmt.Sprintf("ContentDate/Start ge %s and ContentDate/Start le %s",
		start.Format(isoMillis), end.Format(isoMillis)))

	// Radar products carry no cloudCover attribute, so the predicate is
	// omitted entirely for Sentinel-1 rather than set to a permissive bound.
	if sat.Optical() {
		b.WriteString(fmt.Sprintf(
			" and Attributes/OData.CSC.DoubleAttribute/any(att:att/Name eq 'cloudCover' and att/OData.CSC.DoubleAttribute/Value le %s)",
			formatCoord(maxCloudCover)))
	}

	return b.String()
}

// bboxPolygon renders the bounding box as a closed WKT ring in (lon lat)
// order: five vertices, first equal to last, counter-clockwise from the
// south-west corner.
func bboxPolygon(b region.BBox) string {
	minLon := formatCoord(b.MinLon())
	minLat := formatCoord(b.MinLat())
	maxLon := formatCoord(b.MaxLon())
	maxLat := formatCoord(b.MaxLat())

	return fmt.Sprintf("POLYGON((%s %s,%s %s,%s %s,%s %s,%s %s))",
		minLon, minLat,
		maxLon, minLat,
		maxLon, maxLat,
		minLon, maxLat,
		minLon, minLat)
}

// formatCoord renders a coordinate with the shortest exact representation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
