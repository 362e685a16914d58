// Package spatial builds attribution sources from shapefiles using
// centroid-containment: each block's census internal point is tested
// against ward (and neighborhood) boundary polygons. This is the external
// geometry collaborator's side of the fence; the analysis engine consumes
// its output as plain block-to-ward tables and never calls it.
package spatial

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/redist-cli/internal/model"
)

// JoinOptions names the shapefile attribute fields used by the join.
// Defaults match Census TIGER/Line TABBLOCK10 conventions.
type JoinOptions struct {
	BlockIDField string // default "geoid10"
	LatField     string // default "intptlat10"
	LonField     string // default "intptlon10"
	WardField    string // default "ward"
	NhoodField   string // default "name"
}

func (o *JoinOptions) defaults() {
	if o.BlockIDField == "" {
		o.BlockIDField = "geoid10"
	}
	if o.LatField == "" {
		o.LatField = "intptlat10"
	}
	if o.LonField == "" {
		o.LonField = "intptlon10"
	}
	if o.WardField == "" {
		o.WardField = "ward"
	}
	if o.NhoodField == "" {
		o.NhoodField = "name"
	}
}

// zone is one named boundary polygon, stored as flat coordinate rings.
type zone struct {
	name  string
	rings [][]float64
}

// contains tests the point against the zone's rings with the even-odd
// rule, which handles holes without caring about ring orientation.
func (z *zone) contains(coord geom.Coord) bool {
	var inside bool
	for _, ring := range z.rings {
		if xy.IsPointInRing(geom.XY, coord, ring) {
			inside = !inside
		}
	}
	return inside
}

// BuildSource runs the centroid-containment join and returns it as a named
// attribution source. nhoodPath may be empty to skip the neighborhood pass.
func BuildSource(name, blockPath, wardPath, nhoodPath string, opts JoinOptions) (model.AttributionSource, error) {
	opts.defaults()
	src := model.AttributionSource{
		Name:   name,
		Wards:  make(map[string]string),
		Nhoods: make(map[string]string),
	}

	wards, err := readZones(wardPath, opts.WardField)
	if err != nil {
		return src, err
	}
	var nhoods []zone
	if nhoodPath != "" {
		if nhoods, err = readZones(nhoodPath, opts.NhoodField); err != nil {
			return src, err
		}
	}

	reader, err := shp.Open(blockPath)
	if err != nil {
		return src, eris.Wrapf(err, "spatial: open blocks %s", blockPath)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldIndex(reader.Fields())
	for _, required := range []string{opts.BlockIDField, opts.LatField, opts.LonField} {
		if _, ok := fields[strings.ToLower(required)]; !ok {
			return src, eris.Errorf("spatial: blocks %s missing field %q", blockPath, required)
		}
	}

	var unmatched int
	for reader.Next() {
		id := attribute(reader, fields, opts.BlockIDField)
		if id == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(attribute(reader, fields, opts.LatField), 64)
		lon, lonErr := strconv.ParseFloat(attribute(reader, fields, opts.LonField), 64)
		if latErr != nil || lonErr != nil {
			zap.L().Debug("spatial: block has no usable internal point", zap.String("block", id))
			src.Wards[id] = ""
			continue
		}
		coord := geom.Coord{lon, lat}

		src.Wards[id] = locate(wards, coord)
		if src.Wards[id] == "" {
			unmatched++
		}
		if nhoods != nil {
			if nhood := locate(nhoods, coord); nhood != "" {
				src.Nhoods[id] = nhood
			}
		}
	}

	zap.L().Info("spatial: join complete",
		zap.String("source", name),
		zap.Int("blocks", len(src.Wards)),
		zap.Int("zones", len(wards)),
		zap.Int("unmatched", unmatched),
	)
	return src, nil
}

// locate returns the first zone containing the point, empty when none does.
// Boundary zones are non-overlapping; a point on a shared edge resolves to
// whichever zone came first in the shapefile, which mirrors the one-to-one
// join the planning office's GIS performed.
func locate(zones []zone, coord geom.Coord) string {
	for i := range zones {
		if zones[i].contains(coord) {
			return zones[i].name
		}
	}
	return ""
}

// readZones reads a boundary shapefile into named polygons.
func readZones(path, nameField string) ([]zone, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: open zones %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldIndex(reader.Fields())
	if _, ok := fields[strings.ToLower(nameField)]; !ok {
		return nil, eris.Errorf("spatial: zones %s missing field %q", path, nameField)
	}

	var zones []zone
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly.NumParts == 0 || len(poly.Points) == 0 {
			skipped++
			continue
		}
		z := zone{name: attribute(reader, fields, nameField)}
		if z.name == "" {
			skipped++
			continue
		}
		z.rings = polygonRings(poly)
		zones = append(zones, z)
	}
	if skipped > 0 {
		zap.L().Warn("spatial: skipped unusable zone records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return zones, nil
}

// polygonRings splits a shapefile polygon into flat coordinate rings.
func polygonRings(p *shp.Polygon) [][]float64 {
	rings := make([][]float64, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		rings = append(rings, flat)
	}
	return rings
}

// fieldIndex maps lower-cased dbf field names to indices, trimming the NUL
// padding dbf headers carry.
func fieldIndex(fields []shp.Field) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		idx[strings.ToLower(name)] = i
	}
	return idx
}

func attribute(reader *shp.Reader, fields map[string]int, name string) string {
	i, ok := fields[strings.ToLower(name)]
	if !ok {
		return ""
	}
	val := strings.TrimRight(reader.Attribute(i), "\x00")
	return strings.TrimSpace(val)
}
