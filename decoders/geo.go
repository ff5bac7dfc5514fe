package decoders

import (
	"os"
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/opendatato/opendatato/data"
)

// name of the frame column holding feature geometries
const GeometryColumn = "geometry"

// reads a GeoJSON feature collection into a frame with one column per feature
// property (sorted by name) followed by the geometry column
func decodeGeoJSON(path string) (data.Value, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(contents)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool)
	for _, feature := range fc.Features {
		for key := range feature.Properties {
			keys[key] = true
		}
	}
	columns := make([]string, 0, len(keys)+1)
	for key := range keys {
		if key != GeometryColumn {
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)
	columns = append(columns, GeometryColumn)

	frame := data.NewFrame(columns...)
	for _, feature := range fc.Features {
		cells := make([]any, len(columns))
		for i, column := range columns[:len(columns)-1] {
			cells[i] = feature.Properties[column]
		}
		cells[len(columns)-1] = feature.Geometry
		frame.Append(cells...)
	}
	return frame, nil
}

// reads a shapefile (with its .dbf/.shx sidecars alongside) into a frame with
// one column per attribute followed by the geometry column
func decodeShapefile(path string) (data.Value, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	fields := reader.Fields()
	columns := make([]string, len(fields)+1)
	for i, field := range fields {
		columns[i] = field.String()
	}
	columns[len(fields)] = GeometryColumn

	frame := data.NewFrame(columns...)
	for reader.Next() {
		n, shape := reader.Shape()
		cells := make([]any, len(columns))
		for i := range fields {
			cells[i] = strings.TrimSpace(strings.TrimRight(reader.ReadAttribute(n, i), "\x00"))
		}
		cells[len(fields)] = geometryFromShape(shape)
		frame.Append(cells...)
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	data.InferColumnTypes(frame, GeometryColumn)
	return frame, nil
}

// converts a shapefile shape to the equivalent orb geometry
func geometryFromShape(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}
	case *shp.PointM:
		return orb.Point{s.X, s.Y}
	case *shp.MultiPoint:
		return multiPoint(s.Points)
	case *shp.MultiPointZ:
		return multiPoint(s.Points)
	case *shp.MultiPointM:
		return multiPoint(s.Points)
	case *shp.PolyLine:
		return lines(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return lines(s.Parts, s.Points)
	case *shp.PolyLineM:
		return lines(s.Parts, s.Points)
	case *shp.Polygon:
		return polygon(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygon(s.Parts, s.Points)
	case *shp.PolygonM:
		return polygon(s.Parts, s.Points)
	}
	return nil
}

func multiPoint(points []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}

// splits a shape's points into its parts
func parts(starts []int32, points []shp.Point) [][]orb.Point {
	split := make([][]orb.Point, len(starts))
	for i, start := range starts {
		end := int32(len(points))
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		split[i] = part
	}
	return split
}

func lines(starts []int32, points []shp.Point) orb.Geometry {
	split := parts(starts, points)
	if len(split) == 1 {
		return orb.LineString(split[0])
	}
	mls := make(orb.MultiLineString, len(split))
	for i, part := range split {
		mls[i] = orb.LineString(part)
	}
	return mls
}

func polygon(starts []int32, points []shp.Point) orb.Geometry {
	split := parts(starts, points)
	poly := make(orb.Polygon, len(split))
	for i, part := range split {
		poly[i] = orb.Ring(part)
	}
	return poly
}
