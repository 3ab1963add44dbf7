// Package boundary reads ONS local-authority boundary shapefiles and
// encodes their polygons for storage. The boundaries are keyed by the
// same ONS area_code as the pubs dataset, which is what the downstream
// choropleth rendering joins on.
package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Feature is one local-authority boundary: its ONS code, name, and the
// EWKB-encoded multipolygon (SRID 4326).
type Feature struct {
	AreaCode string
	AreaName string
	Geom     []byte
}

// Options selects the attribute fields carrying the ONS code and name.
// ONS boundary products version these field names by year.
type Options struct {
	CodeField string // default "lad18cd"
	NameField string // default "lad18nm"
}

func (o Options) withDefaults() Options {
	if o.CodeField == "" {
		o.CodeField = "lad18cd"
	}
	if o.NameField == "" {
		o.NameField = "lad18nm"
	}
	return o
}

// ParseShapefile reads a boundary shapefile and returns one feature per
// record. Records without a usable polygon or without an area code are
// skipped, not fatal: the boundary file routinely trails the authority
// list by a reorganization cycle.
func ParseShapefile(shpPath string, opts Options) ([]Feature, error) {
	opts = opts.withDefaults()

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	codeIdx, nameIdx := -1, -1
	for i, f := range reader.Fields() {
		name := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		switch name {
		case strings.ToLower(opts.CodeField):
			codeIdx = i
		case strings.ToLower(opts.NameField):
			nameIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("boundary: shapefile has no %q field", opts.CodeField)
	}

	var feats []Feature
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		code := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		if code == "" {
			skipped++
			continue
		}

		geom, err := EncodeWKB(shape)
		if err != nil || geom == nil {
			skipped++
			continue
		}

		var name string
		if nameIdx >= 0 {
			name = strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		}

		feats = append(feats, Feature{AreaCode: code, AreaName: name, Geom: geom})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return feats, nil
}
