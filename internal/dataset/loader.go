package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrSchema is returned when the source table does not carry the expected
// pubs-final columns.
var ErrSchema = eris.New("dataset: schema mismatch")

// missingTokens are the cell values treated as missing in optional columns.
var missingTokens = map[string]struct{}{
	"":    {},
	"NA":  {},
	"na":  {},
	"N/A": {},
}

// Load reads the pubs-final CSV at path and returns the full observation
// set in source row order. It fails if the file is absent or its header
// does not match the twelve-column schema.
func Load(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	obs, err := Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", path)
	}

	zap.L().Debug("dataset: loaded",
		zap.String("path", path),
		zap.Int("rows", len(obs)),
	)

	return obs, nil
}

// Read parses the pubs-final table from r. The header row is validated
// against the schema before any data row is parsed: every expected column
// must be present exactly once and no unknown column may appear. Column
// order in the file is not significant.
func Read(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read header")
	}

	idx, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var obs []Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: read row %d", line+1)
		}
		line++

		o, err := parseRow(record, idx)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d", line)
		}
		obs = append(obs, o)
	}

	return obs, nil
}

// mapHeader resolves the header row to a column → field index mapping,
// enforcing the exact twelve-column schema.
func mapHeader(header []string) (map[Column]int, error) {
	idx := make(map[Column]int, len(Columns))
	for i, name := range header {
		c, err := ParseColumn(strings.TrimSpace(name))
		if err != nil {
			return nil, eris.Wrapf(ErrSchema, "dataset: unexpected column %q", name)
		}
		if _, dup := idx[c]; dup {
			return nil, eris.Wrapf(ErrSchema, "dataset: duplicate column %q", c)
		}
		idx[c] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, eris.Wrapf(ErrSchema, "dataset: missing column %q", c)
		}
	}
	return idx, nil
}

func parseRow(record []string, idx map[Column]int) (Observation, error) {
	get := func(c Column) string {
		i := idx[c]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var o Observation
	var err error

	o.AreaCode = get(ColAreaCode)
	o.AreaName = get(ColAreaName)
	if o.AreaCode == "" || o.AreaName == "" {
		return o, eris.Wrap(ErrSchema, "dataset: empty area identifier")
	}

	if o.NumPubs, err = parseCount(get(ColNumPubs), ColNumPubs); err != nil {
		return o, err
	}
	if o.Population, err = parseCount(get(ColPopulation), ColPopulation); err != nil {
		return o, err
	}
	if o.PubsPerCapita, err = parseRequiredFloat(get(ColPubsPerCapita), ColPubsPerCapita); err != nil {
		return o, err
	}
	if o.AreaSqKm, err = parseRequiredFloat(get(ColAreaSqKm), ColAreaSqKm); err != nil {
		return o, err
	}
	if o.PopDensity, err = parseRequiredFloat(get(ColPopDensity), ColPopDensity); err != nil {
		return o, err
	}

	if o.Country, err = parseCountry(get(ColCountry)); err != nil {
		return o, err
	}
	if o.Coastal, err = parseCoastal(get(ColCoastal)); err != nil {
		return o, err
	}

	if o.MedianPay2017, err = parseOptionalFloat(get(ColMedianPay2017), ColMedianPay2017); err != nil {
		return o, err
	}
	if o.LifeExpFemale, err = parseOptionalFloat(get(ColLifeExpFemale), ColLifeExpFemale); err != nil {
		return o, err
	}
	if o.LifeExpMale, err = parseOptionalFloat(get(ColLifeExpMale), ColLifeExpMale); err != nil {
		return o, err
	}

	return o, nil
}

func parseCount(s string, c Column) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Wrapf(ErrSchema, "dataset: column %q: not an integer: %q", c, s)
	}
	if n < 0 {
		return 0, eris.Wrapf(ErrSchema, "dataset: column %q: negative count %d", c, n)
	}
	return n, nil
}

func parseRequiredFloat(s string, c Column) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(ErrSchema, "dataset: column %q: not a number: %q", c, s)
	}
	return v, nil
}

func parseOptionalFloat(s string, c Column) (*float64, error) {
	if _, missing := missingTokens[s]; missing {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, eris.Wrapf(ErrSchema, "dataset: column %q: not a number: %q", c, s)
	}
	return &v, nil
}

func parseCountry(s string) (Country, error) {
	switch Country(s) {
	case England, NorthernIreland, Scotland, Wales:
		return Country(s), nil
	default:
		return "", eris.Wrapf(ErrSchema, "dataset: unrecognized country %q", s)
	}
}

func parseCoastal(s string) (Coastal, error) {
	if _, missing := missingTokens[s]; missing {
		return CoastalUnknown, nil
	}
	switch Coastal(s) {
	case CoastalCoastal, CoastalInland:
		return Coastal(s), nil
	default:
		return CoastalUnknown, eris.Wrapf(ErrSchema, "dataset: unrecognized coastal class %q", s)
	}
}
