package dataset

// MissingColumn describes one column with at least one missing value:
// its name, and the area names of the rows where it is missing, in
// source row order.
type MissingColumn struct {
	Column Column   `json:"column"`
	Count  int      `json:"count"`
	Areas  []string `json:"areas"`
}

// MissingReport computes, per column, the rows where that column is
// missing. Columns with zero missing values are omitted entirely; the
// returned slice follows source column order and each Areas sequence
// follows source row order. The input set is not modified.
func MissingReport(obs []Observation) []MissingColumn {
	var report []MissingColumn
	for _, c := range Columns {
		var areas []string
		for _, o := range obs {
			if ColumnMissing(o, c) {
				areas = append(areas, o.AreaName)
			}
		}
		if len(areas) == 0 {
			continue
		}
		report = append(report, MissingColumn{
			Column: c,
			Count:  len(areas),
			Areas:  areas,
		})
	}
	return report
}

// Complete returns the rows of obs where every column in cols is
// present, preserving order. With no columns it copies the full set.
func Complete(obs []Observation, cols ...Column) []Observation {
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		keep := true
		for _, c := range cols {
			if ColumnMissing(o, c) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, o)
		}
	}
	return out
}
