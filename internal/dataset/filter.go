package dataset

// ExcludeAreas returns a new observation set with every row whose
// area_name appears in names removed. The input set is never modified,
// so the full set and any reduced set coexist independently and the
// reduced set can be re-derived from the original at any time.
//
// Exclusion is a set difference: a name with no matching row is ignored
// rather than treated as an error. The operation is idempotent and
// commutes with itself for disjoint exclusion sets.
func ExcludeAreas(obs []Observation, names ...string) []Observation {
	if len(names) == 0 {
		out := make([]Observation, len(obs))
		copy(out, obs)
		return out
	}

	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if _, excluded := drop[o.AreaName]; excluded {
			continue
		}
		out = append(out, o)
	}
	return out
}
