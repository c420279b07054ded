package core

import "sort"

// VehicleSummary is one aggregated row per vehicle. TotalMiles is
// always exactly BusinessMiles + CommuteMiles.
type VehicleSummary struct {
	Vehicle       string
	BusinessMiles float64
	CommuteMiles  float64
	TotalMiles    float64
}

type milesPair struct {
	business float64
	commute  float64
}

// Summarize collapses prepared trips into one row per vehicle, sorted
// by vehicle name. Trips with RowOK false are excluded from every sum
// (they stay in the PreparedSet; exclusion is local to aggregation).
// A vehicle whose trips are all invalid does not appear at all.
func Summarize(ps PreparedSet) []VehicleSummary {
	sums := map[string]*milesPair{}
	for _, t := range ps.Trips {
		if !t.RowOK {
			continue
		}
		p := sums[t.Vehicle]
		if p == nil {
			p = &milesPair{}
			sums[t.Vehicle] = p
		}
		if t.IsCommute {
			p.commute += t.Miles.Value
		} else {
			p.business += t.Miles.Value
		}
	}

	names := make([]string, 0, len(sums))
	for v := range sums {
		names = append(names, v)
	}
	sort.Strings(names)

	out := make([]VehicleSummary, 0, len(names))
	for _, v := range names {
		p := sums[v]
		out = append(out, VehicleSummary{
			Vehicle:       v,
			BusinessMiles: p.business,
			CommuteMiles:  p.commute,
			TotalMiles:    p.business + p.commute,
		})
	}
	return out
}
