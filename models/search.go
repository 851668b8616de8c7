package models

// Filters are the structured search filters. Zero values mean "not set".
type Filters struct {
	MaxLodgingPrice  float64  // sent to the catalog as maxPrice
	MaxLiftPassPrice float64  // applied locally on the full-day adult pass
	Levels           []string // applied locally, any overlap matches
	MaxDistance      float64  // reserved, not applied
}

// IsEmpty reports whether no filter is set
func (f Filters) IsEmpty() bool {
	return f.MaxLodgingPrice <= 0 && f.MaxLiftPassPrice <= 0 && len(f.Levels) == 0 && f.MaxDistance <= 0
}

// CatalogQuery is the parameter set understood by GET /stations
type CatalogQuery struct {
	Region      string
	MaxPrice    float64
	MinAltitude int
	Level       string
	Search      string
}

// NoWinner marks a comparison row where no resort wins
const NoWinner = -1

// ComparisonRow is one metric rendered across the compared resorts
type ComparisonRow struct {
	Section string // empty continues the previous section
	Label   string
	Values  []string // one per resort, same order as the input
	Winner  int      // index into Values or NoWinner
}
