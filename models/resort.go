package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FullDayPass is the pass type used for the daily price metric
const FullDayPass = "full_day"

// Resort is a ski-area record as returned by the catalog service
type Resort struct {
	ID                    string               `json:"id"`
	Name                  string               `json:"name"`
	Region                string               `json:"region"`
	AltitudeMin           int                  `json:"altitudeMin"`
	AltitudeMax           int                  `json:"altitudeMax"`
	Latitude              float64              `json:"latitude"`
	Longitude             float64              `json:"longitude"`
	NumSlopes             int                  `json:"numSlopes"`
	NumLifts              int                  `json:"numLifts"`
	KmSlopes              float64              `json:"kmSlopes"`
	SlopesDetail          SlopeBreakdown       `json:"slopesDetail"`
	SnowCannons           int                  `json:"snowCannons"`
	SkiArea               string               `json:"skiArea"`
	Level                 []string             `json:"level"`
	Passes                map[string]PassPrice `json:"passes"`
	AvgAccommodationPrice *float64             `json:"avgAccommodationPrice"`
	Website               string               `json:"website"`
	Description           string               `json:"description"`
	Access                Access               `json:"access"`
	Season                Season               `json:"season"`
	Services              []string             `json:"services"`
	Activities            []string             `json:"activities"`
}

// NearbyResort is a Resort annotated with its distance (km) to a query point
type NearbyResort struct {
	Resort
	Distance float64 `json:"distance"`
}

// PassPrice holds the prices of one pass type. Nil means unknown, never zero.
type PassPrice struct {
	Adult *float64 `json:"adult"`
	Child *float64 `json:"child,omitempty"`
}

// UnmarshalJSON treats anything that is not a {"adult": n, "child": n} object as unknown prices
func (p *PassPrice) UnmarshalJSON(data []byte) error {
	type plain PassPrice
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		*p = PassPrice{}
		return nil
	}
	*p = PassPrice(v)
	return nil
}

// SlopeBreakdown counts slopes per difficulty colour
type SlopeBreakdown struct {
	Green int `json:"green"`
	Blue  int `json:"blue"`
	Red   int `json:"red"`
	Black int `json:"black"`
}

// Access describes how to reach a resort. Nil fields are unknown.
type Access struct {
	NearestAirport      string   `json:"nearest_airport"`
	AirportDistanceKm   *float64 `json:"distance_from_airport_km"`
	NearestTrainStation string   `json:"nearest_train_station"`
	TrainDistanceKm     *float64 `json:"distance_from_train"`
	Parking             *bool    `json:"parking"`
}

// Season is the opening window of a resort
type Season struct {
	Start *time.Time
	End   *time.Time
}

var seasonLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// UnmarshalJSON accepts {"start": "...", "end": "..."} with date or timestamp strings.
// Empty or unparsable bounds are left nil.
func (s *Season) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode season: %w", err)
	}
	s.Start = parseSeasonDate(raw.Start)
	s.End = parseSeasonDate(raw.End)
	return nil
}

// MarshalJSON writes the bounds as YYYY-MM-DD, omitting unknown ones
func (s Season) MarshalJSON() ([]byte, error) {
	out := map[string]string{}
	if s.Start != nil {
		out["start"] = s.Start.Format("2006-01-02")
	}
	if s.End != nil {
		out["end"] = s.End.Format("2006-01-02")
	}
	return json.Marshal(out)
}

func parseSeasonDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range seasonLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// Validate checks the record invariants enforced at the catalog boundary
func (r *Resort) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("resort %q: missing id", r.Name)
	}
	if r.AltitudeMin > r.AltitudeMax {
		return fmt.Errorf("resort %s: altitudeMin %d above altitudeMax %d", r.ID, r.AltitudeMin, r.AltitudeMax)
	}
	d := r.SlopesDetail
	if d.Green < 0 || d.Blue < 0 || d.Red < 0 || d.Black < 0 {
		return fmt.Errorf("resort %s: negative slope count", r.ID)
	}
	return nil
}

// Clone returns a deep copy of r sharing no slices, maps or pointers with it
func (r Resort) Clone() Resort {
	c := r
	c.Level = cloneStrings(r.Level)
	c.Services = cloneStrings(r.Services)
	c.Activities = cloneStrings(r.Activities)
	c.AvgAccommodationPrice = cloneFloat(r.AvgAccommodationPrice)
	if r.Passes != nil {
		c.Passes = make(map[string]PassPrice, len(r.Passes))
		for k, p := range r.Passes {
			c.Passes[k] = PassPrice{Adult: cloneFloat(p.Adult), Child: cloneFloat(p.Child)}
		}
	}
	c.Access.AirportDistanceKm = cloneFloat(r.Access.AirportDistanceKm)
	c.Access.TrainDistanceKm = cloneFloat(r.Access.TrainDistanceKm)
	if r.Access.Parking != nil {
		parking := *r.Access.Parking
		c.Access.Parking = &parking
	}
	if r.Season.Start != nil {
		start := *r.Season.Start
		c.Season.Start = &start
	}
	if r.Season.End != nil {
		end := *r.Season.End
		c.Season.End = &end
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// HasLevel reports whether the resort targets at least one of levels
func (r *Resort) HasLevel(levels []string) bool {
	for _, want := range levels {
		for _, have := range r.Level {
			if have == want {
				return true
			}
		}
	}
	return false
}
