package storage

import (
	"database/sql"
	"strings"
	"time"

	"ski-planner/models"
)

// resortRecord is the flattened form of a Resort used by the CSV and SQL sinks
type resortRecord struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Region             string          `db:"region"`
	AltitudeMin        int             `db:"altitude_min"`
	AltitudeMax        int             `db:"altitude_max"`
	KmSlopes           float64         `db:"km_slopes"`
	NumSlopes          int             `db:"num_slopes"`
	NumLifts           int             `db:"num_lifts"`
	SnowCannons        int             `db:"snow_cannons"`
	DailyPassPrice     sql.NullFloat64 `db:"daily_pass_price"`
	AccommodationPrice sql.NullFloat64 `db:"accommodation_price"`
	SeasonStart        sql.NullTime    `db:"season_start"`
	SeasonEnd          sql.NullTime    `db:"season_end"`
	Levels             string          `db:"levels"`
	Latitude           float64         `db:"latitude"`
	Longitude          float64         `db:"longitude"`
	SnapshotAt         time.Time       `db:"snapshot_at"`
}

func toRecord(r *models.Resort, at time.Time) resortRecord {
	rec := resortRecord{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Region:      strings.TrimSpace(r.Region),
		AltitudeMin: r.AltitudeMin,
		AltitudeMax: r.AltitudeMax,
		KmSlopes:    r.KmSlopes,
		NumSlopes:   r.NumSlopes,
		NumLifts:    r.NumLifts,
		SnowCannons: r.SnowCannons,
		Levels:      strings.Join(r.Level, ","),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		SnapshotAt:  at,
	}
	if pass, ok := r.Passes[models.FullDayPass]; ok && pass.Adult != nil {
		rec.DailyPassPrice = sql.NullFloat64{Float64: *pass.Adult, Valid: true}
	}
	if r.AvgAccommodationPrice != nil {
		rec.AccommodationPrice = sql.NullFloat64{Float64: *r.AvgAccommodationPrice, Valid: true}
	}
	if r.Season.Start != nil {
		rec.SeasonStart = sql.NullTime{Time: *r.Season.Start, Valid: true}
	}
	if r.Season.End != nil {
		rec.SeasonEnd = sql.NullTime{Time: *r.Season.End, Valid: true}
	}
	return rec
}
