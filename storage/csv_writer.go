package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ski-planner/models"
	"ski-planner/utils"
)

// CSVWriter exports resorts to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

var csvHeader = []string{
	"id", "name", "region", "altitude_min", "altitude_max", "km_slopes",
	"num_slopes", "num_lifts", "snow_cannons", "daily_pass_price",
	"accommodation_price", "season_start", "season_end", "levels",
}

// SaveResorts overwrites the CSV file with one row per resort
func (w *CSVWriter) SaveResorts(_ context.Context, resorts []models.Resort) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	now := time.Now()
	for i := range resorts {
		rec := toRecord(&resorts[i], now)
		row := []string{
			rec.ID,
			rec.Name,
			rec.Region,
			strconv.Itoa(rec.AltitudeMin),
			strconv.Itoa(rec.AltitudeMax),
			strconv.FormatFloat(rec.KmSlopes, 'f', -1, 64),
			strconv.Itoa(rec.NumSlopes),
			strconv.Itoa(rec.NumLifts),
			strconv.Itoa(rec.SnowCannons),
			nullFloat(rec.DailyPassPrice.Float64, rec.DailyPassPrice.Valid),
			nullFloat(rec.AccommodationPrice.Float64, rec.AccommodationPrice.Valid),
			nullDate(rec.SeasonStart.Time, rec.SeasonStart.Valid),
			nullDate(rec.SeasonEnd.Time, rec.SeasonEnd.Valid),
			rec.Levels,
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", rec.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	w.logger.Info("Resorts written to: %s (%d rows)", w.filePath, len(resorts))
	return nil
}

// Close is a no-op; the file is closed after each write
func (w *CSVWriter) Close() error {
	return nil
}

func nullFloat(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nullDate(t time.Time, valid bool) string {
	if !valid {
		return ""
	}
	return t.Format("2006-01-02")
}
