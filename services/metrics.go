package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ski-planner/models"
)

const (
	// EmptyValue is shown when a metric has nothing to display
	EmptyValue = "—"
	// NotAvailable is shown for an unknown pass price
	NotAvailable = "N/A"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// DailyPassPrice returns the adult full-day pass price, ok=false when unknown
func DailyPassPrice(r *models.Resort) (float64, bool) {
	pass, ok := r.Passes[models.FullDayPass]
	if !ok || pass.Adult == nil {
		return 0, false
	}
	return *pass.Adult, true
}

// FormattedPassPrice renders the daily pass price as "45€", or N/A
func FormattedPassPrice(r *models.Resort) string {
	price, ok := DailyPassPrice(r)
	if !ok {
		return NotAvailable
	}
	return formatNumber(price) + "€"
}

// AccommodationPrice returns the average nightly price, ok=false when unknown or zero.
// A zero price is treated as missing data rather than a free stay, so it never
// wins the cheapest-accommodation row.
func AccommodationPrice(r *models.Resort) (float64, bool) {
	if r.AvgAccommodationPrice == nil || *r.AvgAccommodationPrice <= 0 {
		return 0, false
	}
	return *r.AvgAccommodationPrice, true
}

// SlopeBreakdownSummary renders non-zero slope counts in green, blue, red, black order
func SlopeBreakdownSummary(r *models.Resort) string {
	d := r.SlopesDetail
	segments := []struct {
		count int
		name  string
	}{
		{d.Green, "vertes"},
		{d.Blue, "bleues"},
		{d.Red, "rouges"},
		{d.Black, "noires"},
	}
	var parts []string
	for _, s := range segments {
		if s.count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", s.count, s.name))
		}
	}
	return orEmpty(strings.Join(parts, " · "))
}

// SeasonWindowSummary renders the season as "22 novembre – 10 mai"
func SeasonWindowSummary(r *models.Resort) string {
	if r.Season.Start == nil || r.Season.End == nil {
		return EmptyValue
	}
	return frenchDate(*r.Season.Start) + " – " + frenchDate(*r.Season.End)
}

// AccessSummary lists the known ways to reach the resort, joined by " / "
func AccessSummary(r *models.Resort) string {
	a := r.Access
	var parts []string
	if a.NearestAirport != "" {
		parts = append(parts, "✈️ "+withDistance(a.NearestAirport, a.AirportDistanceKm))
	}
	if a.NearestTrainStation != "" {
		parts = append(parts, "🚆 "+withDistance(a.NearestTrainStation, a.TrainDistanceKm))
	}
	if a.Parking != nil && *a.Parking {
		parts = append(parts, "🅿️ Parking")
	}
	return orEmpty(strings.Join(parts, " / "))
}

// LevelSummary renders the target levels with their display labels
func LevelSummary(r *models.Resort) string {
	labels := make([]string, 0, len(r.Level))
	for _, l := range r.Level {
		labels = append(labels, models.LevelLabel(l))
	}
	return joinList(labels)
}

func withDistance(name string, km *float64) string {
	if km == nil || *km == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s km)", name, formatNumber(*km))
}

func frenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), frenchMonths[t.Month()-1])
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinList(items []string) string {
	return orEmpty(strings.Join(items, ", "))
}

func orEmpty(s string) string {
	if s == "" {
		return EmptyValue
	}
	return s
}
