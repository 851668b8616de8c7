package services

import (
	"fmt"

	"ski-planner/models"
)

// MaxCompared is the largest number of resorts compared side by side
const MaxCompared = 3

type winnerPolicy int

const (
	policyNone winnerPolicy = iota
	policyMax
	policyMin
)

// metric is one row of the comparison table
type metric struct {
	section string
	label   string
	format  func(*models.Resort) string
	raw     func(*models.Resort) (float64, bool)
	policy  winnerPolicy
}

func intValue(get func(*models.Resort) int) func(*models.Resort) (float64, bool) {
	return func(r *models.Resort) (float64, bool) { return float64(get(r)), true }
}

// metricCatalog is the fixed row set, in display order
var metricCatalog = []metric{
	{
		section: "Domaine skiable", label: "Altitude min",
		format: func(r *models.Resort) string { return fmt.Sprintf("%d m", r.AltitudeMin) },
		raw:    intValue(func(r *models.Resort) int { return r.AltitudeMin }),
		policy: policyMax,
	},
	{
		label:  "Altitude max",
		format: func(r *models.Resort) string { return fmt.Sprintf("%d m", r.AltitudeMax) },
		raw:    intValue(func(r *models.Resort) int { return r.AltitudeMax }),
		policy: policyMax,
	},
	{
		label:  "Km de pistes",
		format: func(r *models.Resort) string { return formatNumber(r.KmSlopes) + " km" },
		raw:    func(r *models.Resort) (float64, bool) { return r.KmSlopes, true },
		policy: policyMax,
	},
	{
		label:  "Ski area",
		format: func(r *models.Resort) string { return orEmpty(r.SkiArea) },
	},
	{
		section: "Pistes", label: "Nombre total",
		format: func(r *models.Resort) string { return fmt.Sprintf("%d", r.NumSlopes) },
		raw:    intValue(func(r *models.Resort) int { return r.NumSlopes }),
		policy: policyMax,
	},
	{
		label:  "Détail",
		format: SlopeBreakdownSummary,
	},
	{
		label:  "Canons à neige",
		format: func(r *models.Resort) string { return fmt.Sprintf("%d", r.SnowCannons) },
		raw:    intValue(func(r *models.Resort) int { return r.SnowCannons }),
		policy: policyMax,
	},
	{
		section: "Remontées", label: "Nombre",
		format: func(r *models.Resort) string { return fmt.Sprintf("%d", r.NumLifts) },
		raw:    intValue(func(r *models.Resort) int { return r.NumLifts }),
		policy: policyMax,
	},
	{
		section: "Tarifs", label: "Forfait/jour adulte",
		format: FormattedPassPrice,
		raw:    DailyPassPrice,
		policy: policyMin,
	},
	{
		// zero counts as unknown, see AccommodationPrice
		label:  "Hébergement/nuit",
		format: func(r *models.Resort) string {
			if price, ok := AccommodationPrice(r); ok {
				return formatNumber(price) + " €"
			}
			return EmptyValue
		},
		raw:    AccommodationPrice,
		policy: policyMin,
	},
	{
		section: "Saison", label: "Période",
		format: SeasonWindowSummary,
	},
	{
		section: "Accès", label: "Comment y aller",
		format: AccessSummary,
	},
	{
		section: "Services", label: "Équipements",
		format: func(r *models.Resort) string { return joinList(r.Services) },
	},
	{
		label:  "Activités",
		format: func(r *models.Resort) string { return joinList(r.Activities) },
	},
	{
		// shows the French level labels, unknown tags pass through as-is
		section: "Niveaux", label: "Public cible",
		format: LevelSummary,
	},
}

// MetricCount returns the number of rows BuildComparisonTable always produces
func MetricCount() int {
	return len(metricCatalog)
}

// BuildComparisonTable renders the metric catalog across resorts, in input order.
// It fails only when more than MaxCompared resorts are given.
func BuildComparisonTable(resorts []models.Resort) ([]models.ComparisonRow, error) {
	if len(resorts) > MaxCompared {
		return nil, fmt.Errorf("%w: got %d resorts", ErrSelectionLimit, len(resorts))
	}

	rows := make([]models.ComparisonRow, 0, len(metricCatalog))
	for _, m := range metricCatalog {
		row := models.ComparisonRow{
			Section: m.section,
			Label:   m.label,
			Values:  make([]string, len(resorts)),
			Winner:  models.NoWinner,
		}
		values := make([]*float64, len(resorts))
		for i := range resorts {
			r := &resorts[i]
			row.Values[i] = m.format(r)
			if m.raw != nil {
				if v, ok := m.raw(r); ok {
					values[i] = &v
				}
			}
		}
		if m.policy != policyNone {
			row.Winner = winnerIndex(values, m.policy)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// winnerIndex returns the index of the first resort holding the extreme value.
// Nil values are skipped; fewer than two valid values yields NoWinner.
func winnerIndex(values []*float64, policy winnerPolicy) int {
	best := models.NoWinner
	valid := 0
	for i, v := range values {
		if v == nil {
			continue
		}
		valid++
		if best == models.NoWinner {
			best = i
			continue
		}
		switch policy {
		case policyMax:
			if *v > *values[best] {
				best = i
			}
		case policyMin:
			if *v < *values[best] {
				best = i
			}
		}
	}
	if valid < 2 || policy == policyNone {
		return models.NoWinner
	}
	return best
}
