package services

import (
	"context"
	"strings"

	"ski-planner/models"
	"ski-planner/utils"
)

// StationLister is the part of the catalog client used by searches
type StationLister interface {
	ListStations(ctx context.Context, q models.CatalogQuery) ([]models.Resort, error)
}

// SearchEngine runs a catalog query then applies the filters the catalog cannot express
type SearchEngine struct {
	catalog StationLister
	logger  *utils.Logger
}

// NewSearchEngine creates a SearchEngine over catalog
func NewSearchEngine(catalog StationLister, logger *utils.Logger) *SearchEngine {
	return &SearchEngine{catalog: catalog, logger: logger}
}

// IsEmptySearch reports whether query and filters carry nothing to search on
func IsEmptySearch(query string, filters models.Filters) bool {
	return strings.TrimSpace(query) == "" && filters.IsEmpty()
}

// Search returns the resorts matching query and filters.
// An empty search returns ErrNotSearched without calling the catalog; catalog failures are returned as is.
func (e *SearchEngine) Search(ctx context.Context, query string, filters models.Filters) ([]models.Resort, error) {
	if IsEmptySearch(query, filters) {
		return nil, ErrNotSearched
	}

	q := models.CatalogQuery{Search: strings.TrimSpace(query)}
	if filters.MaxLodgingPrice > 0 {
		q.MaxPrice = filters.MaxLodgingPrice
	}

	results, err := e.catalog.ListStations(ctx, q)
	if err != nil {
		return nil, err
	}
	fetched := len(results)

	results = filterLocal(results, filters)
	if filters.MaxDistance > 0 {
		// TODO: apply MaxDistance once the session carries a user position to measure from.
		e.logger.Warn("Distance filter (%.0f km) is not supported yet, ignoring it", filters.MaxDistance)
	}

	e.logger.Info("Search %q: %d/%d stations kept after local filters", q.Search, len(results), fetched)
	return results, nil
}

// filterLocal applies the pass price ceiling and level overlap, dropping duplicate ids
func filterLocal(resorts []models.Resort, filters models.Filters) []models.Resort {
	seen := utils.NewIDSet()
	kept := make([]models.Resort, 0, len(resorts))
	for i := range resorts {
		r := &resorts[i]
		if !seen.Add(r.ID) {
			continue
		}
		if filters.MaxLiftPassPrice > 0 {
			price, ok := DailyPassPrice(r)
			if !ok || price > filters.MaxLiftPassPrice {
				continue
			}
		}
		if len(filters.Levels) > 0 && !r.HasLevel(filters.Levels) {
			continue
		}
		kept = append(kept, *r)
	}
	return kept
}
