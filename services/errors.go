package services

import "errors"

var (
	// ErrNotSearched reports that a search had neither query nor filters and was not run
	ErrNotSearched = errors.New("not searched")
	// ErrSelectionLimit reports an attempt to compare more than MaxCompared resorts
	ErrSelectionLimit = errors.New("comparison selection is full")
)

// User-facing messages
const (
	defaultSearchError   = "Erreur lors de la recherche"
	selectionLimitNotice = "Tu peux comparer maximum 3 stations à la fois !"
	distanceNotice       = "Le filtre par distance n'est pas encore disponible"
)
