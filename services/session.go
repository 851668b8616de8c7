package services

import (
	"context"
	"errors"
	"sync"

	"ski-planner/models"
	"ski-planner/utils"
)

// FavoritesService is the favorites store used by a TripSession
type FavoritesService interface {
	List(ctx context.Context) ([]models.Resort, error)
	Add(ctx context.Context, stationID string) error
	Remove(ctx context.Context, stationID string) error
}

// Searcher runs resort searches
type Searcher interface {
	Search(ctx context.Context, query string, filters models.Filters) ([]models.Resort, error)
}

// Navigator receives route changes such as "/stations/{id}"
type Navigator interface {
	Navigate(path string)
}

// EventKind names a state change published by a TripSession
type EventKind string

const (
	EventFavoritesChanged EventKind = "favorites_changed"
	EventFavoriteFailed   EventKind = "favorite_failed"
	EventSearchStarted    EventKind = "search_started"
	EventSearchFinished   EventKind = "search_finished"
	EventSearchFailed     EventKind = "search_failed"
	EventSearchReset      EventKind = "search_reset"
	EventSelectionChanged EventKind = "selection_changed"
	EventSelectionLimit   EventKind = "selection_limit"
	EventNotice           EventKind = "notice"
)

// Event is sent to subscribers after each state change
type Event struct {
	Kind    EventKind
	Message string
}

// State is a snapshot of everything a UI renders
type State struct {
	Favorites        []models.Resort
	LoadingFavorites bool
	FavoriteError    string

	Query         string
	Filters       models.Filters
	Results       []models.Resort
	HasSearched   bool
	LoadingSearch bool
	SearchError   string

	Compare []models.Resort
}

// TripSession owns the favorites, search and comparison state of one user session
type TripSession struct {
	favorites FavoritesService
	search    Searcher
	navigator Navigator
	logger    *utils.Logger

	mu          sync.Mutex
	state       State
	favoriteIDs *utils.IDSet
	searchSeq   uint64
	subscribers []chan Event
	closed      bool
}

// NewTripSession creates a session; navigator may be nil
func NewTripSession(favorites FavoritesService, search Searcher, navigator Navigator, logger *utils.Logger) *TripSession {
	return &TripSession{
		favorites:   favorites,
		search:      search,
		navigator:   navigator,
		logger:      logger,
		state:       State{LoadingFavorites: true},
		favoriteIDs: utils.NewIDSet(),
	}
}

// Subscribe returns a channel receiving every subsequent event until Close.
// Slow readers lose events. After Close the returned channel is already closed.
func (s *TripSession) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe closes ch and stops delivering events to it
func (s *TripSession) Unsubscribe(ch <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			close(sub)
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Close closes every subscriber channel. Later state changes publish nothing.
func (s *TripSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// publish must be called with s.mu held
func (s *TripSession) publish(kind EventKind, msg string) {
	ev := Event{Kind: kind, Message: msg}
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("Dropping %s event for a slow subscriber", kind)
		}
	}
}

// Snapshot returns a deep copy of the current state
func (s *TripSession) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Favorites = cloneResorts(s.state.Favorites)
	st.Results = cloneResorts(s.state.Results)
	st.Compare = cloneResorts(s.state.Compare)
	st.Filters.Levels = append([]string(nil), s.state.Filters.Levels...)
	return st
}

func cloneResorts(resorts []models.Resort) []models.Resort {
	if resorts == nil {
		return nil
	}
	out := make([]models.Resort, len(resorts))
	for i := range resorts {
		out[i] = resorts[i].Clone()
	}
	return out
}

// ---- Favorites ----

// setFavoritesLocked replaces the favorites and their id index
func (s *TripSession) setFavoritesLocked(favs []models.Resort) {
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ID)
	}
	s.state.Favorites = favs
	s.favoriteIDs = utils.NewIDSet(ids...)
}

// LoadFavorites fetches the favorites list from the store
func (s *TripSession) LoadFavorites(ctx context.Context) {
	favs, err := s.favorites.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoadingFavorites = false
	if err != nil {
		s.logger.Error("Loading favorites failed: %v", err)
		s.state.FavoriteError = err.Error()
		s.publish(EventFavoriteFailed, err.Error())
		return
	}
	s.setFavoritesLocked(favs)
	s.state.FavoriteError = ""
	s.publish(EventFavoritesChanged, "")
}

// FavoriteIDs returns the ids of the current favorites
func (s *TripSession) FavoriteIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIDs.IDs()
}

// IsFavorite reports whether stationID is in the local favorites
func (s *TripSession) IsFavorite(stationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIDs.Has(stationID)
}

// ToggleFavorite removes or adds stationID. On failure the local list is unchanged
// and the error is kept in FavoriteError and published.
func (s *TripSession) ToggleFavorite(ctx context.Context, stationID string) {
	s.mu.Lock()
	isFav := s.favoriteIDs.Has(stationID)
	s.mu.Unlock()

	if isFav {
		if err := s.favorites.Remove(ctx, stationID); err != nil {
			s.favoriteFailed(stationID, err)
			return
		}
		s.mu.Lock()
		kept := make([]models.Resort, 0, len(s.state.Favorites))
		for _, f := range s.state.Favorites {
			if f.ID != stationID {
				kept = append(kept, f)
			}
		}
		s.state.Favorites = kept
		s.favoriteIDs.Remove(stationID)
		s.state.FavoriteError = ""
		s.logger.Debug("Removed favorite %s, %d left", stationID, s.favoriteIDs.Count())
		s.publish(EventFavoritesChanged, "")
		s.mu.Unlock()
		return
	}

	if err := s.favorites.Add(ctx, stationID); err != nil {
		s.favoriteFailed(stationID, err)
		return
	}
	favs, err := s.favorites.List(ctx)
	if err != nil {
		s.favoriteFailed(stationID, err)
		return
	}
	s.mu.Lock()
	s.setFavoritesLocked(favs)
	s.state.FavoriteError = ""
	s.logger.Debug("Added favorite %s, %d total", stationID, s.favoriteIDs.Count())
	s.publish(EventFavoritesChanged, "")
	s.mu.Unlock()
}

func (s *TripSession) favoriteFailed(stationID string, err error) {
	s.logger.Error("Favorite toggle for %s failed: %v", stationID, err)
	s.mu.Lock()
	s.state.FavoriteError = err.Error()
	s.publish(EventFavoriteFailed, err.Error())
	s.mu.Unlock()
}

// ---- Search ----

// Search runs a search and applies its outcome unless a newer search was started meanwhile.
// An empty query with empty filters resets the search state without remote calls.
func (s *TripSession) Search(ctx context.Context, query string, filters models.Filters) {
	s.mu.Lock()
	s.searchSeq++
	seq := s.searchSeq
	if IsEmptySearch(query, filters) {
		s.state.Query = query
		s.state.Filters = filters
		s.state.HasSearched = false
		s.state.Results = nil
		s.state.SearchError = ""
		s.state.LoadingSearch = false
		s.publish(EventSearchReset, "")
		s.mu.Unlock()
		return
	}
	s.state.Query = query
	s.state.Filters = filters
	s.state.LoadingSearch = true
	s.state.SearchError = ""
	s.state.HasSearched = true
	s.publish(EventSearchStarted, query)
	if filters.MaxDistance > 0 {
		s.publish(EventNotice, distanceNotice)
	}
	s.mu.Unlock()

	results, err := s.search.Search(ctx, query, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.searchSeq {
		s.logger.Debug("Discarding stale search #%d (latest is #%d)", seq, s.searchSeq)
		return
	}
	s.state.LoadingSearch = false
	switch {
	case errors.Is(err, ErrNotSearched):
		s.state.HasSearched = false
		s.state.Results = nil
		s.publish(EventSearchReset, "")
	case err != nil:
		msg := err.Error()
		if msg == "" {
			msg = defaultSearchError
		}
		s.logger.Error("Search %q failed: %v", query, err)
		s.state.SearchError = msg
		s.publish(EventSearchFailed, msg)
	default:
		s.state.Results = results
		s.publish(EventSearchFinished, "")
	}
}

// ---- Comparison ----

// ToggleCompare removes resort from the selection if present, otherwise appends it.
// A full selection is left unchanged and ErrSelectionLimit is returned.
func (s *TripSession) ToggleCompare(resort models.Resort) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Compare {
		if r.ID == resort.ID {
			s.state.Compare = append(s.state.Compare[:i:i], s.state.Compare[i+1:]...)
			s.publish(EventSelectionChanged, "")
			return nil
		}
	}
	if len(s.state.Compare) >= MaxCompared {
		s.publish(EventSelectionLimit, selectionLimitNotice)
		return ErrSelectionLimit
	}
	s.state.Compare = append(s.state.Compare, resort.Clone())
	s.publish(EventSelectionChanged, "")
	return nil
}

// Compare builds the comparison table of the current selection
func (s *TripSession) Compare() []models.ComparisonRow {
	s.mu.Lock()
	selected := append([]models.Resort(nil), s.state.Compare...)
	s.mu.Unlock()

	rows, err := BuildComparisonTable(selected)
	if err != nil {
		// selection never exceeds MaxCompared
		s.logger.Error("Building comparison failed: %v", err)
		return nil
	}
	return rows
}

// SelectStation navigates to the detail view of resort
func (s *TripSession) SelectStation(resort models.Resort) {
	if s.navigator == nil {
		s.logger.Debug("No navigator, ignoring selection of %s", resort.ID)
		return
	}
	s.navigator.Navigate("/stations/" + resort.ID)
}
