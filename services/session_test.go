package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ski-planner/models"
	"ski-planner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFavorites struct {
	mu        sync.Mutex
	order     []string
	addErr    error
	removeErr error
	listErr   error
	listCalls int
}

func (f *fakeFavorites) List(context.Context) ([]models.Resort, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Resort, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, models.Resort{ID: id})
	}
	return out, nil
}

func (f *fakeFavorites) Add(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.order = append(f.order, id)
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
		}
	}
	return nil
}

type recordingNavigator struct{ paths []string }

func (n *recordingNavigator) Navigate(path string) { n.paths = append(n.paths, path) }

func newSession(favs FavoritesService, search Searcher) *TripSession {
	return NewTripSession(favs, search, nil, utils.NewNopLogger())
}

func TestLoadFavorites(t *testing.T) {
	favs := &fakeFavorites{order: []string{"tignes", "meribel"}}
	s := newSession(favs, nil)
	assert.True(t, s.Snapshot().LoadingFavorites)

	s.LoadFavorites(context.Background())
	st := s.Snapshot()
	assert.False(t, st.LoadingFavorites)
	assert.Equal(t, []string{"tignes", "meribel"}, s.FavoriteIDs())
	assert.True(t, s.IsFavorite("meribel"))
}

func TestLoadFavoritesFailure(t *testing.T) {
	s := newSession(&fakeFavorites{listErr: errors.New("Impossible de récupérer les favoris")}, nil)
	s.LoadFavorites(context.Background())
	st := s.Snapshot()
	assert.False(t, st.LoadingFavorites)
	assert.Equal(t, "Impossible de récupérer les favoris", st.FavoriteError)
	assert.Empty(t, st.Favorites)
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	favs := &fakeFavorites{order: []string{"tignes"}}
	s := newSession(favs, nil)
	ctx := context.Background()
	s.LoadFavorites(ctx)
	before := s.FavoriteIDs()

	s.ToggleFavorite(ctx, "avoriaz")
	assert.Equal(t, []string{"tignes", "avoriaz"}, s.FavoriteIDs())
	assert.Equal(t, 2, favs.listCalls, "adding refreshes from the store")

	s.ToggleFavorite(ctx, "avoriaz")
	assert.Equal(t, before, s.FavoriteIDs())
	assert.Equal(t, 2, favs.listCalls, "removing updates locally")
}

func TestToggleFavoriteFailureIsReported(t *testing.T) {
	favs := &fakeFavorites{order: []string{"tignes"}}
	s := newSession(favs, nil)
	ctx := context.Background()
	s.LoadFavorites(ctx)
	events := s.Subscribe(4)

	favs.removeErr = errors.New("Impossible de retirer des favoris: Bad Gateway")
	s.ToggleFavorite(ctx, "tignes")

	st := s.Snapshot()
	assert.Equal(t, []string{"tignes"}, s.FavoriteIDs())
	assert.Equal(t, "Impossible de retirer des favoris: Bad Gateway", st.FavoriteError)
	ev := <-events
	assert.Equal(t, EventFavoriteFailed, ev.Kind)

	favs.addErr = errors.New("Impossible d'ajouter aux favoris: Not Found")
	s.ToggleFavorite(ctx, "atlantis")
	assert.Equal(t, []string{"tignes"}, s.FavoriteIDs())

	favs.removeErr = nil
	s.ToggleFavorite(ctx, "tignes")
	assert.Empty(t, s.FavoriteIDs())
	assert.Empty(t, s.Snapshot().FavoriteError, "a later success clears the error")
}

func TestSessionSearchStates(t *testing.T) {
	cat := &fakeCatalog{resorts: searchFixture()}
	s := newSession(&fakeFavorites{}, NewSearchEngine(cat, utils.NewNopLogger()))
	ctx := context.Background()

	s.Search(ctx, "", models.Filters{})
	st := s.Snapshot()
	assert.False(t, st.HasSearched)
	assert.Equal(t, 0, cat.calls)

	s.Search(ctx, "", models.Filters{MaxLiftPassPrice: 30})
	st = s.Snapshot()
	assert.True(t, st.HasSearched)
	assert.False(t, st.LoadingSearch)
	assert.Equal(t, []string{"cheap", "ceiling"}, ids(st.Results))

	s.Search(ctx, "", models.Filters{MaxLiftPassPrice: 5})
	st = s.Snapshot()
	assert.True(t, st.HasSearched, "zero results is still a completed search")
	assert.Empty(t, st.Results)
	assert.Empty(t, st.SearchError)

	s.Search(ctx, "", models.Filters{})
	st = s.Snapshot()
	assert.False(t, st.HasSearched)
	assert.Nil(t, st.Results)
}

func TestSessionSearchError(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("Failed to fetch stations: Bad Gateway")}
	s := newSession(&fakeFavorites{}, NewSearchEngine(cat, utils.NewNopLogger()))

	s.Search(context.Background(), "tignes", models.Filters{})
	st := s.Snapshot()
	assert.False(t, st.LoadingSearch)
	assert.Equal(t, "Failed to fetch stations: Bad Gateway", st.SearchError)

	cat.err = errors.New("")
	s.Search(context.Background(), "tignes", models.Filters{})
	assert.Equal(t, defaultSearchError, s.Snapshot().SearchError)

	cat.err = nil
	s.Search(context.Background(), "tignes", models.Filters{})
	assert.Empty(t, s.Snapshot().SearchError)
}

// gatedSearcher blocks each query until its gate is released
type gatedSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedSearcher(queries ...string) *gatedSearcher {
	g := &gatedSearcher{gates: map[string]chan struct{}{}, started: make(chan string, len(queries))}
	for _, q := range queries {
		g.gates[q] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) Search(ctx context.Context, query string, _ models.Filters) ([]models.Resort, error) {
	g.mu.Lock()
	gate := g.gates[query]
	g.mu.Unlock()
	g.started <- query
	<-gate
	return []models.Resort{{ID: query}}, nil
}

func TestSessionSearchDiscardsStaleResults(t *testing.T) {
	search := newGatedSearcher("old", "new")
	s := newSession(&fakeFavorites{}, search)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		s.Search(ctx, "old", models.Filters{})
		close(done)
	}()
	require.Equal(t, "old", <-search.started)

	go s.Search(ctx, "new", models.Filters{})
	require.Equal(t, "new", <-search.started)

	close(search.gates["new"])
	require.Eventually(t, func() bool { return !s.Snapshot().LoadingSearch }, time.Second, 5*time.Millisecond)

	close(search.gates["old"])
	<-done

	st := s.Snapshot()
	assert.Equal(t, []string{"new"}, ids(st.Results))
	assert.Equal(t, "new", st.Query)
	assert.False(t, st.LoadingSearch)
}

func TestToggleCompare(t *testing.T) {
	s := newSession(&fakeFavorites{}, nil)
	events := s.Subscribe(16)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.ToggleCompare(models.Resort{ID: id}))
	}
	err := s.ToggleCompare(models.Resort{ID: "d"})
	assert.ErrorIs(t, err, ErrSelectionLimit)
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Snapshot().Compare))

	var notice Event
	for len(events) > 0 {
		notice = <-events
	}
	assert.Equal(t, EventSelectionLimit, notice.Kind)
	assert.Equal(t, selectionLimitNotice, notice.Message)

	require.NoError(t, s.ToggleCompare(models.Resort{ID: "b"}))
	assert.Equal(t, []string{"a", "c"}, ids(s.Snapshot().Compare))

	require.NoError(t, s.ToggleCompare(models.Resort{ID: "d"}))
	assert.Equal(t, []string{"a", "c", "d"}, ids(s.Snapshot().Compare))

	rows := s.Compare()
	require.Len(t, rows, MetricCount())
	assert.Len(t, rows[0].Values, 3)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newSession(&fakeFavorites{}, nil)
	resort := withPass(models.Resort{ID: "a", Level: []string{"beginner"}}, 45)
	require.NoError(t, s.ToggleCompare(resort))
	resort.Level[0] = "changed by caller"

	st := s.Snapshot()
	st.Compare[0].ID = "mutated"
	st.Compare[0].Level[0] = "expert"
	*st.Compare[0].Passes[models.FullDayPass].Adult = 1
	st.Compare[0].Passes["half_day"] = models.PassPrice{}

	again := s.Snapshot().Compare[0]
	assert.Equal(t, "a", again.ID)
	assert.Equal(t, []string{"beginner"}, again.Level)
	assert.Equal(t, 45.0, *again.Passes[models.FullDayPass].Adult)
	assert.Len(t, again.Passes, 1)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	s := newSession(&fakeFavorites{}, nil)
	events := s.Subscribe(4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range events {
		}
	}()

	s.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber channel was not closed")
	}

	s.Close()
	_, ok := <-s.Subscribe(1)
	assert.False(t, ok, "subscribing after Close yields a closed channel")
	require.NoError(t, s.ToggleCompare(models.Resort{ID: "a"}), "session still usable without subscribers")
}

func TestUnsubscribe(t *testing.T) {
	s := newSession(&fakeFavorites{}, nil)
	kept := s.Subscribe(4)
	dropped := s.Subscribe(4)

	s.Unsubscribe(dropped)
	_, ok := <-dropped
	assert.False(t, ok)

	require.NoError(t, s.ToggleCompare(models.Resort{ID: "a"}))
	ev := <-kept
	assert.Equal(t, EventSelectionChanged, ev.Kind)

	s.Unsubscribe(dropped)
	s.Close()
	for range kept {
	}
}

func TestSelectStation(t *testing.T) {
	nav := &recordingNavigator{}
	s := NewTripSession(&fakeFavorites{}, nil, nav, utils.NewNopLogger())
	s.SelectStation(models.Resort{ID: "val-thorens"})
	assert.Equal(t, []string{"/stations/val-thorens"}, nav.paths)

	newSession(&fakeFavorites{}, nil).SelectStation(models.Resort{ID: "x"})
}
