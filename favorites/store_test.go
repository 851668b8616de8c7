package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ski-planner/api"
	"ski-planner/config"
	"ski-planner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService keeps favorites in memory the way the user service does
func fakeUserService(t *testing.T, stations ...string) (*Store, map[string]bool) {
	t.Helper()
	known := map[string]bool{}
	for _, id := range stations {
		known[id] = true
	}
	favs := map[string]bool{}
	var order []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/users/u1/favorites")
		id := strings.TrimPrefix(rest, "/")
		switch {
		case r.Method == http.MethodGet && id == "":
			out := []map[string]string{}
			for _, f := range order {
				if favs[f] {
					out = append(out, map[string]string{"id": f})
				}
			}
			_ = json.NewEncoder(w).Encode(out)
		case r.Method == http.MethodPost:
			if !known[id] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if favs[id] {
				w.WriteHeader(http.StatusConflict)
				return
			}
			favs[id] = true
			order = append(order, id)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete:
			if !favs[id] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(favs, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBase: srv.URL, RequestTimeoutMs: 2000, MaxRetries: 1}
	logger := utils.NewNopLogger()
	return NewStore(api.NewTransport(cfg, logger), "u1", logger), favs
}

func TestStoreAddListRemove(t *testing.T) {
	store, favs := fakeUserService(t, "tignes", "meribel")
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tignes"))
	require.NoError(t, store.Add(ctx, "meribel"))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tignes", list[0].ID)

	require.NoError(t, store.Remove(ctx, "tignes"))
	assert.False(t, favs["tignes"])
	assert.True(t, favs["meribel"])
}

func TestStoreErrors(t *testing.T) {
	store, _ := fakeUserService(t, "tignes")
	ctx := context.Background()

	err := store.Add(ctx, "atlantis")
	assert.True(t, errors.Is(err, api.ErrNotFound))

	require.NoError(t, store.Add(ctx, "tignes"))
	err = store.Add(ctx, "tignes")
	assert.True(t, errors.Is(err, ErrAlreadyFavorite))

	err = store.Remove(ctx, "atlantis")
	assert.True(t, errors.Is(err, ErrNotFavorite))
	assert.Contains(t, err.Error(), "Impossible de retirer des favoris")
}
