package favorites

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"ski-planner/api"
	"ski-planner/models"
	"ski-planner/utils"
)

var (
	// ErrAlreadyFavorite is returned by Add when the resort is already a favorite
	ErrAlreadyFavorite = errors.New("already a favorite")
	// ErrNotFavorite is returned by Remove when the resort is not a favorite
	ErrNotFavorite = errors.New("not a favorite")
)

// Store manages the favorites of one user against the user service
type Store struct {
	transport *api.Transport
	userID    string
	logger    *utils.Logger
}

// NewStore creates a Store bound to userID
func NewStore(transport *api.Transport, userID string, logger *utils.Logger) *Store {
	return &Store{transport: transport, userID: userID, logger: logger}
}

func (s *Store) path(stationID string) string {
	p := "/users/" + url.PathEscape(s.userID) + "/favorites"
	if stationID != "" {
		p += "/" + url.PathEscape(stationID)
	}
	return p
}

// List returns the user's favorite resorts
func (s *Store) List(ctx context.Context) ([]models.Resort, error) {
	var resorts []models.Resort
	err := s.transport.Do(ctx, api.Request{
		Op:      "list favorites",
		Method:  http.MethodGet,
		Path:    s.path(""),
		FailMsg: "Impossible de récupérer les favoris",
	}, &resorts)
	if err != nil {
		return nil, err
	}
	return resorts, nil
}

// Add marks stationID as a favorite. Unknown stations match api.ErrNotFound.
func (s *Store) Add(ctx context.Context, stationID string) error {
	err := s.transport.Do(ctx, api.Request{
		Op:      "add favorite",
		Method:  http.MethodPost,
		Path:    s.path(stationID),
		FailMsg: "Impossible d'ajouter aux favoris",
	}, nil)
	if api.StatusOf(err) == http.StatusConflict {
		return fmt.Errorf("%w: %w", ErrAlreadyFavorite, err)
	}
	return err
}

// Remove drops stationID from the favorites
func (s *Store) Remove(ctx context.Context, stationID string) error {
	err := s.transport.Do(ctx, api.Request{
		Op:      "remove favorite",
		Method:  http.MethodDelete,
		Path:    s.path(stationID),
		FailMsg: "Impossible de retirer des favoris",
	}, nil)
	if api.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFavorite, err)
	}
	return err
}
