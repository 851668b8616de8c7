package storage

import (
	"context"

	"ski-planner/models"
)

// ResortSink stores a batch of catalog records
type ResortSink interface {
	SaveResorts(ctx context.Context, resorts []models.Resort) error
	Close() error
}
