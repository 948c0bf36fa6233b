package store

import (
	"context"
	"errors"

	"github.com/tnicklin/screambot/models"
)

// ErrFirstLoad marks a failure to load a document that has never been
// loaded before. Callers treat it as fatal.
var ErrFirstLoad = errors.New("first load failed")

// Store holds the current configuration and rank snapshots.
type Store interface {
	LoadConfig(ctx context.Context) error
	LoadRanks(ctx context.Context) error

	// Config returns the current snapshot, or nil before the first load.
	Config() *models.Config
	// Ranks returns the current snapshot, or nil before the first load.
	Ranks() *models.Ranks
}

// Observer receives store events.
type Observer interface {
	NotifyOperators(msg string)
	ConfigLoaded(cfg *models.Config)
}
