package store

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/progressly/pkg/config"
)

// Keys the application stores its collections under. They match the keys
// the browser version used so exported localStorage values load unchanged.
const (
	TasksKey = "planner-tasks-v5"
	TrashKey = "planner-trash-v1"
	AuthKey  = "planner-auth-v1"
	UsersKey = "planner-users-v1"
)

// ErrNotFound is returned by Read when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Persistence is a flat key-value store of opaque serialized values.
type Persistence interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Erase(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Config selects and locates a backend.
type Config interface {
	BasePath() string
	Backend() string
}

// Load opens the Persistence described by cfg. A nil cfg loads the
// configuration from the environment.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		settings, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = settings
	}

	switch cfg.Backend() {
	case "", config.BackendDiskv:
		return newDiskv(cfg.BasePath())
	case config.BackendSQLite:
		return OpenSQLite(cfg.BasePath())
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
}
