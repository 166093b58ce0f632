// Package storage keeps explicit snapshots of package metadata fetched by the CLI.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is a stored registry response for one package.
type Snapshot struct {
	Name      string    `json:"name" yaml:"name"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Payload   []byte    `json:"-" yaml:"-"`
}

// Store persists package snapshots.
type Store interface {
	Close() error
	Save(name string, payload []byte) error
	Load(name string) (Snapshot, bool, error)
	List() ([]Snapshot, error)
	Delete(name string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSnapshotTTL     = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts, time.Now)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                        { return nil }
func (noopStore) Save(string, []byte) error           { return nil }
func (noopStore) Load(string) (Snapshot, bool, error) { return Snapshot{}, false, nil }
func (noopStore) List() ([]Snapshot, error)           { return nil, nil }
func (noopStore) Delete(string) error                 { return nil }
