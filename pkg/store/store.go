// Package store persists parsed record sets so they can be analyzed again
// without re-parsing the source log.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccollicutt/babylog/pkg/record"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("store is empty")

// Store persists record sets.
type Store interface {
	// Save replaces the stored records with set.
	Save(ctx context.Context, set record.Set) error

	// Load returns the most recently saved records.
	Load(ctx context.Context) (record.Set, error)

	// Close releases any resources held by the store.
	Close() error
}

// Kind names a store backend.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindSQLite Kind = "sqlite"
)

// Open opens a store of the given kind rooted at dataDir.
func Open(kind Kind, dataDir string) (Store, error) {
	switch kind {
	case KindCSV, "":
		return NewCSVStore(dataDir)
	case KindSQLite:
		return NewSQLiteStore(dataDir)
	}
	return nil, fmt.Errorf("unknown store type %q (want csv or sqlite)", kind)
}
