package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ray-u/bare-photos/internal/favorites"
	"github.com/ray-u/bare-photos/internal/metrics"
)

// FavoritesStore implements favorites.Store on top of SQLite.
type FavoritesStore struct {
	d *Database
}

var _ favorites.Store = (*FavoritesStore)(nil)

// NewFavoritesStore wraps an open database.
func NewFavoritesStore(d *Database) *FavoritesStore {
	return &FavoritesStore{d: d}
}

// Load returns every stored favorite.
func (s *FavoritesStore) Load(ctx context.Context) (favorites.Set, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("load_favorites", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.d.db.QueryContext(ctx, "SELECT path FROM favorites")
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err = rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		paths = append(paths, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	return favorites.NewSet(paths...), nil
}

// Save replaces the stored set in one transaction. Rows that survive keep
// their original created_at.
func (s *FavoritesStore) Save(ctx context.Context, set favorites.Set) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("save_favorites", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.d.withTx(ctx, func(tx *sql.Tx) error {
		existing := map[string]bool{}
		rows, err := tx.QueryContext(ctx, "SELECT path FROM favorites")
		if err != nil {
			return err
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return err
			}
			existing[p] = true
		}
		rows.Close()

		for p := range existing {
			if set.Has(p) {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM favorites WHERE path = ?", p); err != nil {
				return err
			}
		}

		now := time.Now().Unix()
		for _, p := range set.Sorted() {
			if existing[p] {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO favorites (path, created_at) VALUES (?, ?) ON CONFLICT(path) DO NOTHING",
				p, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.FavoritesSaveErrors.Inc()
		return fmt.Errorf("failed to save favorites: %w", err)
	}

	metrics.FavoritesTotal.Set(float64(len(set)))
	return nil
}

// Count returns the number of stored favorites.
func (s *FavoritesStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err := s.d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorites").Scan(&count)
	return count, err
}
