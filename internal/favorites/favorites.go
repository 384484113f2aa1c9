// Package favorites persists the set of favorited photo paths.
//
// Favorites are read and written as a whole set. SetFavorite is a
// load-mutate-save cycle without locking, so two concurrent updates can
// lose one of them.
package favorites

import (
	"context"
	"fmt"

	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/natsort"
	"github.com/ray-u/bare-photos/internal/safepath"
)

// Set is a set of normalized relative photo paths.
type Set map[string]struct{}

// NewSet builds a set from paths, dropping any that do not normalize.
func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Has reports whether p is a favorite.
func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p after normalizing it. Invalid paths are ignored.
func (s Set) Add(p string) {
	norm, err := safepath.Normalize(p)
	if err != nil {
		logging.Debug("favorites: ignoring invalid path %q: %v", p, err)
		return
	}
	s[norm] = struct{}{}
}

// Remove deletes p.
func (s Set) Remove(p string) {
	delete(s, p)
}

// Sorted returns the members in natural, case-insensitive order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	natsort.Strings(out)
	return out
}

// Store loads and saves the favorites set.
type Store interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, set Set) error
}

// SetFavorite marks or unmarks rel, which must already be normalized.
func SetFavorite(ctx context.Context, store Store, rel string, favorite bool) error {
	set, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	if favorite {
		if set.Has(rel) {
			return nil
		}
		set.Add(rel)
	} else {
		if !set.Has(rel) {
			return nil
		}
		set.Remove(rel)
	}

	if err := store.Save(ctx, set); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
