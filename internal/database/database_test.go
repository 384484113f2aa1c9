package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ray-u/bare-photos/internal/favorites"
	"github.com/ray-u/bare-photos/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func setupTestDB(t *testing.T) (*Database, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "favorites.db")
	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, dbPath
}

func TestRecordQueryMetrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.DBQueryTotal.WithLabelValues("test_op", "error"))

	recordQuery("test_op", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(metrics.DBQueryTotal.WithLabelValues("test_op", "error"))
	if after != before+1 {
		t.Errorf("error counter = %v, want %v", after, before+1)
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db, dbPath := setupTestDB(t)

	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}

	count, err := NewFavoritesStore(db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 on a fresh database", count)
	}
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "sub", "favorites.db"))
	if err == nil {
		t.Fatal("expected error when the parent directory does not exist")
	}
}

func TestFavoritesStoreRoundTrip(t *testing.T) {
	db, _ := setupTestDB(t)
	store := NewFavoritesStore(db)
	ctx := context.Background()

	if err := favorites.SetFavorite(ctx, store, "trip/img2.jpg", true); err != nil {
		t.Fatalf("SetFavorite(true) error = %v", err)
	}
	if err := favorites.SetFavorite(ctx, store, "trip/img10.jpg", true); err != nil {
		t.Fatalf("SetFavorite(true) error = %v", err)
	}

	set, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"trip/img2.jpg", "trip/img10.jpg"}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	if err := favorites.SetFavorite(ctx, store, "trip/img2.jpg", false); err != nil {
		t.Fatalf("SetFavorite(false) error = %v", err)
	}
	set, _ = store.Load(ctx)
	if set.Has("trip/img2.jpg") || !set.Has("trip/img10.jpg") {
		t.Errorf("after unset, Load() = %v", set.Sorted())
	}
}

func TestFavoritesStoreSaveReplacesSet(t *testing.T) {
	db, _ := setupTestDB(t)
	store := NewFavoritesStore(db)
	ctx := context.Background()

	if err := store.Save(ctx, favorites.NewSet("a.jpg", "b.jpg", "c.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, favorites.NewSet("b.jpg", "d.jpg")); err != nil {
		t.Fatal(err)
	}

	set, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b.jpg", "d.jpg"}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	count, _ := store.Count(ctx)
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestFavoritesStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "favorites.db")
	ctx := context.Background()

	db, err := New(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewFavoritesStore(db).Save(ctx, favorites.NewSet("keep.arw")); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = New(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	set, err := NewFavoritesStore(db).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has("keep.arw") {
		t.Errorf("favorite lost across reopen: %v", set.Sorted())
	}
}
