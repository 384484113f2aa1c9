// Package app wires configuration into a ready photo Index, shared by the
// server and the photoctl CLI.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ray-u/bare-photos/internal/database"
	"github.com/ray-u/bare-photos/internal/exiftool"
	"github.com/ray-u/bare-photos/internal/favorites"
	"github.com/ray-u/bare-photos/internal/library"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/media"
	"github.com/ray-u/bare-photos/internal/memory"
	"github.com/ray-u/bare-photos/internal/startup"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config            *startup.Config
	Index             *library.Index
	Favorites         favorites.Store
	Transcoder        media.Transcoder
	ExiftoolAvailable bool
	Memory            *memory.Monitor

	db          *database.Database
	vipsStarted bool
}

// New builds every component. Close releases them.
func New(ctx context.Context, cfg *startup.Config) (*App, error) {
	a := &App{Config: cfg}

	memory.ConfigureFromEnv()

	switch strings.ToLower(cfg.ThumbBackend) {
	case "", media.BackendAuto, media.BackendVips:
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using imaging backend: %v", err)
		} else {
			a.vipsStarted = true
		}
	case media.BackendImaging:
	default:
		return nil, fmt.Errorf("unknown thumbnail backend %q", cfg.ThumbBackend)
	}

	tr, err := media.NewTranscoder(cfg.ThumbBackend, media.TranscodeOptions{
		MaxEdge: cfg.ThumbMaxEdge,
		Quality: cfg.ThumbQuality,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Transcoder = tr
	startup.LogTranscoderInit(tr.Name(), cfg.ThumbMaxEdge, cfg.ThumbQuality)

	tool := exiftool.New(cfg.ExiftoolPath, cfg.ExiftoolTimeout)
	var runner exiftool.Runner
	if startup.LogExiftoolInit(tool) {
		runner = tool
		a.ExiftoolAvailable = true
	}

	store, location, err := a.openFavorites(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Favorites = store

	count := 0
	if set, err := store.Load(ctx); err == nil {
		count = len(set)
	}
	startup.LogFavoritesInit(cfg.FavoritesBackend, location, count)

	raw := media.NewRawExtractor(cfg.PhotoDir, runner, tr, "")
	resolver := media.NewResolver(cfg.PhotoDir, cfg.ThumbDir, tr, raw)
	a.Memory = memory.NewMonitor(memory.DefaultConfig())
	a.Memory.Start()

	a.Index = library.New(library.Config{
		Root:     cfg.PhotoDir,
		ThumbDir: cfg.ThumbDir,
		Gate:     a.Memory,
	}, resolver, media.NewCaptureResolver(runner), store)

	return a, nil
}

// OpenFavorites opens only the favorites store, for tools that do not touch
// thumbnails.
func OpenFavorites(ctx context.Context, cfg *startup.Config) (*App, error) {
	a := &App{Config: cfg}
	store, _, err := a.openFavorites(ctx)
	if err != nil {
		return nil, err
	}
	a.Favorites = store
	return a, nil
}

func (a *App) openFavorites(ctx context.Context) (favorites.Store, string, error) {
	if a.Config.FavoritesBackend != startup.FavoritesBackendSQLite {
		return favorites.NewJSONStore(a.Config.FavoritesFile), a.Config.FavoritesFile, nil
	}

	start := time.Now()
	db, err := database.New(ctx, a.Config.FavoritesDB)
	if err != nil {
		return nil, "", fmt.Errorf("open favorites database: %w", err)
	}
	a.db = db
	startup.LogDatabaseInit(db.Path(), time.Since(start))
	return database.NewFavoritesStore(db), db.Path(), nil
}

// Close releases what New acquired.
func (a *App) Close() {
	if a.Memory != nil {
		a.Memory.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logging.Warn("failed to close database: %v", err)
		}
		a.db = nil
	}
	if a.vipsStarted {
		media.ShutdownVips()
		a.vipsStarted = false
	}
}
