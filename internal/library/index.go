package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ray-u/bare-photos/internal/favorites"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/media"
	"github.com/ray-u/bare-photos/internal/mediatypes"
	"github.com/ray-u/bare-photos/internal/metrics"
	"github.com/ray-u/bare-photos/internal/natsort"
	"github.com/ray-u/bare-photos/internal/safepath"
	"github.com/ray-u/bare-photos/internal/workers"
)

// PhotoEntry is one photo in a listing. Nil URLs serialize as null.
type PhotoEntry struct {
	Path             string                `json:"path"`
	Filename         string                `json:"filename"`
	Extension        string                `json:"extension"`
	Type             mediatypes.FileType   `json:"type"`
	ThumbnailURL     *string               `json:"thumbnailUrl"`
	ThumbnailStatus  media.ThumbnailStatus `json:"thumbnailStatus"`
	ThumbnailMessage string                `json:"thumbnailMessage"`
	PreviewURL       *string               `json:"previewUrl"`
	SourceURL        string                `json:"sourceUrl"`
	DownloadURL      string                `json:"downloadUrl"`
	CapturedAt       *string               `json:"capturedAt"`
	CapturedAtSource media.CaptureSource   `json:"capturedAtSource"`
	Favorite         bool                  `json:"favorite"`
	Size             int64                 `json:"size"`
	ModTime          time.Time             `json:"modTime"`
}

// Options selects which photos a listing returns.
type Options struct {
	Filter        mediatypes.Filter
	FavoritesOnly bool
}

// Listing is the result of Index.List.
type Listing struct {
	Total  int               `json:"total"`
	Filter mediatypes.Filter `json:"filter"`
	Items  []PhotoEntry      `json:"items"`
}

// DeleteResult reports a bulk deletion. Failed paths are echoed as given;
// deleted paths are in normalized form.
type DeleteResult struct {
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// OK reports whether every deletion succeeded.
func (r DeleteResult) OK() bool {
	return len(r.Failed) == 0
}

// Config holds the directories and concurrency of an Index.
type Config struct {
	Root     string
	ThumbDir string
	// Workers bounds concurrent entry construction; 0 picks a default.
	Workers  int
	// Gate, when set, is consulted before each thumbnail generated by Warm.
	Gate     Gate
}

// Gate holds back thumbnail generation, for example under memory pressure.
type Gate interface {
	Wait(ctx context.Context) error
}

// Index answers questions about the photos under a root directory.
type Index struct {
	root      string
	thumbDir  string
	workers   int
	gate      Gate
	resolver  *media.Resolver
	capture   *media.CaptureResolver
	favorites favorites.Store
}

// New creates an Index.
func New(cfg Config, resolver *media.Resolver, capture *media.CaptureResolver, favs favorites.Store) *Index {
	n := cfg.Workers
	if n <= 0 {
		n = workers.ForMixed(8)
	}
	return &Index{
		root:      filepath.Clean(cfg.Root),
		thumbDir:  filepath.Clean(cfg.ThumbDir),
		workers:   n,
		gate:      cfg.Gate,
		resolver:  resolver,
		capture:   capture,
		favorites: favs,
	}
}

// Root returns the photo root.
func (idx *Index) Root() string {
	return idx.root
}

// Resolver returns the thumbnail resolver used by the index.
func (idx *Index) Resolver() *media.Resolver {
	return idx.resolver
}

// Favorites returns the favorites store used by the index.
func (idx *Index) Favorites() favorites.Store {
	return idx.favorites
}

// loadFavorites never fails; a broken store only loses the annotation.
func (idx *Index) loadFavorites(ctx context.Context) favorites.Set {
	set, err := idx.favorites.Load(ctx)
	if err != nil {
		logging.Warn("Failed to load favorites, listing without them: %v", err)
		return favorites.Set{}
	}
	return set
}

// List enumerates photos matching opts.
func (idx *Index) List(ctx context.Context, opts Options) (Listing, error) {
	start := time.Now()

	filter := opts.Filter
	if filter == "" {
		filter = mediatypes.FilterAll
	}

	favs := idx.loadFavorites(ctx)

	found, err := idx.scan(ctx)
	if err != nil {
		return Listing{}, err
	}

	selected := found[:0]
	for _, c := range found {
		if !filter.Matches(c.fileType) {
			continue
		}
		if opts.FavoritesOnly && !favs.Has(c.rel) {
			continue
		}
		selected = append(selected, c)
	}

	built := make([]*PhotoEntry, len(selected))
	err = workers.Each(ctx, idx.workers, selected, func(ctx context.Context, i int, c candidate) {
		built[i] = idx.buildEntry(ctx, c, favs)
	})
	if err != nil {
		return Listing{}, err
	}

	items := make([]PhotoEntry, 0, len(built))
	for _, e := range built {
		if e != nil {
			items = append(items, *e)
		}
	}
	sortEntries(items)

	metrics.ListingDuration.Observe(time.Since(start).Seconds())
	metrics.ListingItems.Observe(float64(len(items)))
	logging.Debug("Listed %d photos (filter=%s, favorites=%v) in %v", len(items), filter, opts.FavoritesOnly, time.Since(start))

	return Listing{Total: len(items), Filter: filter, Items: items}, nil
}

// buildEntry returns nil when the file vanished or escapes the root.
func (idx *Index) buildEntry(ctx context.Context, c candidate, favs favorites.Set) *PhotoEntry {
	res, err := safepath.ResolveAndConfirm(idx.root, c.rel)
	if err != nil {
		logging.Debug("Skipping %s: %v", c.rel, err)
		return nil
	}

	info, err := os.Stat(res.Abs)
	if err != nil {
		return nil
	}

	thumb := idx.resolver.Resolve(ctx, res.Rel, c.ext)
	captured := idx.capture.Resolve(ctx, res.Abs, c.fileType == mediatypes.FileTypeRaw)

	return &PhotoEntry{
		Path:             res.Rel,
		Filename:         info.Name(),
		Extension:        c.ext,
		Type:             c.fileType,
		ThumbnailURL:     optional(thumb.URL),
		ThumbnailStatus:  thumb.Status,
		ThumbnailMessage: thumb.Message,
		PreviewURL:       optional(thumb.PreviewURL),
		SourceURL:        media.FileURL(res.Rel),
		DownloadURL:      media.DownloadURL(res.Rel),
		CapturedAt:       optional(captured.Value),
		CapturedAtSource: captured.Source,
		Favorite:         favs.Has(res.Rel),
		Size:             info.Size(),
		ModTime:          info.ModTime(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sortEntries(items []PhotoEntry) {
	slices.SortStableFunc(items, func(a, b PhotoEntry) int {
		return natsort.Compare(a.Path, b.Path)
	})
}

// Delete removes each path independently: the source file, its cached
// thumbnail and its favorite entry. A failure never stops the batch.
func (idx *Index) Delete(ctx context.Context, paths []string) DeleteResult {
	result := DeleteResult{Deleted: []string{}, Failed: []string{}}

	for _, raw := range paths {
		res, err := safepath.ResolveAndConfirm(idx.root, raw)
		if err != nil {
			logging.Debug("Delete rejected %q: %v", raw, err)
			result.Failed = append(result.Failed, raw)
			metrics.DeletionsTotal.WithLabelValues("error").Inc()
			continue
		}

		if err := os.Remove(res.Abs); err != nil {
			logging.Warn("Failed to delete %s: %v", res.Rel, err)
			result.Failed = append(result.Failed, raw)
			metrics.DeletionsTotal.WithLabelValues("error").Inc()
			continue
		}

		if err := idx.resolver.RemoveThumbnail(res.Rel); err != nil {
			logging.Warn("Failed to delete thumbnail for %s: %v", res.Rel, err)
		}

		result.Deleted = append(result.Deleted, res.Rel)
		metrics.DeletionsTotal.WithLabelValues("success").Inc()
		logging.Info("Deleted %s", res.Rel)
	}

	if len(result.Deleted) > 0 {
		idx.forgetFavorites(ctx, result.Deleted)
	}

	return result
}

func (idx *Index) forgetFavorites(ctx context.Context, rels []string) {
	set, err := idx.favorites.Load(ctx)
	if err != nil {
		logging.Warn("Failed to load favorites after delete: %v", err)
		return
	}

	changed := false
	for _, rel := range rels {
		if set.Has(rel) {
			set.Remove(rel)
			changed = true
		}
	}
	if !changed {
		return
	}

	if err := idx.favorites.Save(ctx, set); err != nil {
		logging.Warn("Failed to drop deleted photos from favorites: %v", err)
	}
}

// WarmSummary counts thumbnail outcomes of a warm-up run.
type WarmSummary struct {
	Total    int
	Skipped  int
	ByStatus map[media.ThumbnailStatus]int
	Duration time.Duration
}

// WarmProgress is reported after each photo during Warm.
type WarmProgress struct {
	Done   int
	Total  int
	Path   string
	Status media.ThumbnailStatus
}

// Warm resolves the thumbnail of every photo once, generating the missing
// ones. progress may be nil.
func (idx *Index) Warm(ctx context.Context, progress func(WarmProgress)) (WarmSummary, error) {
	start := time.Now()

	found, err := idx.scan(ctx)
	if err != nil {
		return WarmSummary{}, err
	}

	summary := WarmSummary{Total: len(found), ByStatus: map[media.ThumbnailStatus]int{}}
	var mu sync.Mutex
	done := 0

	err = workers.Each(ctx, idx.workers, found, func(ctx context.Context, _ int, c candidate) {
		var status media.ThumbnailStatus
		res, err := safepath.ResolveAndConfirm(idx.root, c.rel)
		if err != nil {
			logging.Debug("Warm skipping %s: %v", c.rel, err)
		} else if idx.waitGate(ctx, res.Rel) == nil {
			status = idx.resolver.Resolve(ctx, res.Rel, c.ext).Status
		}

		mu.Lock()
		defer mu.Unlock()
		done++
		if status == "" {
			summary.Skipped++
		} else {
			summary.ByStatus[status]++
		}
		if progress != nil {
			progress(WarmProgress{Done: done, Total: len(found), Path: c.rel, Status: status})
		}
	})

	summary.Duration = time.Since(start)
	return summary, err
}

// waitGate blocks on the gate only when rel still needs a conversion.
func (idx *Index) waitGate(ctx context.Context, rel string) error {
	if idx.gate == nil || idx.resolver.HasThumbnail(rel) {
		return nil
	}
	return idx.gate.Wait(ctx)
}

// GetStats implements metrics.StatsProvider.
func (idx *Index) GetStats(ctx context.Context) metrics.Stats {
	var stats metrics.Stats

	err := filepath.WalkDir(idx.thumbDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != idx.thumbDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || filepath.Ext(d.Name()) != ".jpg" {
			return nil
		}
		if info, err := d.Info(); err == nil {
			stats.ThumbnailCount++
			stats.ThumbnailBytes += info.Size()
		}
		return nil
	})
	if err != nil {
		logging.Debug("Thumbnail stats incomplete: %v", err)
	}

	stats.TotalFavorites = len(idx.loadFavorites(ctx))
	return stats
}
