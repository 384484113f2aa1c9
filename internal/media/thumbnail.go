package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ray-u/bare-photos/internal/exiftool"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/mediatypes"
	"github.com/ray-u/bare-photos/internal/metrics"
)

// ThumbnailStatus is the outcome of resolving a thumbnail.
type ThumbnailStatus string

const (
	StatusReady            ThumbnailStatus = "ready"
	StatusFallbackOriginal ThumbnailStatus = "fallback-original"
	StatusUnavailable      ThumbnailStatus = "unavailable"
	StatusUnsupported      ThumbnailStatus = "unsupported"
)

// Messages shown next to a thumbnail that is not ready.
const (
	MessageFallbackOriginal = "Thumbnail not generated (showing original)"
	MessageRawUnavailable   = "RAW thumbnail unavailable (needs a sidecar JPEG or an embedded preview readable by exiftool)"
	MessageExiftoolMissing  = "RAW thumbnail unavailable (exiftool is not installed and no sidecar JPEG was found)"
	MessageUnsupported      = "Unsupported format"
)

// ThumbnailInfo is what the browser needs to show a photo. Empty URLs mean
// there is nothing to show.
type ThumbnailInfo struct {
	URL        string
	Status     ThumbnailStatus
	Message    string
	PreviewURL string
}

// FileURL is the URL serving the original file at rel.
func FileURL(rel string) string {
	return "/api/file?path=" + url.QueryEscape(rel)
}

// DownloadURL is the URL serving rel as an attachment.
func DownloadURL(rel string) string {
	return FileURL(rel) + "&download=1"
}

// ThumbURL is the URL serving the cached thumbnail of rel.
func ThumbURL(rel string) string {
	return "/api/thumb?path=" + url.QueryEscape(rel)
}

// Resolver finds or generates thumbnails in a cache directory. It holds no
// locks: concurrent misses for the same photo may both generate, and the
// last rename wins.
type Resolver struct {
	root       string
	thumbDir   string
	transcoder Transcoder
	raw        *RawExtractor
}

// NewResolver creates a resolver for photos under root caching into thumbDir.
func NewResolver(root, thumbDir string, transcoder Transcoder, raw *RawExtractor) *Resolver {
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		logging.Warn("Resolver: failed to create thumbnail dir: %v", err)
	}
	return &Resolver{
		root:       root,
		thumbDir:   thumbDir,
		transcoder: transcoder,
		raw:        raw,
	}
}

// ThumbnailPath is the cache file for the normalized relative path rel.
func (r *Resolver) ThumbnailPath(rel string) string {
	sum := sha1.Sum([]byte(rel))
	return filepath.Join(r.thumbDir, hex.EncodeToString(sum[:])+".jpg")
}

// HasThumbnail reports whether a cached thumbnail exists for rel.
func (r *Resolver) HasThumbnail(rel string) bool {
	info, err := os.Stat(r.ThumbnailPath(rel))
	return err == nil && info.Mode().IsRegular()
}

// RemoveThumbnail deletes the cached thumbnail for rel. A missing file is
// not an error.
func (r *Resolver) RemoveThumbnail(rel string) error {
	err := os.Remove(r.ThumbnailPath(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Resolve returns the thumbnail state for the photo at rel with extension
// ext, generating the cache file on a miss.
func (r *Resolver) Resolve(ctx context.Context, rel, ext string) ThumbnailInfo {
	fileType := mediatypes.GetFileType(ext)
	if fileType == mediatypes.FileTypeOther {
		return ThumbnailInfo{Status: StatusUnsupported, Message: MessageUnsupported}
	}

	thumbURL := ThumbURL(rel)

	if r.HasThumbnail(rel) {
		metrics.ThumbnailCacheHits.Inc()
		preview := thumbURL
		if fileType == mediatypes.FileTypeRaw && r.raw != nil {
			if sidecar, ok := r.raw.FindSidecar(rel); ok {
				preview = FileURL(sidecar.Rel)
			}
		}
		return ThumbnailInfo{URL: thumbURL, Status: StatusReady, PreviewURL: preview}
	}

	metrics.ThumbnailCacheMisses.Inc()
	start := time.Now()
	info := r.generate(ctx, rel, fileType, thumbURL)
	metrics.ThumbnailGenerationDuration.WithLabelValues(string(fileType)).Observe(time.Since(start).Seconds())
	metrics.ThumbnailGenerationsTotal.WithLabelValues(string(fileType), string(info.Status)).Inc()

	return info
}

func (r *Resolver) generate(ctx context.Context, rel string, fileType mediatypes.FileType, thumbURL string) ThumbnailInfo {
	dst := r.ThumbnailPath(rel)
	original := FileURL(rel)

	if fileType == mediatypes.FileTypeImage {
		src := filepath.Join(r.root, filepath.FromSlash(rel))
		if err := r.transcoder.Transcode(ctx, src, dst); err != nil {
			logging.Debug("thumbnail generation failed for %s: %v", rel, err)
			return ThumbnailInfo{
				URL:        original,
				Status:     StatusFallbackOriginal,
				Message:    MessageFallbackOriginal,
				PreviewURL: original,
			}
		}
		return ThumbnailInfo{URL: thumbURL, Status: StatusReady, PreviewURL: original}
	}

	if r.raw == nil {
		return ThumbnailInfo{Status: StatusUnavailable, Message: MessageExiftoolMissing}
	}

	if _, err := r.raw.ExtractPreview(ctx, rel, dst); err != nil {
		logging.Debug("RAW thumbnail unavailable for %s: %v", rel, err)
		msg := MessageRawUnavailable
		if errors.Is(err, exiftool.ErrNotInstalled) {
			msg = MessageExiftoolMissing
		}
		return ThumbnailInfo{Status: StatusUnavailable, Message: msg}
	}

	// A fresh RAW thumbnail is its own preview, even when it came from a sidecar.
	return ThumbnailInfo{URL: thumbURL, Status: StatusReady, PreviewURL: thumbURL}
}
