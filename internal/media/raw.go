package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ray-u/bare-photos/internal/exiftool"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/safepath"
)

// SidecarExtensions are tried in order when looking for a JPEG next to a
// RAW file. The match is case-sensitive on case-sensitive filesystems.
var SidecarExtensions = []string{"jpg", "jpeg", "JPG", "JPEG"}

// previewFields are the exiftool tags holding an embedded JPEG, best first.
var previewFields = []string{"PreviewImage", "JpgFromRaw"}

// ErrNoRawPreview is returned when neither a sidecar nor an embedded
// preview could be turned into a thumbnail.
var ErrNoRawPreview = errors.New("no RAW preview available")

// RawPreview describes a successful RAW preview extraction.
type RawPreview struct {
	// Generated is true when the thumbnail was written.
	Generated bool
	// PreviewPath is the sidecar's relative path, or empty when the
	// thumbnail came from the embedded preview.
	PreviewPath string
}

// RawExtractor produces thumbnails for RAW files.
type RawExtractor struct {
	root       string
	tool       exiftool.Runner
	transcoder Transcoder
	tempDir    string
}

// NewRawExtractor creates an extractor for files under root. tool may be
// nil, in which case only sidecars are used. Scratch files go to tempDir,
// or the system temp dir when empty.
func NewRawExtractor(root string, tool exiftool.Runner, transcoder Transcoder, tempDir string) *RawExtractor {
	return &RawExtractor{
		root:       root,
		tool:       tool,
		transcoder: transcoder,
		tempDir:    tempDir,
	}
}

// FindSidecar returns the first same-named JPEG next to the RAW file at rel.
func (r *RawExtractor) FindSidecar(rel string) (safepath.Resolved, bool) {
	base := strings.TrimSuffix(rel, path.Ext(rel))
	for _, ext := range SidecarExtensions {
		res, err := safepath.ResolveAndConfirm(r.root, base+"."+ext)
		if err == nil {
			return res, true
		}
	}
	return safepath.Resolved{}, false
}

// ExtractPreview writes a thumbnail for the RAW file at rel into dst.
// A sidecar JPEG wins over the embedded preview. The returned error
// explains why nothing could be generated and wraps ErrNoRawPreview, or
// exiftool.ErrNotInstalled when the tool was the missing piece.
func (r *RawExtractor) ExtractPreview(ctx context.Context, rel, dst string) (RawPreview, error) {
	if sidecar, ok := r.FindSidecar(rel); ok {
		err := r.transcoder.Transcode(ctx, sidecar.Abs, dst)
		if err == nil {
			logging.Debug("RAW thumbnail for %s generated from sidecar %s", rel, sidecar.Rel)
			return RawPreview{Generated: true, PreviewPath: sidecar.Rel}, nil
		}
		logging.Debug("sidecar %s could not be transcoded: %v", sidecar.Rel, err)
	}

	if r.tool == nil {
		return RawPreview{}, fmt.Errorf("%w: %w", ErrNoRawPreview, exiftool.ErrNotInstalled)
	}

	src := filepath.Join(r.root, filepath.FromSlash(rel))
	if err := r.extractEmbedded(ctx, src, dst); err != nil {
		return RawPreview{}, err
	}

	logging.Debug("RAW thumbnail for %s generated from embedded preview", rel)
	return RawPreview{Generated: true}, nil
}

func (r *RawExtractor) extractEmbedded(ctx context.Context, src, dst string) error {
	tmp, err := os.CreateTemp(r.tempDir, "raw_preview_*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrNoRawPreview, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove temp preview %s: %v", tmpName, err)
		}
	}()

	lastErr := ErrNoRawPreview
	for _, field := range previewFields {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrNoRawPreview, err)
		}
		if err := resetFile(tmp); err != nil {
			return fmt.Errorf("%w: %v", ErrNoRawPreview, err)
		}

		if err := r.tool.ExtractBinary(ctx, field, src, tmp); err != nil {
			if errors.Is(err, exiftool.ErrNotInstalled) {
				return fmt.Errorf("%w: %w", ErrNoRawPreview, err)
			}
			lastErr = fmt.Errorf("%w: %v", ErrNoRawPreview, err)
			continue
		}

		if err := validPreview(tmp); err != nil {
			logging.Debug("exiftool -%s for %s: %v", field, src, err)
			lastErr = fmt.Errorf("%w: -%s: %v", ErrNoRawPreview, field, err)
			continue
		}

		if err := r.transcoder.Transcode(ctx, tmpName, dst); err != nil {
			lastErr = fmt.Errorf("%w: transcode -%s: %v", ErrNoRawPreview, field, err)
			continue
		}
		return nil
	}

	return lastErr
}

func resetFile(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err := f.Seek(0, 0)
	return err
}

// validPreview accepts a non-empty file whose header decodes as an image.
func validPreview(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return errors.New("empty output")
	}
	if _, err := GetImageDimensions(f.Name()); err != nil {
		return fmt.Errorf("output is not an image: %w", err)
	}
	return nil
}
