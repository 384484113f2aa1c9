package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/metrics"

	"github.com/disintegration/imaging"
)

// Backend names accepted by NewTranscoder.
const (
	BackendAuto    = "auto"
	BackendImaging = "imaging"
	BackendVips    = "vips"
)

// Transcoder downscales a raster image into a JPEG thumbnail at dst.
// Any returned error is a soft failure; dst is left untouched on error.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
	Name() string
}

// TranscodeOptions bounds the generated thumbnail.
type TranscodeOptions struct {
	MaxEdge int
	Quality int
}

func (o TranscodeOptions) withDefaults() TranscodeOptions {
	if o.MaxEdge <= 0 {
		o.MaxEdge = DefaultMaxEdge
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// ImagingTranscoder is the pure Go backend built on disintegration/imaging.
type ImagingTranscoder struct {
	opts TranscodeOptions
}

// NewImagingTranscoder creates the pure Go backend.
func NewImagingTranscoder(opts TranscodeOptions) *ImagingTranscoder {
	return &ImagingTranscoder{opts: opts.withDefaults()}
}

// Name implements Transcoder.
func (t *ImagingTranscoder) Name() string { return BackendImaging }

// Transcode implements Transcoder.
func (t *ImagingTranscoder) Transcode(ctx context.Context, src, dst string) error {
	err := t.transcode(ctx, src, dst)
	recordTranscode(t.Name(), err)
	return err
}

func (t *ImagingTranscoder) transcode(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := loadImage(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w, h := DownscaleSize(b.Dx(), b.Dy(), t.opts.MaxEdge)
	if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	return writeAtomic(dst, func(out io.Writer) error {
		if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(t.opts.Quality)); err != nil {
			return fmt.Errorf("encode thumbnail: %w", err)
		}
		return nil
	})
}

// FallbackTranscoder tries Primary and, if it fails, Secondary.
type FallbackTranscoder struct {
	Primary   Transcoder
	Secondary Transcoder
}

// Name implements Transcoder.
func (t *FallbackTranscoder) Name() string {
	return t.Primary.Name() + "+" + t.Secondary.Name()
}

// Transcode implements Transcoder.
func (t *FallbackTranscoder) Transcode(ctx context.Context, src, dst string) error {
	err := t.Primary.Transcode(ctx, src, dst)
	if err == nil {
		return nil
	}
	logging.Debug("%s transcode failed for %s: %v, trying %s", t.Primary.Name(), src, err, t.Secondary.Name())
	return t.Secondary.Transcode(ctx, src, dst)
}

// NewTranscoder selects a backend by name. "vips" and "auto" use libvips
// with the imaging backend as fallback when libvips is initialized, and
// the imaging backend alone otherwise.
func NewTranscoder(backend string, opts TranscodeOptions) (Transcoder, error) {
	imagingBackend := NewImagingTranscoder(opts)

	switch strings.ToLower(backend) {
	case "", BackendAuto:
		if IsVipsAvailable() {
			return &FallbackTranscoder{Primary: NewVipsTranscoder(opts), Secondary: imagingBackend}, nil
		}
		return imagingBackend, nil
	case BackendVips:
		if !IsVipsAvailable() {
			logging.Warn("THUMB_BACKEND=vips but libvips is not initialized, using imaging")
			return imagingBackend, nil
		}
		return &FallbackTranscoder{Primary: NewVipsTranscoder(opts), Secondary: imagingBackend}, nil
	case BackendImaging:
		return imagingBackend, nil
	default:
		return nil, fmt.Errorf("unknown thumbnail backend %q", backend)
	}
}

func recordTranscode(backend string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.TranscodeTotal.WithLabelValues(backend, status).Inc()
}
