package media

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ray-u/bare-photos/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogLevelFor maps the application log level onto the most verbose
// libvips level worth forwarding.
func vipsLogLevelFor(level logging.LogLevel) vips.LogLevel {
	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	case logging.LevelError:
		return vips.LogLevelCritical
	default:
		return vips.LogLevelWarning
	}
}

func vipsLogHandler(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		logging.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		logging.Warn("[%s] %s", domain, msg)
	default:
		logging.Debug("[%s] %s", domain, msg)
	}
}

// InitVips initializes the libvips library.
// This should be called once at startup, before NewTranscoder.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Configure logging before Startup so early messages respect LOG_LEVEL
	vips.LoggingSettings(vipsLogHandler, vipsLogLevelFor(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsTranscoder shrinks images with libvips, which decodes large JPEGs at
// reduced size and uses far less memory than a full decode.
type VipsTranscoder struct {
	opts TranscodeOptions
}

// NewVipsTranscoder creates the libvips backend. InitVips must have succeeded.
func NewVipsTranscoder(opts TranscodeOptions) *VipsTranscoder {
	return &VipsTranscoder{opts: opts.withDefaults()}
}

// Name implements Transcoder.
func (t *VipsTranscoder) Name() string { return BackendVips }

// Transcode implements Transcoder.
func (t *VipsTranscoder) Transcode(ctx context.Context, src, dst string) error {
	err := t.transcode(ctx, src, dst)
	recordTranscode(t.Name(), err)
	return err
}

func (t *VipsTranscoder) transcode(ctx context.Context, src, dst string) error {
	if !IsVipsAvailable() {
		return fmt.Errorf("libvips not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	importParams := vips.NewImportParams()
	importParams.AutoRotate.Set(true)
	importParams.FailOnError.Set(false)

	ref, err := vips.LoadImageFromFile(src, importParams)
	if err != nil {
		return fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	origW, origH := ref.Width(), ref.Height()
	w, h := DownscaleSize(origW, origH, t.opts.MaxEdge)
	if w != origW || h != origH {
		// Separate scales keep the exact floored size on both axes.
		hscale := float64(w) / float64(origW)
		vscale := float64(h) / float64(origH)
		if err := ref.ResizeWithVScale(hscale, vscale, vips.KernelLanczos3); err != nil {
			return fmt.Errorf("vips resize failed: %w", err)
		}
	}

	buf, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        t.opts.Quality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return fmt.Errorf("vips export failed: %w", err)
	}

	logging.Debug("vips thumbnail for %s: %dx%d, %d bytes", src, w, h, len(buf))

	return writeAtomic(dst, func(out io.Writer) error {
		_, err := out.Write(buf)
		return err
	})
}
