package media

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/ray-u/bare-photos/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// DefaultMaxEdge is the longest side of a generated thumbnail.
	DefaultMaxEdge = 480
	// DefaultQuality is the JPEG quality of a generated thumbnail.
	DefaultQuality = 84
)

// DownscaleSize bounds width and height by maxEdge while keeping the aspect
// ratio. Sizes that already fit are returned unchanged; images are never
// upscaled. Each side is floored and kept at least one pixel.
func DownscaleSize(width, height, maxEdge int) (int, int) {
	if width <= maxEdge && height <= maxEdge {
		return width, height
	}

	// Integer arithmetic gives the exact floor of side*maxEdge/longest.
	if width >= height {
		return maxEdge, max(1, int(int64(height)*int64(maxEdge)/int64(width)))
	}
	return max(1, int(int64(width)*int64(maxEdge)/int64(height))), maxEdge
}

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// GetImageDimensions returns image dimensions without fully decoding the image.
// It doubles as a cheap validity check for extracted previews.
func GetImageDimensions(path string) (*ImageDimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, err
	}

	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// writeAtomic writes a file through a temporary sibling and renames it into
// place, so concurrent readers see either the old file or the complete new one.
func writeAtomic(dst string, write func(w io.Writer) error) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.jpg")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		logging.Debug("chmod %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename thumbnail: %w", err)
	}
	return nil
}

// loadImage decodes a raster image honouring its EXIF orientation.
func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
