package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ray-u/bare-photos/internal/exiftool"
)

// gradient builds a test image with a pattern so resizing is visible.
func gradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

// createTestImage writes a gradient image in the given format to path.
func createTestImage(t *testing.T, path string, width, height int, format string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	var data []byte
	switch format {
	case "jpeg", "jpg":
		data = jpegBytes(t, width, height)
	case "png":
		var buf bytes.Buffer
		if err := png.Encode(&buf, gradient(width, height)); err != nil {
			t.Fatalf("Failed to encode test PNG: %v", err)
		}
		data = buf.Bytes()
	default:
		t.Fatalf("Unsupported test image format: %s", format)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// jpegWithExifDate returns a JPEG whose APP1 segment carries a single
// DateTimeOriginal tag.
func jpegWithExifDate(t *testing.T, date string) []byte {
	t.Helper()

	le := binary.LittleEndian
	value := append([]byte(date), 0)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, le, uint16(42))
	_ = binary.Write(&tiff, le, uint32(8))

	// IFD0: one entry pointing at the Exif sub-IFD at offset 26
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x8769))
	_ = binary.Write(&tiff, le, uint16(4))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, uint32(26))
	_ = binary.Write(&tiff, le, uint32(0))

	// Exif IFD: DateTimeOriginal stored at offset 44
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x9003))
	_ = binary.Write(&tiff, le, uint16(2))
	_ = binary.Write(&tiff, le, uint32(len(value)))
	_ = binary.Write(&tiff, le, uint32(44))
	_ = binary.Write(&tiff, le, uint32(0))

	tiff.Write(value)

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	body := jpegBytes(t, 16, 16)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(body[2:]) // skip the second SOI
	return out.Bytes()
}

// fakeExiftool serves canned outputs per field and records every call.
type fakeExiftool struct {
	mu      sync.Mutex
	outputs map[string][]byte
	tags    map[string]string
	errs    map[string]error
	calls   []string
}

var _ exiftool.Runner = (*fakeExiftool)(nil)

func (f *fakeExiftool) record(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, field)
}

func (f *fakeExiftool) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeExiftool) ExtractBinary(_ context.Context, field, _ string, w io.Writer) error {
	f.record(field)
	if err := f.errs[field]; err != nil {
		return err
	}
	_, err := w.Write(f.outputs[field])
	return err
}

func (f *fakeExiftool) QueryTag(_ context.Context, field, _ string) (string, error) {
	f.record(field)
	if err := f.errs[field]; err != nil {
		return "", err
	}
	v, ok := f.tags[field]
	if !ok || v == "" {
		return "", exiftool.ErrEmptyValue
	}
	return v, nil
}

// countingTranscoder wraps a Transcoder and counts invocations.
type countingTranscoder struct {
	mu    sync.Mutex
	inner Transcoder
	calls int
}

func (c *countingTranscoder) Name() string { return "counting" }

func (c *countingTranscoder) Transcode(ctx context.Context, src, dst string) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Transcode(ctx, src, dst)
}

func (c *countingTranscoder) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// failingTranscoder always fails without touching dst.
type failingTranscoder struct{}

func (failingTranscoder) Name() string { return "failing" }

func (failingTranscoder) Transcode(context.Context, string, string) error {
	return errors.New("codec unavailable")
}
