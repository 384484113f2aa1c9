package media

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDownscaleSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxEdge       int
		wantW, wantH  int
	}{
		{"landscape 4000x3000", 4000, 3000, 480, 480, 360},
		{"portrait 3000x4000", 3000, 4000, 480, 360, 480},
		{"already fits", 300, 200, 480, 300, 200},
		{"exactly max edge", 480, 480, 480, 480, 480},
		{"one side over", 481, 100, 480, 480, 99},
		{"floors fractional side", 1000, 333, 480, 480, 159},
		{"very thin strip keeps one pixel", 10000, 2, 480, 480, 1},
		{"square", 1024, 1024, 480, 480, 480},
		{"tall panorama", 500, 6000, 480, 40, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := DownscaleSize(tt.width, tt.height, tt.maxEdge)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("DownscaleSize(%d, %d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, tt.maxEdge, w, h, tt.wantW, tt.wantH)
			}
			if w > tt.maxEdge || h > tt.maxEdge {
				t.Errorf("result %dx%d exceeds max edge %d", w, h, tt.maxEdge)
			}
		})
	}
}

func TestGetImageDimensions(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name   string
		width  int
		height int
		format string
	}{
		{"Small JPEG", 100, 100, "jpeg"},
		{"Wide JPEG", 800, 200, "jpeg"},
		{"Small PNG", 200, 150, "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+"."+tt.format)
			createTestImage(t, path, tt.width, tt.height, tt.format)

			dims, err := GetImageDimensions(path)
			if err != nil {
				t.Fatalf("GetImageDimensions() error = %v", err)
			}
			if dims.Width != tt.width || dims.Height != tt.height {
				t.Errorf("GetImageDimensions() = %dx%d, want %dx%d", dims.Width, dims.Height, tt.width, tt.height)
			}
		})
	}

	t.Run("Not an image", func(t *testing.T) {
		path := filepath.Join(tmpDir, "notes.jpg")
		writeFile(t, path, []byte("definitely not a jpeg"))
		if _, err := GetImageDimensions(path); err == nil {
			t.Error("expected error for non-image data")
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := GetImageDimensions(filepath.Join(tmpDir, "missing.jpg")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "out.jpg")

	err := writeAtomic(dst, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})
	if err != nil {
		t.Fatalf("writeAtomic() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "hello" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}

	// A failing writer leaves the existing file intact and no temp files.
	err = writeAtomic(dst, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error from failing writer")
	}

	data, _ = os.ReadFile(dst)
	if string(data) != "hello" {
		t.Errorf("existing file changed to %q", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("expected only out.jpg in cache dir, found %d entries", len(entries))
	}
}
