package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestImagingTranscoder(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name          string
		width, height int
		format        string
		wantW, wantH  int
	}{
		{"large landscape JPEG", 1200, 900, "jpg", 480, 360},
		{"large portrait PNG", 600, 1200, "png", 240, 480},
		{"small JPEG unchanged", 300, 200, "jpg", 300, 200},
	}

	tr := NewImagingTranscoder(TranscodeOptions{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(tmpDir, tt.name+"."+tt.format)
			dst := filepath.Join(tmpDir, "thumbs", tt.name+".jpg")
			createTestImage(t, src, tt.width, tt.height, tt.format)

			if err := tr.Transcode(context.Background(), src, dst); err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}

			dims, err := GetImageDimensions(dst)
			if err != nil {
				t.Fatalf("thumbnail is not decodable: %v", err)
			}
			if dims.Width != tt.wantW || dims.Height != tt.wantH {
				t.Errorf("thumbnail = %dx%d, want %dx%d", dims.Width, dims.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImagingTranscoderCustomMaxEdge(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.jpg")
	dst := filepath.Join(tmpDir, "a.thumb.jpg")
	createTestImage(t, src, 400, 300, "jpg")

	tr := NewImagingTranscoder(TranscodeOptions{MaxEdge: 100, Quality: 70})
	if err := tr.Transcode(context.Background(), src, dst); err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}

	dims, err := GetImageDimensions(dst)
	if err != nil {
		t.Fatal(err)
	}
	if dims.Width != 100 || dims.Height != 75 {
		t.Errorf("thumbnail = %dx%d, want 100x75", dims.Width, dims.Height)
	}
}

func TestImagingTranscoderFailure(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "broken.jpg")
	dst := filepath.Join(tmpDir, "broken.thumb.jpg")
	writeFile(t, src, []byte("not an image at all"))

	tr := NewImagingTranscoder(TranscodeOptions{})
	if err := tr.Transcode(context.Background(), src, dst); err == nil {
		t.Fatal("expected error for undecodable source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("destination should not exist after failure, stat err = %v", err)
	}

	if err := tr.Transcode(context.Background(), filepath.Join(tmpDir, "missing.png"), dst); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestImagingTranscoderCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.jpg")
	createTestImage(t, src, 64, 64, "jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewImagingTranscoder(TranscodeOptions{})
	if err := tr.Transcode(ctx, src, filepath.Join(tmpDir, "out.jpg")); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestFallbackTranscoder(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.jpg")
	dst := filepath.Join(tmpDir, "out.jpg")
	createTestImage(t, src, 600, 600, "jpg")

	secondary := &countingTranscoder{inner: NewImagingTranscoder(TranscodeOptions{})}
	tr := &FallbackTranscoder{Primary: failingTranscoder{}, Secondary: secondary}

	if err := tr.Transcode(context.Background(), src, dst); err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}
	if secondary.Calls() != 1 {
		t.Errorf("secondary calls = %d, want 1", secondary.Calls())
	}
	if tr.Name() != "failing+counting" {
		t.Errorf("Name() = %q", tr.Name())
	}
}

func TestNewTranscoder(t *testing.T) {
	tr, err := NewTranscoder(BackendImaging, TranscodeOptions{})
	if err != nil {
		t.Fatalf("NewTranscoder(imaging) error = %v", err)
	}
	if tr.Name() != BackendImaging {
		t.Errorf("Name() = %q, want %q", tr.Name(), BackendImaging)
	}

	if _, err := NewTranscoder("magick", TranscodeOptions{}); err == nil {
		t.Error("expected error for unknown backend")
	}

	auto, err := NewTranscoder(BackendAuto, TranscodeOptions{})
	if err != nil {
		t.Fatalf("NewTranscoder(auto) error = %v", err)
	}
	want := BackendImaging
	if IsVipsAvailable() {
		want = BackendVips + "+" + BackendImaging
	}
	if auto.Name() != want {
		t.Errorf("auto backend = %q, want %q", auto.Name(), want)
	}
}

func TestTranscodeOptionsDefaults(t *testing.T) {
	got := TranscodeOptions{Quality: 150}.withDefaults()
	if got.MaxEdge != DefaultMaxEdge || got.Quality != DefaultQuality {
		t.Errorf("withDefaults() = %+v", got)
	}

	got = TranscodeOptions{MaxEdge: 200, Quality: 60}.withDefaults()
	if got.MaxEdge != 200 || got.Quality != 60 {
		t.Errorf("withDefaults() changed explicit values: %+v", got)
	}
}
