package media

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ray-u/bare-photos/internal/exiftool"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/metrics"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureSource records where a capture time came from.
type CaptureSource string

const (
	CaptureSourceExif        CaptureSource = "exif"
	CaptureSourceExiftool    CaptureSource = "exiftool"
	CaptureSourceFileMtime   CaptureSource = "filemtime"
	CaptureSourceUnavailable CaptureSource = "unavailable"
)

// CaptureTimeLayout is the format of every reported capture time.
const CaptureTimeLayout = "2006-01-02 15:04:05"

var exifDatePrefix = regexp.MustCompile(`^(\d{4}):(\d{2}):(\d{2})`)

// exifDateFields are read from embedded EXIF in order.
var exifDateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime}

// exiftoolDateFields are queried from RAW files in order.
var exiftoolDateFields = []string{"DateTimeOriginal", "CreateDate"}

// CaptureTime is a best-effort timestamp with its provenance.
type CaptureTime struct {
	Value  string
	Source CaptureSource
}

// NormalizeExifDate rewrites a leading "YYYY:MM:DD" to "YYYY-MM-DD" and
// returns any other string unchanged.
func NormalizeExifDate(value string) string {
	return exifDatePrefix.ReplaceAllString(value, "$1-$2-$3")
}

// CaptureResolver finds when a photo was taken.
type CaptureResolver struct {
	tool exiftool.Runner
}

// NewCaptureResolver creates a resolver. tool may be nil.
func NewCaptureResolver(tool exiftool.Runner) *CaptureResolver {
	return &CaptureResolver{tool: tool}
}

// Resolve tries embedded EXIF, then exiftool for RAW files, then the file's
// modification time. It never fails; when nothing works the source is
// CaptureSourceUnavailable.
func (c *CaptureResolver) Resolve(ctx context.Context, abs string, isRaw bool) CaptureTime {
	ct := c.resolve(ctx, abs, isRaw)
	metrics.CaptureTimeSourceTotal.WithLabelValues(string(ct.Source)).Inc()
	return ct
}

func (c *CaptureResolver) resolve(ctx context.Context, abs string, isRaw bool) CaptureTime {
	value, err := readExifDate(abs)
	if err == nil {
		return CaptureTime{Value: NormalizeExifDate(value), Source: CaptureSourceExif}
	}
	logging.Debug("no EXIF date in %s: %v", abs, err)

	if isRaw && c.tool != nil {
		for _, field := range exiftoolDateFields {
			value, err := c.tool.QueryTag(ctx, field, abs)
			if err == nil {
				return CaptureTime{Value: NormalizeExifDate(value), Source: CaptureSourceExiftool}
			}
		}
	}

	if info, err := os.Stat(abs); err == nil {
		return CaptureTime{Value: info.ModTime().Format(CaptureTimeLayout), Source: CaptureSourceFileMtime}
	}

	return CaptureTime{Source: CaptureSourceUnavailable}
}

func readExifDate(path string) (value string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// goexif can panic on truncated maker notes
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exif decode panic: %v", r)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		return "", err
	}

	for _, name := range exifDateFields {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(strings.TrimRight(s, "\x00")); s != "" {
			return s, nil
		}
	}

	return "", fmt.Errorf("no date tags")
}
