package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/ray-u/bare-photos/internal/filesystem"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/mediatypes"
	"github.com/ray-u/bare-photos/internal/safepath"

	"github.com/h2non/filetype"
)

// sniffLen is the header size filetype needs to match every format it knows.
const sniffLen = 262

// ServeFile streams an original photo. ?download=1 adds an attachment
// Content-Disposition carrying both an ASCII and a UTF-8 filename.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	res, err := safepath.ResolveAndConfirm(h.index.Root(), requestPath(r))
	if err != nil {
		logging.Debug("ServeFile: %v", err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	f, err := filesystem.OpenWithRetry(res.Abs, h.retry)
	if err != nil {
		logging.Warn("ServeFile: open %s: %v", res.Rel, err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Warn("ServeFile: stat %s: %v", res.Rel, err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	contentType, err := detectContentType(f, mediatypes.Ext(res.Rel))
	if err != nil {
		logging.Warn("ServeFile: read %s: %v", res.Rel, err)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", contentDisposition(path.Base(res.Rel)))
	}

	http.ServeContent(w, r, "", info.ModTime(), f)
}

// ServeThumbnail serves the cached thumbnail for ?path=, generating it
// first when the source photo exists but has no cache entry yet.
func (h *Handlers) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	rel, err := safepath.Normalize(requestPath(r))
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	resolver := h.index.Resolver()
	if !resolver.HasThumbnail(rel) {
		if res, err := safepath.ResolveAndConfirm(h.index.Root(), rel); err == nil {
			info := resolver.Resolve(r.Context(), res.Rel, mediatypes.Ext(res.Rel))
			logging.Debug("ServeThumbnail: generated %s on demand: %s", res.Rel, info.Status)
		}
	}

	f, err := os.Open(resolver.ThumbnailPath(rel))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("ServeThumbnail: %v", err)
		}
		http.Error(w, "thumbnail not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "thumbnail not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// detectContentType sniffs the file header and falls back to the extension
// map. TIFF-based RAW formats sniff as image/tiff and keep their RAW type.
// f is rewound before returning.
func detectContentType(f io.ReadSeeker, ext string) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	kind, err := filetype.Match(head[:n])
	if err == nil && kind != filetype.Unknown {
		mime := kind.MIME.Value
		if mime == "image/tiff" && mediatypes.GetFileType(ext) == mediatypes.FileTypeRaw {
			return mediatypes.GetMimeType(ext), nil
		}
		return mime, nil
	}
	return mediatypes.GetMimeType(ext), nil
}

// contentDisposition builds an attachment header whose filename parameter
// is ASCII with quotes and backslashes escaped, and whose filename*
// parameter carries the exact UTF-8 name percent-encoded.
func contentDisposition(name string) string {
	var ascii strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			ascii.WriteByte('\\')
			ascii.WriteRune(r)
		case r < 0x20 || r >= 0x7f:
			ascii.WriteByte('_')
		default:
			ascii.WriteRune(r)
		}
	}
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return `attachment; filename="` + ascii.String() + `"; filename*=UTF-8''` + encoded
}
