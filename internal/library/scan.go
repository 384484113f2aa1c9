package library

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/mediatypes"
	"github.com/ray-u/bare-photos/internal/safepath"

	"github.com/karrick/godirwalk"
)

// candidate is a file found by the walk that has a photo extension.
type candidate struct {
	rel      string
	ext      string
	fileType mediatypes.FileType
}

// scan walks root and returns every image or RAW file below it. Hidden
// files and directories are skipped, as is the thumbnail directory when it
// lives inside the root.
func (idx *Index) scan(ctx context.Context) ([]candidate, error) {
	var found []candidate

	err := godirwalk.Walk(idx.root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			osPathname = filepath.Clean(osPathname)
			if osPathname == idx.root {
				return nil
			}

			hidden := strings.HasPrefix(de.Name(), ".")

			if de.IsDir() {
				if hidden || osPathname == idx.thumbDir {
					return godirwalk.SkipThis
				}
				return nil
			}
			if hidden || !(de.IsRegular() || de.IsSymlink()) {
				return nil
			}

			ext := mediatypes.Ext(de.Name())
			fileType := mediatypes.GetFileType(ext)
			if fileType == mediatypes.FileTypeOther {
				return nil
			}

			rel, err := filepath.Rel(idx.root, osPathname)
			if err != nil {
				logging.Debug("scan: cannot relativize %s: %v", osPathname, err)
				return nil
			}
			rel = filepath.ToSlash(rel)
			if _, err := safepath.Normalize(rel); err != nil {
				logging.Debug("scan: skipping %q: %v", rel, err)
				return nil
			}

			found = append(found, candidate{rel: rel, ext: ext, fileType: fileType})
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			logging.Warn("Error accessing path %s: %v", osPathname, err)
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}
