package mediatypes

import (
	"path"
	"strings"
)

// FileType represents the type of a photo file.
type FileType string

const (
	// FileTypeImage represents a directly decodable raster image.
	FileTypeImage FileType = "image"
	// FileTypeRaw represents a camera RAW file.
	FileTypeRaw FileType = "raw"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// Filter selects which photo types a listing includes.
type Filter string

const (
	// FilterAll includes images and RAW files.
	FilterAll Filter = "all"
	// FilterImage includes only images.
	FilterImage Filter = "image"
	// FilterRaw includes only RAW files.
	FilterRaw Filter = "raw"
)

// ImageExtensions maps extensions to whether they are viewable images.
var ImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

// RawExtensions maps extensions to whether they are camera RAW formats.
var RawExtensions = map[string]bool{
	"arw": true,
	"cr2": true,
	"cr3": true,
	"nef": true,
	"dng": true,
	"rw2": true,
	"orf": true,
	"raf": true,
}

// MimeTypes maps extensions to their MIME types.
var MimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"arw":  "image/x-sony-arw",
	"cr2":  "image/x-canon-cr2",
	"cr3":  "image/x-canon-cr3",
	"nef":  "image/x-nikon-nef",
	"dng":  "image/x-adobe-dng",
	"rw2":  "image/x-panasonic-rw2",
	"orf":  "image/x-olympus-orf",
	"raf":  "image/x-fuji-raf",
}

// Ext returns the lowercase extension of name without the leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// GetFileType returns the FileType for a lowercase extension.
func GetFileType(ext string) FileType {
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	if RawExtensions[ext] {
		return FileTypeRaw
	}
	return FileTypeOther
}

// GetMimeType returns the MIME type for a lowercase extension, or
// "application/octet-stream" if it is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ParseFilter maps a query value to a Filter. Unrecognized values mean FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterImage, FilterRaw:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Matches reports whether a file of type t passes the filter.
func (f Filter) Matches(t FileType) bool {
	switch f {
	case FilterImage:
		return t == FileTypeImage
	case FilterRaw:
		return t == FileTypeRaw
	default:
		return t == FileTypeImage || t == FileTypeRaw
	}
}
