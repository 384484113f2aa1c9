// Package mediatypes classifies files by extension into the photo types
// bare-photos understands and maps extensions to MIME types.
//
// Extensions are lowercase without the leading dot ("jpg", "arw"). Two
// types exist:
//   - image: rasters the thumbnail pipeline can decode directly
//   - raw: camera RAW files, previewed through a sidecar JPEG or exiftool
//
// Everything else is ignored by the photo index.
package mediatypes
