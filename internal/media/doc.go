// Package media turns photo files into the thumbnails, previews and
// capture times shown by the browser.
//
// The Resolver is the entry point. For each photo it either finds a
// cached thumbnail or generates one:
//   - Images: transcoded directly with the configured Transcoder
//   - RAW files: a same-named sidecar JPEG, or the preview embedded in
//     the RAW file and extracted with exiftool
//
// Generation failures never surface as errors; they are reported as a
// thumbnail status with a human-readable message.
package media
