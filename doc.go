// Command bare-photos serves a personal photo library over HTTP.
//
// It lists the images and camera RAW files under PHOTO_DIR, serves the
// originals, generates JPEG thumbnails on demand into THUMB_DIR, tracks
// favorites and supports bulk deletion. RAW previews come from a sidecar
// JPEG next to the RAW file or from the preview embedded in it, extracted
// with exiftool.
//
// # Startup
//
//  1. Configuration is loaded from the environment and an optional .env file
//  2. libvips is started unless THUMB_BACKEND=imaging
//  3. exiftool is located and its version logged
//  4. The favorites store is opened (JSON file or SQLite)
//  5. The HTTP server and, if enabled, the metrics server start
//
// SIGINT and SIGTERM shut both servers down gracefully.
//
// See cmd/photoctl for thumbnail warm-up and favorites inspection.
package main
