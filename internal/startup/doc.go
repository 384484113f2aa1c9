// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables by [LoadConfig]. A .env
// file in the working directory is loaded first; it never overrides a
// variable that is already set.
//
//   - PHOTO_DIR: Root of the photo library (default: ./photos)
//   - THUMB_DIR: Generated thumbnail cache (default: ./thumbs)
//   - DATA_DIR: Favorites persistence directory (default: ./data)
//   - FAVORITES_FILE: JSON favorites file (default: DATA_DIR/favorites.json)
//   - FAVORITES_BACKEND: json or sqlite (default: json)
//   - THUMB_MAX_EDGE: Longest thumbnail edge in pixels (default: 480)
//   - THUMB_QUALITY: Thumbnail JPEG quality (default: 84)
//   - THUMB_BACKEND: auto, imaging or vips (default: auto)
//   - EXIFTOOL_PATH: exiftool binary (default: exiftool)
//   - EXIFTOOL_TIMEOUT: Per-invocation timeout (default: 30s)
//   - APP_BASIC_USER, APP_BASIC_PASS: Basic auth credentials, the password
//     may be a bcrypt hash
//   - STATIC_DIR: Optional directory served at /
//   - PORT, METRICS_PORT, METRICS_ENABLED
//   - LOG_LEVEL, LOG_STATIC_FILES, LOG_HEALTH_CHECKS
//   - LIST_WORKERS: read by the workers package
//   - MEMORY_LIMIT, MEMORY_RATIO: read by the memory package when the
//     photo index is built
//
// Photo, thumbnail and data directories are made absolute and created when
// missing. The thumbnail directory must be writable.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
// [LogExiftoolInit], [LogTranscoderInit], [LogFavoritesInit],
// [LogDatabaseInit], [LogHTTPRoutes], [LogServerStarted] and the shutdown
// helpers print the sectioned startup log.
package startup
