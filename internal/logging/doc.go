// Package logging provides the leveled logger used across bare-photos.
//
// Levels, from most to least verbose:
//   - DEBUG: resolver decisions, cache hits, exiftool command lines
//   - INFO: startup, configuration, listing summaries
//   - WARN: recoverable problems (unreadable favorites file, failed cache write)
//   - ERROR: failures surfaced to a caller
//
// The level comes from LOG_LEVEL, or DEBUG=1 as a shortcut. Tests and
// the CLI may override it with SetLevel.
package logging
