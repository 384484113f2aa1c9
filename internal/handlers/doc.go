// Package handlers provides the HTTP API of the photo service.
//
// It includes handlers for:
//   - Listing photos with thumbnail, preview and capture-time fields
//   - Serving originals and cached thumbnails
//   - Toggling favorites and bulk deletion
//   - Health, liveness and version probes
package handlers
