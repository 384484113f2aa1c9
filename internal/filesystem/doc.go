/*
Package filesystem wraps os.Stat and os.Open with retry logic for NFS stale
file handle errors.

Photo libraries are often mounted over NFS. When the server side changes a
directory, clients can briefly see ESTALE (errno 116) for files that still
exist. Those errors are retried with exponential backoff; every other error,
including os.ErrNotExist, is returned immediately.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

Retries are counted in the bare_photos_filesystem_retry_* metrics.
*/
package filesystem
