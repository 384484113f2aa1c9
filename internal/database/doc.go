// Package database provides the SQLite favorites backend.
//
// It stores the favorites set in a single table and implements
// favorites.Store, so it can replace the JSON file without changes to
// callers. The database uses WAL mode and is created on first open.
package database
