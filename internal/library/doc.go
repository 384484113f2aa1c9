// Package library enumerates the photo root and answers listing, deletion
// and warm-up requests.
//
// Every listing walks the filesystem afresh; there is no persistent index.
// Each qualifying file is confirmed to lie inside the root, its thumbnail
// resolved (and generated when missing) and its capture time read, using a
// bounded pool of workers. Entries are returned in natural, case-insensitive
// order of their relative path.
package library
