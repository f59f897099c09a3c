// Package downloader writes extracted media assets to disk.
//
// The Manager is deliberately forgiving: a single Download never returns
// an error to the caller, and DownloadBatch keeps going past individual
// failures, accumulating them in the report. Files are written atomically
// through a temporary sibling, duplicates are skipped by target path, and
// every terminal task is appended to a JSON-lines history file.
package downloader
