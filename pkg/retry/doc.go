// Package retry wraps provider calls with configurable retry logic.
//
// Retrying is a caller concern: the client and strategies classify
// failures and return them once; this package decides which failures are
// worth repeating and how long to wait. Only rate limiting and transport
// errors retry by default, with per-kind backoff so a 429 backs off far
// harder than a dropped connection.
package retry
