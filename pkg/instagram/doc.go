// Package instagram implements the authenticated client for Instagram's
// private web API.
//
// The client owns the process-wide session context: cookies, CSRF token and
// the anti-abuse claim token echoed between requests. The session value is
// immutable; every mutation is a full replacement via atomic pointer swap,
// and authentication failures drop it entirely.
//
// Failures are classified deterministically into the igfetch/pkg/errors
// taxonomy from the HTTP status and, for the ambiguous 401/403 pair, known
// challenge markers in the response body.
package instagram
