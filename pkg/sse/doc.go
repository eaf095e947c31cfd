// Package sse wraps pkg/events' in-process broker into an authenticated
// HTTP/SSE gateway (spec §4.10): it authenticates the connection, parses
// a per-subscriber filter from the query string, emits an initial state
// snapshot, and then multiplexes live envelopes through that filter
// until the client disconnects.
package sse
