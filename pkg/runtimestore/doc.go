// Package runtimestore implements the Runtime Store (C8): best-effort,
// asynchronous persistence of a torrent's filesystem-pipeline job
// lifecycle (started/completed/failed). Writes are dispatched onto a
// bounded worker pool rather than a bare goroutine per call, so a
// stalled database connection cannot unboundedly spawn goroutines; each
// write gets a small bounded retry budget before it is logged and
// dropped.
package runtimestore
