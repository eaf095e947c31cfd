// Package fsops implements the filesystem post-processing pipeline
// (C7): a fixed twelve-step machine that moves a completed torrent's
// payload into the configured library, applying extraction,
// flattening, permission, and cleanup policy along the way. Progress is
// persisted to a per-torrent JSON sidecar so a crashed or restarted run
// resumes from the last completed step instead of repeating work.
package fsops
