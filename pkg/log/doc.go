/*
Package log provides structured logging for Revaer using zerolog.

The package wraps zerolog to give every component a consistent JSON or
console-pretty logger, selected once at process start via Init. Component
loggers carry a component field plus optional per-request/per-torrent
context so log lines stay queryable without manual field repetition.

Usage:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	fsopsLog := log.WithComponent("fsops").
		With().Str("torrent_id", id.String()).Logger()
	fsopsLog.Info().Msg("pipeline started")

Never log secrets: API-key secrets, setup-token plaintext, and decrypted
named-secret values must never reach a log line, structured or not.
*/
package log
