// Package auth computes the per-request AuthContext (C5): API-key,
// setup-token, or anonymous credential resolution over pkg/config, plus
// the API-key refresh operation. It never touches pkg/store directly —
// every lookup goes through the configuration facade so C5 stays a thin
// policy layer over C4.
package auth
