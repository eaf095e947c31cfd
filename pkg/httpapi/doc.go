/*
Package httpapi is the HTTP surface (C11): a thin go-chi router that
authenticates, rate-limits, and dispatches requests to the
configuration facade (C4), the torrent API (C9), and the SSE gateway
(C10), translating their typed errors into RFC9457 problem+json
documents.

Every handler follows pkg/sse's inline gate-then-serve shape rather
than a middleware chain for auth: resolve the caller's AuthContext,
read a config snapshot, reject on mode/admission, then do the work.
Cross-cutting concerns that really are request-independent — CORS,
compression negotiation, per-key rate limiting — are chi middleware
instead.
*/
package httpapi
