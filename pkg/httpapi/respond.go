package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/revaer/revaer/pkg/revaerr"
)

const maxRequestBody = 1 << 20 // 1 MiB; every body this surface accepts is a settings or torrent-admission document, never a file upload.

// decodeJSON reads and decodes r's body into v, rejecting unknown
// fields and bodies over maxRequestBody so a malformed request fails
// fast with a 400 rather than an opaque unmarshal error deep in a
// handler.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &revaerr.InvalidFieldError{Section: "body", Field: "_", Reason: "request body is required"}
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &revaerr.InvalidFieldError{Section: "body", Field: "_", Reason: err.Error()}
	}
	return nil
}

// writeJSON renders v as the response body with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem renders err as an RFC9457 problem document, mirroring
// pkg/sse's writeProblem.
func writeProblem(w http.ResponseWriter, err error) {
	problem := revaerr.ToProblem(err)
	if rateLimit, ok := err.(*revaerr.RateLimitError); ok {
		w.Header().Set("Retry-After", strconv.Itoa(rateLimit.RetryAfterSeconds))
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}
