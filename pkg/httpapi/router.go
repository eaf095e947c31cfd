package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/revaer/revaer/pkg/metrics"
)

// CORSOptions configures Router's cross-origin policy. A zero value
// allows no origins, matching a locked-down default; callers that want
// browser clients must opt in explicitly.
type CORSOptions struct {
	AllowedOrigins []string
}

// Router builds the complete chi.Router for the HTTP surface: global
// middleware (request id, structured access logging via zerolog
// through chimw.RequestLogger is left to the caller's own logger
// wiring in cmd/revaerd, panic recovery, CORS, response compression)
// followed by every v1 route, plus the SSE gateway mounted directly.
func (a *API) Router(corsOpts CORSOptions) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(corsOpts))
	r.Use(metricsMiddleware)

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}
	r.Use(compress)

	r.Get("/v1/health", a.handleHealth)

	r.Post("/v1/setup/start", a.handleSetupStart)
	r.Post("/v1/setup/complete", a.handleSetupComplete)

	r.Get("/v1/config/snapshot", a.handleConfigSnapshot)
	r.Patch("/v1/settings", a.handleSettingsPatch)

	r.Post("/v1/tokens/refresh", a.handleTokenRefresh)

	r.Get("/v1/torrents", a.handleTorrentsList)
	r.Post("/v1/torrents", a.handleTorrentsCreate)
	r.Post("/v1/torrents/create", a.handleTorrentsAuthor)
	r.Get("/v1/torrents/{id}", a.handleTorrentsGet)
	r.Post("/v1/torrents/{id}/actions", a.handleTorrentsAction)
	r.Post("/v1/torrents/{id}/select", a.handleTorrentsSelect)
	r.Patch("/v1/torrents/{id}/options", a.handleTorrentsOptionsPatch)
	r.Patch("/v1/torrents/{id}/trackers", a.handleTorrentsTrackersPatch)
	r.Delete("/v1/torrents/{id}/trackers", a.handleTorrentsTrackersDelete)
	r.Patch("/v1/torrents/{id}/web_seeds", a.handleTorrentsWebSeedsPatch)

	r.Post("/v1/factory-reset", a.handleFactoryReset)

	r.Get("/v1/events/stream", a.events.ServeHTTP)

	return r, nil
}

// metricsMiddleware records the route pattern (not the raw URL, to keep
// cardinality bounded), response status, and duration of every request
// into the internal Prometheus instruments registered by pkg/metrics.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// corsMiddleware adapts CORSOptions to rs/cors, grounded on the
// reference stack's cors.New(...).Handler(next) wiring.
func corsMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "Last-Event-Id"},
		AllowCredentials: false,
	})
	return c.Handler
}
