package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequestsTotalIncrementsByRouteAndStatus(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestsTotal.WithLabelValues("/v1/torrents", "200").Inc()
	HTTPRequestsTotal.WithLabelValues("/v1/torrents", "200").Inc()
	HTTPRequestsTotal.WithLabelValues("/v1/torrents", "429").Inc()

	require.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/v1/torrents", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/v1/torrents", "429")))
}

func TestEventBusSubscribersGaugeTracksSetCalls(t *testing.T) {
	EventBusSubscribers.Set(3)
	require.Equal(t, float64(3), testutil.ToFloat64(EventBusSubscribers))

	EventBusSubscribers.Set(0)
	require.Equal(t, float64(0), testutil.ToFloat64(EventBusSubscribers))
}
