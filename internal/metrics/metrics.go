package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var exchangeDurationSecs = promauto.NewSummaryVec(
	prometheus.SummaryOpts{
		Name: "pkceflow_token_exchange_duration_seconds",
		Help: "Duration of token endpoint exchange calls in seconds.",
	},
	[]string{"endpoint", "status"},
)

// ObserveExchange records one token endpoint call. status is the HTTP status
// code, or zero when the request never produced a response.
func ObserveExchange(endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	exchangeDurationSecs.WithLabelValues(endpoint, label).Observe(d.Seconds())
}
