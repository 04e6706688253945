package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_messages_processed_total",
		Help: "Inbound messages handled by the bridge callback.",
	})
	TuplesForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_tuples_forwarded_total",
		Help: "Key/value tuples forwarded into the sink.",
	})
	ProcessErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_process_errors_total",
		Help: "Callback invocations that returned an error.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
