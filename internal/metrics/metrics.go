package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffeerun", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coffeerun", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	CoffeesOrdered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coffeerun", Name: "coffees_ordered_total", Help: "Coffees ordered on runs",
	})
	RunsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coffeerun", Name: "runs_closed_total", Help: "Runs closed and settled",
	})
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "coffeerun", Name: "event_feed_clients", Help: "Connected event feed websockets",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, CoffeesOrdered, RunsClosed, FeedClients)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
