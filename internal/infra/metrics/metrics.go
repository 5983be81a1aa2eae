package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	calculations *prometheus.CounterVec
	lookups      *prometheus.CounterVec
	tableSize    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutrition_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_calculations_total",
			Help: "Meal calculations by channel (http|bot) and result (ok|bad_request).",
		}, []string{"channel", "result"}),
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_food_lookups_total",
			Help: "Food lookups by result (matched|unmatched).",
		}, []string{"result"}),
		tableSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "nutrition_table_foods",
			Help: "Number of foods in the loaded nutrition table.",
		}),
	}
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) Calculation(channel, result string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) Lookups(matched, unmatched int) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues("matched").Add(float64(matched))
	m.lookups.WithLabelValues("unmatched").Add(float64(unmatched))
}

func (m *Metrics) SetTableSize(n int) {
	if m == nil {
		return
	}
	m.tableSize.Set(float64(n))
}

// CalculationsCounter — счётчик расчётов для канала и результата.
func (m *Metrics) CalculationsCounter(channel, result string) prometheus.Counter {
	return m.calculations.WithLabelValues(channel, result)
}
