package metrics

import (
	"io"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const namespace = "mpbits"

// Registry holds the storage and operation metrics of one process on a
// private prometheus registry, together with the Go runtime collectors.
//
// It implements wordstore.Observer and machine.OpRecorder.
type Registry struct {
	reg *prometheus.Registry

	grows         prometheus.Counter
	growWords     prometheus.Histogram
	failures      prometheus.Counter
	releasedWords prometheus.Counter
	operations    *prometheus.CounterVec

	handlerOnce sync.Once
	handler     http.Handler
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		grows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "grows_total",
			Help:      "Number of successful word storage growths.",
		}),
		growWords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "grow_words",
			Help:      "Capacity in words after each storage growth.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 10),
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "allocation_failures_total",
			Help:      "Number of storage requests that could not be served.",
		}),
		releasedWords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "released_words_total",
			Help:      "Words handed back to the allocator.",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Register machine operations by command and outcome.",
		}, []string{"op", "result"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.grows, r.growWords, r.failures, r.releasedWords, r.operations,
	)
	return r
}

// Grew implements wordstore.Observer.
func (r *Registry) Grew(_, to int) {
	r.grows.Inc()
	r.growWords.Observe(float64(to))
}

// Failed implements wordstore.Observer.
func (r *Registry) Failed(int, error) { r.failures.Inc() }

// Released implements wordstore.Observer.
func (r *Registry) Released(words int) { r.releasedWords.Add(float64(words)) }

// RecordOp implements machine.OpRecorder.
func (r *Registry) RecordOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.operations.WithLabelValues(op, result).Inc()
}

// MustRegister adds collectors owned by other components, such as the
// HTTP server's request metrics. It panics on duplicate registration.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Handler returns an http.Handler serving the registry in the Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	r.handlerOnce.Do(func() {
		r.handler = promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	})
	return r.handler
}

// WritePrometheus serves one scrape.
func (r *Registry) WritePrometheus(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// WriteText writes every metric family in the plain text format, for
// dumping at process exit.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
