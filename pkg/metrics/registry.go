package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Shared histogram buckets used across components.
var (
	// DurationBuckets covers sub-millisecond handler work up to slow network calls.
	DurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}
	// CountBuckets covers small per-cycle cardinalities.
	CountBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250}
	// SizeBuckets covers payload sizes in bytes.
	SizeBuckets = prometheus.ExponentialBuckets(64, 4, 8)
)

// ComponentRegistry namespaces metrics per component and registers them with the
// default registerer. Subsystem may be empty for top-level components.
type ComponentRegistry struct {
	namespace string
	subsystem string
	reg       prometheus.Registerer
}

// NewComponentRegistry returns a registry bound to prometheus.DefaultRegisterer.
func NewComponentRegistry(namespace, subsystem string) *ComponentRegistry {
	return &ComponentRegistry{
		namespace: namespace,
		subsystem: subsystem,
		reg:       prometheus.DefaultRegisterer,
	}
}

// NewComponentRegistryWith returns a registry bound to a caller-provided registerer.
// Tests use this to avoid duplicate registration across cases.
func NewComponentRegistryWith(namespace, subsystem string, reg prometheus.Registerer) *ComponentRegistry {
	return &ComponentRegistry{namespace: namespace, subsystem: subsystem, reg: reg}
}

func (r *ComponentRegistry) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	c := prometheus.NewCounter(opts)
	r.register(c)
	return c
}

func (r *ComponentRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	c := prometheus.NewCounterVec(opts, labels)
	r.register(c)
	return c
}

func (r *ComponentRegistry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	g := prometheus.NewGauge(opts)
	r.register(g)
	return g
}

func (r *ComponentRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	g := prometheus.NewGaugeVec(opts, labels)
	r.register(g)
	return g
}

func (r *ComponentRegistry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	h := prometheus.NewHistogram(opts)
	r.register(h)
	return h
}

func (r *ComponentRegistry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	h := prometheus.NewHistogramVec(opts, labels)
	r.register(h)
	return h
}

// register tolerates duplicate registration so components can be constructed
// more than once in-process (tests, restarts).
func (r *ComponentRegistry) register(c prometheus.Collector) {
	if err := r.reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		panic(err)
	}
}
