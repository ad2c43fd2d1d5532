package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider onto real Prometheus instruments,
// registered lazily on first use against the supplied Registerer. It is the
// concrete metrics home for the bridge's worker pool (queue depth, active
// workers, submissions completed, callable run time) and runner (tasks
// started, finished, failed and dropped at shutdown) when an application
// wants metrics scraped rather than just
// queryable in-process via BasicProvider.
type PrometheusProvider struct {
	reg       prometheus.Registerer
	namespace string

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a Provider backed by reg. Pass
// prometheus.DefaultRegisterer to expose instruments on the default
// exposition endpoint, or a fresh prometheus.NewRegistry() to keep a
// bridge's metrics isolated (e.g. one Runner per test).
func NewPrometheusProvider(reg prometheus.Registerer, namespace string) *PrometheusProvider {
	return &PrometheusProvider{
		reg:        reg,
		namespace:  namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (p *PrometheusProvider) labelNames(cfg InstrumentConfig) []string {
	names := make([]string, 0, len(cfg.Attributes))
	for k := range cfg.Attributes {
		names = append(names, k)
	}
	return names
}

func (p *PrometheusProvider) labelValues(cfg InstrumentConfig, names []string) prometheus.Labels {
	labels := make(prometheus.Labels, len(names))
	for _, n := range names {
		labels[n] = cfg.Attributes[n]
	}
	return labels
}

// Counter returns a monotonic counter instrument for name, registering a
// CounterVec the first time name is seen.
func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.counters[name]
	if !ok {
		names := p.labelNames(cfg)
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      cfg.Description,
		}, names)
		p.reg.MustRegister(vec)
		p.counters[name] = vec
	}
	return counterAdapter{vec.With(p.labelValues(cfg, p.labelNames(cfg)))}
}

// UpDownCounter returns a gauge instrument for name, registering a GaugeVec
// the first time name is seen.
func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.updowns[name]
	if !ok {
		names := p.labelNames(cfg)
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      cfg.Description,
		}, names)
		p.reg.MustRegister(vec)
		p.updowns[name] = vec
	}
	return gaugeAdapter{vec.With(p.labelValues(cfg, p.labelNames(cfg)))}
}

// Histogram returns a histogram instrument for name, registering a
// HistogramVec the first time name is seen.
func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.histograms[name]
	if !ok {
		names := p.labelNames(cfg)
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      cfg.Description,
			Buckets:   prometheus.DefBuckets,
		}, names)
		p.reg.MustRegister(vec)
		p.histograms[name] = vec
	}
	return histogramAdapter{vec.With(p.labelValues(cfg, p.labelNames(cfg)))}
}

// The adapters below narrow the Prometheus client's instrument surfaces
// to the Provider interfaces, since those deliberately stay smaller than
// the client's own.

type counterAdapter struct {
	prometheus.Counter
}

func (c counterAdapter) Add(n int64) { c.Counter.Add(float64(n)) }

type gaugeAdapter struct {
	prometheus.Gauge
}

func (g gaugeAdapter) Add(n int64) { g.Gauge.Add(float64(n)) }

type histogramAdapter struct {
	prometheus.Observer
}

func (h histogramAdapter) Record(v float64) { h.Observer.Observe(v) }
