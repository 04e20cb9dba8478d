package prometheus

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/mahdiidarabi/seedsig/internal/metrics"
)

// Provider creates meters registered with its own Registry, so several
// providers can coexist in one process.
type Provider struct {
	Registry *prom.Registry
}

// NewProvider returns a Provider backed by a fresh registry.
func NewProvider() *Provider {
	return &Provider{Registry: prom.NewRegistry()}
}

func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	cv := prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
		},
		o.LabelNames,
	)
	p.Registry.MustRegister(cv)
	return &Counter{vec: cv}
}

func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	hv := prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
			Buckets:   o.Buckets,
		},
		o.LabelNames,
	)
	p.Registry.MustRegister(hv)
	return &Histogram{vec: hv}
}

// WriteToTextfile writes the registry in the text exposition format, for
// node_exporter's textfile collector.
func (p *Provider) WriteToTextfile(filename string) error {
	return prom.WriteToTextfile(filename, p.Registry)
}

// Counter is a metrics.Counter over a CounterVec.
type Counter struct {
	vec    *prom.CounterVec
	labels []string
}

// With appends label values, in LabelNames order. Label names are not
// passed.
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{vec: c.vec, labels: append(append([]string{}, c.labels...), labelValues...)}
}

func (c *Counter) Add(delta float64) {
	c.vec.WithLabelValues(c.labels...).Add(delta)
}

// Histogram is a metrics.Histogram over a HistogramVec.
type Histogram struct {
	vec    *prom.HistogramVec
	labels []string
}

// With appends label values, in LabelNames order.
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{vec: h.vec, labels: append(append([]string{}, h.labels...), labelValues...)}
}

func (h *Histogram) Observe(value float64) {
	h.vec.WithLabelValues(h.labels...).Observe(value)
}
