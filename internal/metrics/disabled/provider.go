// Package disabled provides metrics that record nothing.
package disabled

import (
	"github.com/mahdiidarabi/seedsig/internal/metrics"
)

// Provider creates meters that discard every update.
type Provider struct{}

func (p *Provider) NewCounter(metrics.CounterOpts) metrics.Counter     { return &Counter{} }
func (p *Provider) NewHistogram(metrics.HistogramOpts) metrics.Histogram { return &Histogram{} }

// Counter is a no-op metrics.Counter.
type Counter struct{}

func (c *Counter) Add(float64) {}
func (c *Counter) With(...string) metrics.Counter {
	return c
}

// Histogram is a no-op metrics.Histogram.
type Histogram struct{}

func (h *Histogram) Observe(float64) {}
func (h *Histogram) With(...string) metrics.Histogram {
	return h
}
