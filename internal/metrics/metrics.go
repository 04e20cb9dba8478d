// Package metrics defines the small metrics surface used by seedsig. A
// Provider is injected into the client; the prometheus subpackage backs it
// with a registry and the disabled subpackage makes every call a no-op.
package metrics

// A Provider is an abstraction for a metrics provider. It is a factory for
// Counter and Histogram meters.
type Provider interface {
	// NewCounter creates a new instance of a Counter.
	NewCounter(CounterOpts) Counter
	// NewHistogram creates a new instance of a Histogram.
	NewHistogram(HistogramOpts) Histogram
}

// A Counter represents a monotonically increasing value.
type Counter interface {
	// With is used to provide label values when updating a Counter. This
	// must be used to provide values for all LabelNames provided to
	// CounterOpts.
	With(labelValues ...string) Counter

	// Add increments a counter value.
	Add(delta float64)
}

// CounterOpts contains the information used to create a Counter.
type CounterOpts struct {
	// Namespace, Subsystem, and Name are components of the fully-qualified
	// name of the Metric. The fully-qualified name is created by joining
	// these components with an appropriate separator. Only Name is
	// mandatory, the others merely help structuring the name.
	Namespace string
	Subsystem string
	Name      string

	// Help provides information about this metric.
	Help string

	// LabelNames provides the names of the labels that can be attached to
	// this metric. When a metric is recorded, label values must be provided
	// for each of these label names.
	LabelNames []string
}

// A Histogram is a meter that records an observed value into quantized
// buckets.
type Histogram interface {
	// With is used to provide label values when recording a Histogram
	// observation. This must be used to provide values for all LabelNames
	// provided to HistogramOpts.
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// HistogramOpts contains the information used to create a Histogram.
type HistogramOpts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// Buckets can be used to provide the bucket boundaries for Prometheus.
	// When omitted, the default Prometheus bucket values are used.
	Buckets []float64

	LabelNames []string
}
