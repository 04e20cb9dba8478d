package disabled_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahdiidarabi/seedsig/internal/metrics"
	"github.com/mahdiidarabi/seedsig/internal/metrics/disabled"
)

func TestDisabledProvider(t *testing.T) {
	var p metrics.Provider = &disabled.Provider{}

	c := p.NewCounter(metrics.CounterOpts{Name: "ops", LabelNames: []string{"operation"}})
	assert.NotPanics(t, func() { c.With("sign").Add(1) })

	h := p.NewHistogram(metrics.HistogramOpts{Name: "duration"})
	assert.NotPanics(t, func() { h.With("verify").Observe(0.5) })
}
