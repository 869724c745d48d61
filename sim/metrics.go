// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"

	"github.com/cl400sound/hyram-mpat/mdl/source"
	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors of blowdown runs. A nil *Metrics records nothing
type Metrics struct {
	gatherer prometheus.Gatherer

	Runs         *prometheus.CounterVec // runs by final status
	Steps        prometheus.Counter     // macro-steps
	Halvings     prometheus.Counter     // macro-step halvings
	EmptyingTime prometheus.Histogram   // time of last recorded point
}

// NewMetrics registers the collectors with reg; nil means the default registry.
// Collectors already registered with reg are reused
func NewMetrics(reg prometheus.Registerer) (o *Metrics, err error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o = &Metrics{gatherer: prometheus.DefaultGatherer}
	if g, ok := reg.(prometheus.Gatherer); ok {
		o.gatherer = g
	}
	o.Runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blowdown_runs_total",
		Help: "Number of blowdown runs by final status.",
	}, []string{"status"}))
	if err != nil {
		return nil, err
	}
	o.Steps, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blowdown_steps_total",
		Help: "Number of macro-steps taken by blowdown runs.",
	}))
	if err != nil {
		return nil, err
	}
	o.Halvings, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blowdown_step_halvings_total",
		Help: "Number of macro-step halvings after failed integrations.",
	}))
	if err != nil {
		return nil, err
	}
	o.EmptyingTime, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blowdown_emptying_time_seconds",
		Help:    "Simulated time until the end of blowdown runs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 12),
	}))
	if err != nil {
		return nil, err
	}
	return
}

// Gatherer returns the gatherer associated with the registry
func (o *Metrics) Gatherer() prometheus.Gatherer {
	if o == nil {
		return nil
	}
	return o.gatherer
}

// Observe records the statistics of a finished run
func (o *Metrics) Observe(bd *source.Blowdown) {
	if o == nil || bd == nil {
		return
	}
	o.Runs.WithLabelValues(bd.Status.String()).Inc()
	o.Steps.Add(float64(bd.Nsteps))
	o.Halvings.Add(float64(bd.Nhalvings))
	if n := bd.Len(); n > 0 {
		o.EmptyingTime.Observe(bd.Time[n-1])
	}
}

// register registers c or returns the equivalent collector already registered
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
		return c, chk.Err("collector %T already registered with incompatible type", c)
	}
	return c, err
}
