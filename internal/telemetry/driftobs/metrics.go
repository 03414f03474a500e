// Copyright 2025 The Driftwatch Authors. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package driftobs exposes Prometheus metrics for the drift pipeline:
// profiles built, alerts raised, PSI divergence observed, and queue flush
// sizes. Series are package-level vars registered once in init(), so both
// binaries share one registry without wiring.
package driftobs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	profilesBuiltTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_profiles_built_total",
		Help: "Total drift profiles built, by drift type",
	}, []string{"drift_type"})

	alertsRaisedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_alerts_raised_total",
		Help: "Total alerts raised, by drift type and alert kind",
	}, []string{"drift_type", "kind"})

	psiObserved = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "driftwatch_psi_observed",
		Help:    "Distribution of observed PSI divergence values per feature",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}, []string{"feature"})

	queueFlushSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "driftwatch_queue_flush_records",
		Help:    "Number of records emitted per queue flush, by queue kind",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	}, []string{"queue"})

	queueFlushErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_queue_flush_errors_total",
		Help: "Total errors encountered writing a flushed batch to a sink",
	})

	simObservationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_sim_observations_total",
		Help: "Synthetic observations generated by driftsim, by feature",
	}, []string{"feature"})
)

func init() {
	prometheus.MustRegister(profilesBuiltTotal, alertsRaisedTotal, psiObserved, queueFlushSize,
		queueFlushErrorsTotal, simObservationsTotal)
}

// ObserveProfileBuilt increments the profiles-built counter for driftType.
func ObserveProfileBuilt(driftType string) {
	profilesBuiltTotal.WithLabelValues(driftType).Inc()
}

// ObserveAlert increments the alerts-raised counter for (driftType, kind).
func ObserveAlert(driftType, kind string) {
	alertsRaisedTotal.WithLabelValues(driftType, kind).Inc()
}

// ObservePsi records one feature's divergence value.
func ObservePsi(feature string, psi float64) {
	psiObserved.WithLabelValues(feature).Observe(psi)
}

// ObserveQueueFlush records the number of records a queue emitted on flush.
func ObserveQueueFlush(queue string, n int) {
	queueFlushSize.WithLabelValues(queue).Observe(float64(n))
}

// ObserveSinkError increments the sink-write error counter.
func ObserveSinkError() {
	queueFlushErrorsTotal.Inc()
}

// ObserveSimObservation increments the driftsim generated-observations
// counter for feature.
func ObserveSimObservation(feature string) {
	simObservationsTotal.WithLabelValues(feature).Inc()
}

// ServeMetrics starts a dedicated /metrics endpoint on addr in a background
// goroutine.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
