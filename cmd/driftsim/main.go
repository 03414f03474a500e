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

// Package main provides driftsim, a synthetic observation generator for
// exercising the SPC queue-to-sink pipeline locally. A ticker-driven
// generator goroutine samples each feature around its profiled center, a
// second ticker flushes the queue to the configured sink, and an HTTP
// endpoint accepts manual injections on top of the generated load.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"driftwatch/internal/config"
	"driftwatch/internal/sinks"
	"driftwatch/internal/telemetry/driftobs"
	"driftwatch/pkg/driftprofile"
	"driftwatch/pkg/queue"
)

func main() {
	profilePath := flag.String("profile", "", "Path to a profile JSON built by driftctl build-profile (drift_type must be Spc)")
	configPath := flag.String("config", "", "Path to driftwatch config YAML")
	httpAddr := flag.String("http", ":8090", "HTTP listen address for manual /consume injections")
	metricsAddr := flag.String("metrics_addr", ":9090", "Prometheus /metrics listen address")
	qps := flag.Int("qps", 50, "synthetic observations generated per second, spread across features")
	drift := flag.Float64("drift", 0, "additive shift applied to every generated value, to exercise out-of-bounds alerts")
	noise := flag.Float64("noise", 1, "stddev of the Gaussian noise added around each feature's profiled center")
	duration := flag.Duration("duration", 0, "run duration; 0 runs until interrupted")
	flag.Parse()

	if *profilePath == "" {
		log.Fatal("driftsim requires -profile")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	data, err := os.ReadFile(*profilePath)
	if err != nil {
		log.Fatalf("reading profile: %v", err)
	}
	var profile driftprofile.DriftProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		log.Fatalf("parsing profile: %v", err)
	}
	if profile.Config.DriftType != driftprofile.DriftTypeSpc {
		log.Fatal("driftsim only generates synthetic data for Spc profiles")
	}
	features := make([]string, 0, len(profile.SpcFeatures))
	for name := range profile.SpcFeatures {
		features = append(features, name)
	}
	if len(features) == 0 {
		log.Fatal("profile has no features to simulate")
	}

	if *metricsAddr != "" {
		driftobs.ServeMetrics(*metricsAddr)
	}

	q := queue.NewSpcQueue(cfg.Space, cfg.Name, cfg.Version, &profile)

	var sink sinks.RecordSink
	switch cfg.Sink {
	case config.SinkRedis:
		sink = sinks.NewRedisSink(cfg.RedisAddr, cfg.RedisKey)
	default:
		fileSink, err := sinks.NewFileSink(cfg.FileSinkPath)
		if err != nil {
			log.Fatalf("opening file sink: %v", err)
		}
		defer fileSink.Close()
		sink = fileSink
	}

	// writeEmitted ships the records a full window emitted on insert; the
	// flush ticker below only covers partially filled windows.
	writeEmitted := func(recs []driftprofile.SpcServerRecord) {
		if len(recs) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		batch := driftprofile.ServerRecords{RecordType: driftprofile.RecordSpc, Spc: recs}
		if err := sink.Write(ctx, batch); err != nil {
			driftobs.ObserveSinkError()
			log.Printf("sink write failed: %v", err)
		}
	}

	http.HandleFunc("/consume", func(w http.ResponseWriter, r *http.Request) {
		feature := r.URL.Query().Get("feature")
		valueStr := r.URL.Query().Get("value")
		if feature == "" || valueStr == "" {
			http.Error(w, "feature and value query params required", http.StatusBadRequest)
			return
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			http.Error(w, "value must be a float", http.StatusBadRequest)
			return
		}
		writeEmitted(q.Insert(feature, []float64{value}))
		driftobs.ObserveSimObservation(feature)
		w.WriteHeader(http.StatusAccepted)
	})
	go func() {
		log.Printf("driftsim listening on %s", *httpAddr)
		srv := &http.Server{Addr: *httpAddr, ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server stopped: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	stop := make(chan struct{})
	go func() {
		interval := time.Second / time.Duration(maxInt(1, *qps))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				feature := features[rng.Intn(len(features))]
				fp := profile.SpcFeatures[feature]
				value := fp.Center + *drift + rng.NormFloat64()*(*noise)
				writeEmitted(q.Insert(feature, []float64{value}))
				driftobs.ObserveSimObservation(feature)
			}
		}
	}()

	flushTicker := time.NewTicker(cfg.FlushInterval)
	defer flushTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	var endTimer <-chan time.Time
	if *duration > 0 {
		endTimer = time.After(*duration)
	}

	fmt.Printf("driftsim: simulating %d obs/s across %d feature(s), flushing every %s\n", *qps, len(features), cfg.FlushInterval)
	for {
		select {
		case <-flushTicker.C:
			records := q.Flush()
			if records.IsEmpty() {
				continue
			}
			driftobs.ObserveQueueFlush("spc", len(records.Spc))
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := sink.Write(ctx, records); err != nil {
				driftobs.ObserveSinkError()
				log.Printf("sink write failed: %v", err)
			}
			cancel()
		case <-sigCh:
			close(stop)
			fmt.Println("\nshutting down driftsim")
			return
		case <-endTimer:
			close(stop)
			fmt.Println("duration elapsed, shutting down driftsim")
			return
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
