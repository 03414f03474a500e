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

// Package main provides driftctl, the command-line entry point for the
// driftwatch model- and data-drift engine: it builds reference profiles,
// evaluates drift against a new batch, and runs a long-lived
// ingest-and-flush server loop.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"driftwatch/internal/config"
	"driftwatch/internal/sinks"
	"driftwatch/internal/telemetry/driftobs"
	"driftwatch/pkg/binning"
	"driftwatch/pkg/driftprofile"
	"driftwatch/pkg/featuremap"
	"driftwatch/pkg/psi"
	"driftwatch/pkg/queue"
	"driftwatch/pkg/spc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "build-profile":
		runBuildProfile(os.Args[2:])
	case "drift":
		runDrift(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: driftctl <build-profile|drift|serve> [flags]")
}

// readCSVColumn reads a single numeric column (by header name) from a CSV
// file into a float64 slice.
func readCSVColumn(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, h := range header {
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}

	var out []float64
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func runBuildProfile(args []string) {
	fs := flag.NewFlagSet("build-profile", flag.ExitOnError)
	input := fs.String("input", "", "CSV file with the reference dataset")
	feature := fs.String("feature", "", "Column name to profile")
	driftType := fs.String("drift_type", "Psi", "Drift family: Spc or Psi")
	out := fs.String("out", "", "Output path for the profile JSON (stdout if empty)")
	configPath := fs.String("config", "", "Path to driftwatch config YAML")
	fs.Parse(args)

	if *input == "" || *feature == "" {
		log.Fatal("build-profile requires -input and -feature")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	values, err := readCSVColumn(*input, *feature)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	var profile *driftprofile.DriftProfile
	profileArgs := driftprofile.ProfileArgs{Name: cfg.Name, Space: cfg.Space, Version: cfg.Version}

	switch driftprofile.DriftType(*driftType) {
	case driftprofile.DriftTypeSpc:
		sampleSize := spc.PickSampleSize(len(values))
		rows := make([][]float64, len(values))
		for i, v := range values {
			rows[i] = []float64{v}
		}
		profile, err = spc.BuildProfile([]string{*feature}, rows, profileArgs, sampleSize)
		if err == nil {
			profile.Config.Spc.Rule = driftprofile.SpcAlertRule{
				Rule:           cfg.SpcAlertRule,
				ZonesToMonitor: cfg.SpcZonesToMonitor,
			}
		}
	default:
		cols := map[string][]float64{*feature: values}
		buildCfg := psi.BuildConfig{CategoricalFeatures: map[string]bool{}, Binning: binning.EqualWidthBinning{Method: binning.DefaultMethod}}
		profile, err = psi.BuildProfile(cols, buildCfg, profileArgs)
		if err == nil {
			profile.Config.AlertConfigPsi.PsiThreshold = cfg.PsiThreshold
		}
	}
	if err != nil {
		log.Fatalf("building profile: %v", err)
	}

	driftobs.ObserveProfileBuilt(string(profile.Config.DriftType))
	writeJSON(*out, profile)
}

func runDrift(args []string) {
	fs := flag.NewFlagSet("drift", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to a profile JSON built by build-profile")
	input := fs.String("input", "", "CSV file with the observed batch")
	feature := fs.String("feature", "", "Column name to evaluate")
	fs.Parse(args)

	if *profilePath == "" || *input == "" || *feature == "" {
		log.Fatal("drift requires -profile, -input and -feature")
	}

	data, err := os.ReadFile(*profilePath)
	if err != nil {
		log.Fatalf("reading profile: %v", err)
	}
	var profile driftprofile.DriftProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		log.Fatalf("parsing profile: %v", err)
	}

	values, err := readCSVColumn(*input, *feature)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	switch profile.Config.DriftType {
	case driftprofile.DriftTypeSpc:
		rows := make([][]float64, len(values))
		for i, v := range values {
			rows[i] = []float64{v}
		}
		result, err := spc.ComputeDrift([]string{*feature}, rows, &profile)
		if err != nil {
			log.Fatalf("computing drift: %v", err)
		}
		rule := driftprofile.DefaultSpcAlertRule()
		if profile.Config.Spc != nil {
			rule = profile.Config.Spc.Rule
		}
		alerts, err := spc.GenerateAlerts(result, rule)
		if err != nil {
			log.Fatalf("checking rule: %v", err)
		}
		for _, summaries := range alerts.Features {
			for _, a := range summaries {
				driftobs.ObserveAlert("Spc", a.Kind)
			}
		}
		writeJSON("", alerts)
	default:
		cols := map[string][]float64{*feature: values}
		dm, err := psi.ComputeDrift(cols, &profile)
		if err != nil {
			log.Fatalf("computing drift: %v", err)
		}
		threshold := driftprofile.DefaultPsiThreshold
		if profile.Config.AlertConfigPsi != nil {
			threshold = profile.Config.AlertConfigPsi.PsiThreshold
		}
		for feature, value := range dm.Features {
			driftobs.ObservePsi(feature, value)
		}
		writeJSON("", psi.Alert(dm, threshold))
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to a profile JSON built by build-profile")
	configPath := fs.String("config", "", "Path to driftwatch config YAML")
	httpAddr := fs.String("http", ":8089", "HTTP listen address for /consume observation ingest")
	metricsAddr := fs.String("metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address")
	fs.Parse(args)

	if *profilePath == "" {
		log.Fatal("serve requires -profile")
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

	if *metricsAddr != "" {
		driftobs.ServeMetrics(*metricsAddr)
	}

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

	writeBatch := func(queueKind string, records driftprofile.ServerRecords) {
		if records.IsEmpty() {
			return
		}
		driftobs.ObserveQueueFlush(queueKind, len(records.Spc)+len(records.Psi)+len(records.Custom))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Write(ctx, records); err != nil {
			driftobs.ObserveSinkError()
			log.Printf("sink write failed: %v", err)
		}
	}

	// The ingest endpoint feeds whichever queue family the profile selects;
	// the flush ticker below drains whatever the windows haven't emitted yet.
	var spcQ *queue.SpcQueue
	var psiQ *queue.PsiQueue
	switch profile.Config.DriftType {
	case driftprofile.DriftTypeSpc:
		spcQ = queue.NewSpcQueue(cfg.Space, cfg.Name, cfg.Version, &profile)
	case driftprofile.DriftTypePsi:
		monitored := make([]string, 0, len(profile.PsiFeatures))
		for name := range profile.PsiFeatures {
			monitored = append(monitored, name)
		}
		var fm *featuremap.FeatureMap
		if profile.Config.FeatureMap != nil {
			fm = featuremap.FromCodes(profile.Config.FeatureMap)
		}
		psiQ = queue.NewPsiQueue(cfg.Space, cfg.Name, cfg.Version, &profile, fm, monitored)
	default:
		log.Fatalf("serve supports Spc and Psi profiles, got %q", profile.Config.DriftType)
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
		if spcQ != nil {
			writeBatch("spc", driftprofile.ServerRecords{
				RecordType: driftprofile.RecordSpc,
				Spc:        spcQ.Insert(feature, []float64{value}),
			})
		} else if err := psiQ.Insert(feature, []float64{value}); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
	go func() {
		log.Printf("driftctl serve ingesting on %s", *httpAddr)
		srv := &http.Server{Addr: *httpAddr, ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server stopped: %v", err)
		}
	}()

	ticker := time.NewTicker(cfg.FlushInterval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("driftctl serve: flushing every %s to %s sink\n", cfg.FlushInterval, cfg.Sink)
	for {
		select {
		case <-ticker.C:
			if spcQ != nil {
				writeBatch("spc", spcQ.Flush())
			} else {
				writeBatch("psi", psiQ.Flush())
			}
		case <-stop:
			fmt.Println("\nshutting down driftctl serve")
			return
		}
	}
}

func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encoding output: %v", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}
