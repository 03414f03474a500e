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

// Package psi implements the Population Stability Index drift family:
// building per-feature reference bin sets (numeric, binary, or categorical)
// and computing the PSI divergence of new data against them.
package psi

import (
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/constraints"

	"driftwatch/pkg/binning"
	"driftwatch/pkg/driftprofile"
	"driftwatch/pkg/featuremap"
)

// Float is the numeric-dispatch constraint shared across the drift core.
type Float interface {
	constraints.Float
}

// Epsilon is the smoothing term in the PSI divergence formula.
const Epsilon = 1e-10

// BuildConfig controls how each feature column is binned. FeatureMap, when
// set, is the string->code table the categorical columns were encoded with;
// it is persisted into the profile's config so it can be rebuilt with
// featuremap.FromCodes, which gives a PsiQueue each feature's reserved
// "missing" code.
type BuildConfig struct {
	CategoricalFeatures map[string]bool
	Binning             binning.EqualWidthBinning
	FeatureMap          *featuremap.FeatureMap
}

// BuildProfile constructs one PsiFeatureDriftProfile per feature column
// (feature name -> column). Categorical columns are expected to already
// carry integer codes (assigned upstream by pkg/featuremap when the raw
// data is string-valued); the builder itself buckets by integer-cast value.
func BuildProfile[F Float](columns map[string][]F, cfg BuildConfig, args driftprofile.ProfileArgs) (*driftprofile.DriftProfile, error) {
	if args.Schedule != "" && !driftprofile.ValidateCron(args.Schedule) {
		return nil, driftprofile.ParseError("psi: schedule is not a six-field cron string")
	}
	now := time.Now().UTC()

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}

	// Column-parallel map across features; each goroutine writes only its
	// own result index and errors are collected per column.
	profiles := make([]driftprofile.PsiFeatureDriftProfile, len(names))
	errs := make([]error, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers > len(names) {
		workers = len(names)
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				name := names[i]
				profiles[i], errs[i] = buildFeature(name, columns[name], cfg, now)
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	features := make(map[string]driftprofile.PsiFeatureDriftProfile, len(names))
	for i, name := range names {
		if errs[i] != nil {
			return nil, errs[i]
		}
		features[name] = profiles[i]
	}

	args.DriftType = driftprofile.DriftTypePsi
	config := driftprofile.Config{
		ProfileArgs:    args,
		AlertConfigPsi: &driftprofile.PsiAlertConfig{PsiThreshold: driftprofile.DefaultPsiThreshold},
	}
	for name := range cfg.CategoricalFeatures {
		if cfg.CategoricalFeatures[name] {
			config.CategoricalFeatures = append(config.CategoricalFeatures, name)
		}
	}
	sort.Strings(config.CategoricalFeatures)
	if cfg.FeatureMap != nil {
		config.FeatureMap = make(map[string]map[string]int, len(config.CategoricalFeatures))
		for _, name := range config.CategoricalFeatures {
			if codes := cfg.FeatureMap.Codes(name); codes != nil {
				config.FeatureMap[name] = codes
			}
		}
	}
	return &driftprofile.DriftProfile{
		Config:         config,
		PsiFeatures:    features,
		ScouterVersion: args.ScouterVersion,
	}, nil
}

// buildFeature bins one feature column: categorical if declared so in cfg,
// binary if every finite value is exactly 0 or 1, numeric otherwise.
func buildFeature[F Float](name string, col []F, cfg BuildConfig, now time.Time) (driftprofile.PsiFeatureDriftProfile, error) {
	finite := dropNonFinite(col)
	if len(finite) == 0 {
		return driftprofile.PsiFeatureDriftProfile{}, driftprofile.EmptyArray("psi: feature " + name + " has no finite values")
	}

	var bins []driftprofile.Bin
	var binType driftprofile.BinType
	var err error

	switch {
	case cfg.CategoricalFeatures[name]:
		bins = categoricalBins(finite)
		binType = driftprofile.BinTypeCategory
	case isBinary(finite):
		bins = binaryBins(finite)
		binType = driftprofile.BinTypeBinary
	default:
		bins, err = numericBins(cfg.Binning, finite)
		binType = driftprofile.BinTypeNumeric
	}
	if err != nil {
		return driftprofile.PsiFeatureDriftProfile{}, err
	}

	sort.Slice(bins, func(i, j int) bool { return bins[i].ID < bins[j].ID })
	return driftprofile.PsiFeatureDriftProfile{ID: name, Bins: bins, BinType: binType, Timestamp: now}, nil
}

func dropNonFinite[F Float](xs []F) []F {
	out := make([]F, 0, len(xs))
	for _, v := range xs {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			out = append(out, v)
		}
	}
	return out
}

func isBinary[F Float](xs []F) bool {
	for _, v := range xs {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func numericBins[F Float](b binning.EqualWidthBinning, xs []F) ([]driftprofile.Bin, error) {
	interior, err := binning.ComputeEdges(b, xs)
	if err != nil {
		return nil, err
	}
	// Prepend -Inf, append +Inf to obtain k bins from k-1 interior edges.
	edges := make([]float64, 0, len(interior)+2)
	edges = append(edges, math.Inf(-1))
	for _, e := range interior {
		edges = append(edges, float64(e))
	}
	edges = append(edges, math.Inf(1))

	n := len(xs)
	counts := make([]int, len(edges)-1)
	for _, v := range xs {
		fv := float64(v)
		idx := findBinIndex(edges, fv)
		counts[idx]++
	}

	bins := make([]driftprofile.Bin, len(counts))
	for i := range counts {
		lower := edges[i]
		upper := edges[i+1]
		bins[i] = driftprofile.Bin{
			ID:         i + 1,
			Proportion: float64(counts[i]) / float64(n),
		}
		// The open ends stay nil (meaning -Inf / +Inf).
		if !math.IsInf(lower, -1) {
			bins[i].Lower = ptr(lower)
		}
		if !math.IsInf(upper, 1) {
			bins[i].Upper = ptr(upper)
		}
	}
	return bins, nil
}

// findBinIndex locates the bin whose (lower, upper] contains v: the first
// bin uses v <= upper, the last uses v > lower, interior bins use
// lower < v <= upper.
func findBinIndex(edges []float64, v float64) int {
	for i := 0; i < len(edges)-1; i++ {
		lower, upper := edges[i], edges[i+1]
		switch {
		case i == 0:
			if v <= upper {
				return i
			}
		case i == len(edges)-2:
			if v > lower {
				return i
			}
		default:
			if v > lower && v <= upper {
				return i
			}
		}
	}
	return len(edges) - 2
}

func binaryBins[F Float](xs []F) []driftprofile.Bin {
	var ones int
	for _, v := range xs {
		if v == 1 {
			ones++
		}
	}
	mean := float64(ones) / float64(len(xs))
	return []driftprofile.Bin{
		{ID: 0, Proportion: 1 - mean},
		{ID: 1, Proportion: mean},
	}
}

func categoricalBins[F Float](xs []F) []driftprofile.Bin {
	counts := make(map[int]int)
	for _, v := range xs {
		bucket := int(v)
		counts[bucket]++
	}
	bins := make([]driftprofile.Bin, 0, len(counts))
	for id, c := range counts {
		bins = append(bins, driftprofile.Bin{ID: id, Proportion: float64(c) / float64(len(xs))})
	}
	return bins
}

func ptr(v float64) *float64 { return &v }
