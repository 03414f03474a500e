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

// Package driftmetrics holds the numeric primitives the rest of the drift
// core is built on: mean, sample standard deviation, quantiles, histograms
// and distinct counts over a single column of floating-point data. The
// statistics (mean, stddev, min/max, quantiles, skewness, histogram) skip
// non-finite values (NaN, +/-Inf) and fail with a typed driftprofile.Error
// when a column has no finite values left; DistinctCount and the
// missing/infinity percentages read every value.
package driftmetrics

import (
	"math"
	"sort"
	"strconv"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"driftwatch/pkg/driftprofile"
)

// Float is the numeric dispatch constraint this package monomorphises over:
// one generic entry point per call site, no runtime branching on element
// width inside hot loops.
type Float interface {
	constraints.Float
}

// QuantileFractions are the four fractions the core always reports.
var QuantileFractions = [...]float64{0.25, 0.50, 0.75, 0.99}

// Summary is the descriptive statistics bundle computed over one column.
// CountMissingPerc/CountInfinityPerc are purely informational; no drift
// computation reads them.
type Summary[F Float] struct {
	Mean              F
	StdDev            F
	Min               F
	Max               F
	Quantiles         map[float64]F
	Distinct          int
	CountMissingPerc  float64
	CountInfinityPerc float64
}

// finite reports whether v is neither NaN nor +/-Inf.
func finite[F Float](v F) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// filterFinite returns the finite subset of xs, preserving order.
func filterFinite[F Float](xs []F) []F {
	out := make([]F, 0, len(xs))
	for _, v := range xs {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}

func toFloat64[F Float](xs []F) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = float64(v)
	}
	return out
}

// Mean returns the arithmetic mean of the finite values in xs.
func Mean[F Float](xs []F) (F, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return 0, driftprofile.EmptyArray("mean: no finite values")
	}
	return F(stat.Mean(toFloat64(fin), nil)), nil
}

// StdDev returns the sample standard deviation (divisor N-1) of the finite
// values in xs. A single finite value returns 0 (no variance to estimate).
func StdDev[F Float](xs []F) (F, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return 0, driftprofile.EmptyArray("stddev: no finite values")
	}
	if len(fin) == 1 {
		return 0, nil
	}
	_, variance := stat.MeanVariance(toFloat64(fin), nil)
	return F(math.Sqrt(variance)), nil
}

// Min returns the minimum finite value.
func Min[F Float](xs []F) (F, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return 0, driftprofile.EmptyArray("min: no finite values")
	}
	m := fin[0]
	for _, v := range fin[1:] {
		if v < m {
			m = v
		}
	}
	return m, nil
}

// Max returns the maximum finite value.
func Max[F Float](xs []F) (F, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return 0, driftprofile.EmptyArray("max: no finite values")
	}
	m := fin[0]
	for _, v := range fin[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

// Quantiles computes {0.25, 0.50, 0.75, 0.99} via linear sort +
// nearest-index interpolation. Hand-rolled rather than delegated to
// gonum/stat.Quantile: the nearest-index tie-break must stay bit-for-bit
// reproducible across runs, and gonum's CumulantKind options do not expose
// this precise rule.
func Quantiles[F Float](xs []F) (map[float64]F, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return nil, driftprofile.EmptyArray("quantiles: no finite values")
	}
	sorted := make([]F, len(fin))
	copy(sorted, fin)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	out := make(map[float64]F, len(QuantileFractions))
	for _, q := range QuantileFractions {
		idx := int(math.Round(q * float64(n-1)))
		if idx < 0 {
			idx = 0
		}
		if idx > n-1 {
			idx = n - 1
		}
		out[q] = sorted[idx]
	}
	return out, nil
}

// Skewness returns the sample skewness g1 used by the Doane bin-count rule.
func Skewness[F Float](xs []F) (float64, error) {
	fin := filterFinite(xs)
	if len(fin) == 0 {
		return 0, driftprofile.EmptyArray("skewness: no finite values")
	}
	data := toFloat64(fin)
	mean, std := stat.MeanStdDev(data, nil)
	if std == 0 {
		return 0, nil
	}
	n := float64(len(data))
	var sum float64
	for _, v := range data {
		d := (v - mean) / std
		sum += d * d * d
	}
	return sum / n, nil
}

// SigmaG1 is the standard error of the sample skewness, sqrt(6(N-2)/((N+1)(N+3))),
// used by the Doane bin-count rule.
func SigmaG1(n int) float64 {
	nf := float64(n)
	return math.Sqrt(6 * (nf - 2) / ((nf + 1) * (nf + 3)))
}

// Histogram bins xs into binSize half-open buckets [lower, upper), except
// the last bucket which also contains values strictly greater than its
// lower edge (i.e. the last bucket is closed on the right at +Inf in
// effect). Bin width = (max-min)/binSize.
func Histogram[F Float](xs []F, binSize int) (edges []F, counts []int, err error) {
	if binSize < 1 {
		return nil, nil, driftprofile.BinningError("histogram: binSize must be >= 1")
	}
	lo, err := Min(xs)
	if err != nil {
		return nil, nil, err
	}
	hi, err := Max(xs)
	if err != nil {
		return nil, nil, err
	}
	width := (hi - lo) / F(binSize)
	edges = make([]F, binSize+1)
	for i := 0; i <= binSize; i++ {
		edges[i] = lo + width*F(i)
	}
	counts = make([]int, binSize)
	for _, v := range filterFinite(xs) {
		if width == 0 {
			counts[0]++
			continue
		}
		idx := int((v - lo) / width)
		if idx >= binSize {
			idx = binSize - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	return edges, counts, nil
}

// DistinctCount returns the set cardinality of the column's stringified
// values. Informational only; no drift computation depends on it.
func DistinctCount[F Float](xs []F) int {
	seen := make(map[string]struct{}, len(xs))
	for _, v := range xs {
		seen[strconv.FormatFloat(float64(v), 'g', -1, 64)] = struct{}{}
	}
	return len(seen)
}

// CountMissingPerc and CountInfinityPerc report the fraction of xs that is
// NaN / +-Inf respectively, as descriptive data-quality diagnostics.
func CountMissingPerc[F Float](xs []F) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := 0
	for _, v := range xs {
		if math.IsNaN(float64(v)) {
			n++
		}
	}
	return float64(n) / float64(len(xs))
}

func CountInfinityPerc[F Float](xs []F) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := 0
	for _, v := range xs {
		if math.IsInf(float64(v), 0) {
			n++
		}
	}
	return float64(n) / float64(len(xs))
}

// Summarize computes the full Summary for one column by calling each
// primitive in turn; each one filters the column to its finite subset.
func Summarize[F Float](xs []F) (Summary[F], error) {
	mean, err := Mean(xs)
	if err != nil {
		return Summary[F]{}, err
	}
	sd, err := StdDev(xs)
	if err != nil {
		return Summary[F]{}, err
	}
	mn, err := Min(xs)
	if err != nil {
		return Summary[F]{}, err
	}
	mx, err := Max(xs)
	if err != nil {
		return Summary[F]{}, err
	}
	qs, err := Quantiles(xs)
	if err != nil {
		return Summary[F]{}, err
	}
	return Summary[F]{
		Mean:              mean,
		StdDev:            sd,
		Min:               mn,
		Max:               mx,
		Quantiles:         qs,
		Distinct:          DistinctCount(xs),
		CountMissingPerc:  CountMissingPerc(xs),
		CountInfinityPerc: CountInfinityPerc(xs),
	}, nil
}

// ColumnMeanStdDev is the per-chunk (mean, stddev) pair used by the SPC
// profile builder to reduce a contiguous row chunk to two numbers per
// feature.
func ColumnMeanStdDev[F Float](xs []F) (mean, sd F, err error) {
	mean, err = Mean(xs)
	if err != nil {
		return 0, 0, err
	}
	sd, err = StdDev(xs)
	if err != nil {
		return 0, 0, err
	}
	return mean, sd, nil
}
