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

// Package binning chooses bin edges for a 1-D numeric column: the eight
// classical equal-width rules (Manual, SquareRoot, Sturges, Rice, Doane,
// Scott, TerrellScott, FreedmanDiaconis) plus the legacy quantile-based
// Decile strategy. Every rule is a pure function of the column to a bin
// count; EqualWidthBinning then turns that count into interior edges.
package binning

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"driftwatch/pkg/driftmetrics"
	"driftwatch/pkg/driftprofile"
)

// Float is the same numeric-dispatch constraint driftmetrics uses.
type Float interface {
	constraints.Float
}

// Method names one of the eight equal-width bin-count rules.
type Method string

const (
	Manual           Method = "Manual"
	SquareRoot       Method = "SquareRoot"
	Sturges          Method = "Sturges"
	Rice             Method = "Rice"
	Doane            Method = "Doane"
	Scott            Method = "Scott"
	TerrellScott     Method = "TerrellScott"
	FreedmanDiaconis Method = "FreedmanDiaconis"
)

// DefaultMethod is the rule used when no strategy is configured; Doane
// adapts the count to skewed columns better than the fixed-formula rules.
const DefaultMethod = Doane

// EqualWidthBinning is a pure-function strategy: column -> number_of_bins,
// then column -> interior edges. ManualK is only consulted when Method ==
// Manual.
type EqualWidthBinning struct {
	Method  Method
	ManualK int
}

// NumBins computes the bin count k for the configured rule.
func NumBins[F Float](b EqualWidthBinning, xs []F) (int, error) {
	fin := finiteOnly(xs)
	n := len(fin)
	if n == 0 {
		return 0, driftprofile.EmptyArray("binning: no finite values")
	}
	nf := float64(n)

	switch b.Method {
	case Manual:
		return b.ManualK, nil
	case SquareRoot:
		return int(math.Ceil(math.Sqrt(nf))), nil
	case Sturges:
		return int(math.Ceil(math.Log2(nf))) + 1, nil
	case Rice:
		return int(math.Ceil(2 * math.Cbrt(nf))), nil
	case Doane:
		if n < 3 {
			return int(math.Ceil(math.Log2(nf))) + 1, nil
		}
		g1, err := driftmetrics.Skewness(fin)
		if err != nil {
			return 0, err
		}
		sigmaG1 := driftmetrics.SigmaG1(n)
		if sigmaG1 == 0 {
			return 0, driftprofile.BinningError("doane: sigma_g1 is zero")
		}
		k := 1 + math.Log2(nf) + math.Log2(1+math.Abs(g1)/sigmaG1)
		return int(math.Round(k)), nil
	case Scott:
		_, sd, err := meanStdDev(fin)
		if err != nil {
			return 0, err
		}
		if sd == 0 {
			return 0, driftprofile.BinningError("scott: stddev is zero (constant column)")
		}
		lo, hi := minMax(fin)
		rng := float64(hi - lo)
		width := 3.49 * sd * math.Pow(nf, -1.0/3.0)
		if width == 0 {
			return 0, driftprofile.BinningError("scott: zero bin width")
		}
		return int(math.Ceil(rng / width)), nil
	case TerrellScott:
		return int(math.Round(math.Cbrt(2 * nf))), nil
	case FreedmanDiaconis:
		iqr, err := interquartileRange(fin)
		if err != nil {
			return 0, err
		}
		if iqr == 0 {
			return 0, driftprofile.BinningError("freedman-diaconis: IQR is zero")
		}
		lo, hi := minMax(fin)
		rng := float64(hi - lo)
		width := 2 * iqr * math.Pow(nf, -1.0/3.0)
		if width == 0 {
			return 0, driftprofile.BinningError("freedman-diaconis: zero bin width")
		}
		return int(math.Ceil(rng / width)), nil
	default:
		return 0, driftprofile.BinningError("binning: unknown method " + string(b.Method))
	}
}

func finiteOnly[F Float](xs []F) []F {
	out := make([]F, 0, len(xs))
	for _, v := range xs {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			out = append(out, v)
		}
	}
	return out
}

func meanStdDev[F Float](xs []F) (mean, sd float64, err error) {
	m, err := driftmetrics.Mean(xs)
	if err != nil {
		return 0, 0, err
	}
	s, err := driftmetrics.StdDev(xs)
	if err != nil {
		return 0, 0, err
	}
	return float64(m), float64(s), nil
}

func minMax[F Float](xs []F) (lo, hi F) {
	lo, hi = xs[0], xs[0]
	for _, v := range xs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func interquartileRange[F Float](xs []F) (float64, error) {
	qs, err := driftmetrics.Quantiles(xs)
	if err != nil {
		return 0, err
	}
	return float64(qs[0.75] - qs[0.25]), nil
}

// ComputeEdges produces k-1 interior edges uniformly between min and max.
// The caller (pkg/psi) prepends -Inf and appends +Inf to obtain k bins.
// Fails with InvalidBinCount when k < 2.
func ComputeEdges[F Float](b EqualWidthBinning, xs []F) ([]F, error) {
	fin := finiteOnly(xs)
	if len(fin) == 0 {
		return nil, driftprofile.EmptyArray("binning: no finite values")
	}
	k, err := NumBins(b, xs)
	if err != nil {
		return nil, err
	}
	if k < 2 {
		return nil, driftprofile.InvalidBinCount(k)
	}
	lo, hi := minMax(fin)
	rng := hi - lo
	width := rng / F(k)
	edges := make([]F, k-1)
	for i := 1; i < k; i++ {
		edges[i-1] = lo + width*F(i)
	}
	return edges, nil
}

// sortedCopy returns a sorted copy of xs, used by ComputeDecileEdges in
// decile.go.
func sortedCopy[F Float](xs []F) []F {
	out := make([]F, len(xs))
	copy(out, xs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
