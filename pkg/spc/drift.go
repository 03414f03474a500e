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

package spc

import "driftwatch/pkg/driftprofile"

// Classify assigns the drift code in {-4..+4} for sample value v against a
// feature's control limits. The outer side of each zone boundary is
// inclusive, the inner side strict; the exact tie-break matters for
// repeatability. The v == center branch is effectively unreachable on real
// chunk means but kept so zone 0 stays representable.
func Classify(v float64, p driftprofile.SpcFeatureDriftProfile) int {
	switch {
	case v > p.ThreeUCL:
		return 4
	case v >= p.TwoUCL && v <= p.ThreeUCL:
		return 3
	case v >= p.OneUCL && v < p.TwoUCL:
		return 2
	case v > p.Center && v < p.OneUCL:
		return 1
	case v == p.Center:
		return 0
	case v > p.OneLCL && v < p.Center:
		return -1
	case v > p.TwoLCL && v <= p.OneLCL:
		return -2
	case v >= p.ThreeLCL && v <= p.TwoLCL:
		return -3
	case v < p.ThreeLCL:
		return -4
	default:
		return 0
	}
}

// DriftResult is the per-feature output of the drift engine: the drift
// codes and the chunk-mean samples they were computed from.
type DriftResult struct {
	Codes   []int
	Samples []float64
}

// ComputeDrift classifies a row-major 2-D array (rows x len(features))
// against profile, after first sampling it into chunk means of size
// profile.Config.Spc.SampleSize. Features not present in the profile cause
// a FeatureMismatch error naming the available features.
func ComputeDrift[F Float](features []string, rows [][]F, profile *driftprofile.DriftProfile) (map[string]DriftResult, error) {
	available := make([]string, 0, len(profile.SpcFeatures))
	for name := range profile.SpcFeatures {
		available = append(available, name)
	}
	for _, f := range features {
		if _, ok := profile.SpcFeatures[f]; !ok {
			return nil, driftprofile.FeatureMismatch(f, available)
		}
	}

	sampleSize := 1
	if profile.Config.Spc != nil && profile.Config.Spc.SampleSize > 0 {
		sampleSize = profile.Config.Spc.SampleSize
	}

	n := len(rows)
	out := make(map[string]DriftResult, len(features))
	for col, name := range features {
		fp := profile.SpcFeatures[name]
		var samples []float64
		for start := 0; start < n; start += sampleSize {
			end := start + sampleSize
			if end > n {
				end = n
			}
			var sum F
			for _, r := range rows[start:end] {
				sum += r[col]
			}
			mean := float64(sum) / float64(end-start)
			samples = append(samples, mean)
		}
		codes := make([]int, len(samples))
		for i, v := range samples {
			codes[i] = Classify(v, fp)
		}
		out[name] = DriftResult{Codes: codes, Samples: samples}
	}
	return out, nil
}
