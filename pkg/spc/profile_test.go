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

import (
	"math"
	"testing"

	"driftwatch/pkg/driftprofile"
)

func TestPickSampleSize(t *testing.T) {
	cases := map[int]int{
		10:         25,
		999:        25,
		1_000:      100,
		9_999:      100,
		10_000:     1_000,
		99_999:     1_000,
		100_000:    10_000,
		999_999:    10_000,
		1_000_000:  100_000,
		10_000_000: 100_000,
	}
	for rows, want := range cases {
		if got := PickSampleSize(rows); got != want {
			t.Fatalf("PickSampleSize(%d) = %d, want %d", rows, got, want)
		}
	}
}

// TestBuildProfile_ControlLimitsAreMonotoneAndSymmetric: limits must be
// strictly monotone and the sigma zones symmetric around the center.
func TestBuildProfile_ControlLimitsAreMonotoneAndSymmetric(t *testing.T) {
	rows := make([][]float64, 500)
	for i := range rows {
		// A small deterministic oscillation around 10 gives every chunk
		// nonzero variance without needing a random source.
		rows[i] = []float64{10 + float64(i%7) - 3}
	}
	profile, err := BuildProfile([]string{"x"}, rows, driftprofile.ProfileArgs{}, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fp := profile.SpcFeatures["x"]

	if !(fp.ThreeLCL < fp.TwoLCL && fp.TwoLCL < fp.OneLCL && fp.OneLCL < fp.Center &&
		fp.Center < fp.OneUCL && fp.OneUCL < fp.TwoUCL && fp.TwoUCL < fp.ThreeUCL) {
		t.Fatalf("control limits are not strictly monotone: %+v", fp)
	}

	oneGap := fp.OneUCL - fp.Center
	if math.Abs((fp.Center-fp.OneLCL)-oneGap) > 1e-9 {
		t.Fatalf("one-sigma zone is not symmetric around center: %+v", fp)
	}
	if math.Abs((fp.ThreeUCL-fp.Center)-3*oneGap) > 1e-9 {
		t.Fatalf("three-sigma gap should be 3x the one-sigma gap: %+v", fp)
	}
}

func TestComputeC4_MatchesFormula(t *testing.T) {
	got := ComputeC4(25)
	want := (4*25.0 - 4) / (4*25.0 - 3)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("ComputeC4(25) = %v, want %v", got, want)
	}
}

func TestBuildProfile_EmptyRowsFails(t *testing.T) {
	_, err := BuildProfile([]string{"x"}, [][]float64{}, driftprofile.ProfileArgs{}, 25)
	if err == nil {
		t.Fatalf("expected an error for zero rows")
	}
}
