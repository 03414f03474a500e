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

package psi

import (
	"testing"

	"driftwatch/pkg/driftprofile"
)

// TestComputeDrift_IdentityIsNearZero: evaluating a profile against the
// very data it was built from yields PSI <= 1e-8.
func TestComputeDrift_IdentityIsNearZero(t *testing.T) {
	x := uniform(0, 10, 500)
	cols := map[string][]float64{"score": x}
	profile, err := BuildProfile(cols, defaultBuildConfig(), driftprofile.ProfileArgs{DriftType: driftprofile.DriftTypePsi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dm, err := ComputeDrift(cols, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dm.Features["score"] > 1e-8 {
		t.Fatalf("identity PSI should be <= 1e-8, got %v", dm.Features["score"])
	}
}

// TestComputeDrift_ShiftIsDetected: a uniform[0,10] reference against a
// shifted uniform[5,15] observation yields PSI > 0.1, and the divergence
// grows monotonically with the shift.
func TestComputeDrift_ShiftIsDetected(t *testing.T) {
	ref := map[string][]float64{"score": uniform(0, 10, 500)}
	profile, err := BuildProfile(ref, defaultBuildConfig(), driftprofile.ProfileArgs{DriftType: driftprofile.DriftTypePsi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shifted := map[string][]float64{"score": uniform(5, 15, 500)}
	dm, err := ComputeDrift(shifted, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dm.Features["score"] <= 0.1 {
		t.Fatalf("expected shifted PSI > 0.1, got %v", dm.Features["score"])
	}

	smallShift := map[string][]float64{"score": uniform(1, 11, 500)}
	dmSmall, err := ComputeDrift(smallShift, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dmSmall.Features["score"] >= dm.Features["score"] {
		t.Fatalf("PSI should grow with shift magnitude: small=%v large=%v", dmSmall.Features["score"], dm.Features["score"])
	}
}

func TestComputeDrift_UnknownFeatureIsFeatureMismatch(t *testing.T) {
	ref := map[string][]float64{"score": uniform(0, 10, 50)}
	profile, err := BuildProfile(ref, defaultBuildConfig(), driftprofile.ProfileArgs{DriftType: driftprofile.DriftTypePsi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = ComputeDrift(map[string][]float64{"nope": {1, 2, 3}}, profile)
	if err == nil {
		t.Fatalf("expected FeatureMismatch error for unknown feature")
	}
}

func TestAlert_FiltersByThreshold(t *testing.T) {
	dm := &DriftMap{Features: map[string]float64{"a": 0.05, "b": 0.5}}
	alerts := Alert(dm, driftprofile.DefaultPsiThreshold)
	if alerts.Threshold != driftprofile.DefaultPsiThreshold {
		t.Fatalf("expected threshold to be carried through, got %v", alerts.Threshold)
	}
	if _, ok := alerts.Features["b"]; !ok {
		t.Fatalf("expected feature b above threshold to be alerted")
	}
	if _, ok := alerts.Features["a"]; ok {
		t.Fatalf("feature a below threshold should not be alerted")
	}
}
