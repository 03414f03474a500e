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

package driftprofile

import (
	"encoding/json"
	"testing"
	"time"
)

// TestDriftProfile_RoundTrip_Spc verifies an SPC profile serialises to JSON
// and back with matching structure (features, limits, config).
func TestDriftProfile_RoundTrip_Spc(t *testing.T) {
	p := DriftProfile{
		Config: Config{
			ProfileArgs: ProfileArgs{Name: "n", Space: "s", Version: "0.1.0", Schedule: "0 * * * * *", DriftType: DriftTypeSpc},
			Spc:         &SpcConfig{SampleSize: 25, Rule: DefaultSpcAlertRule()},
		},
		SpcFeatures: map[string]SpcFeatureDriftProfile{
			"f1": {ID: "f1", Center: 1, OneUCL: 2, OneLCL: 0, TwoUCL: 3, TwoLCL: -1, ThreeUCL: 4, ThreeLCL: -2, Timestamp: time.Now().UTC()},
		},
		ScouterVersion: "1.0.0",
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got DriftProfile
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Config.DriftType != DriftTypeSpc {
		t.Fatalf("expected drift_type Spc, got %q", got.Config.DriftType)
	}
	f, ok := got.SpcFeatures["f1"]
	if !ok {
		t.Fatalf("expected feature f1 to round-trip")
	}
	if f.Center != 1 || f.OneUCL != 2 || f.ThreeLCL != -2 {
		t.Fatalf("feature limits did not round-trip: %+v", f)
	}
	if got.Config.Spc == nil || got.Config.Spc.SampleSize != 25 {
		t.Fatalf("expected sample_size to round-trip, got %+v", got.Config.Spc)
	}
	if got.Config.Spc.Rule.Rule != DefaultSpcAlertRule().Rule {
		t.Fatalf("expected alert rule to round-trip, got %+v", got.Config.Spc.Rule)
	}
}

// TestDriftProfile_UnmarshalJSON_RejectsUnknownDriftType: an unrecognized
// drift_type must be an error, not a silently empty profile.
func TestDriftProfile_UnmarshalJSON_RejectsUnknownDriftType(t *testing.T) {
	raw := []byte(`{"config":{"name":"n","space":"s","version":"v","drift_type":"Bogus"},"scouter_version":"1.0.0"}`)
	var p DriftProfile
	if err := json.Unmarshal(raw, &p); err == nil {
		t.Fatalf("expected an error for unknown drift_type")
	}
}

// TestValidateCron checks the syntactic six-field gate.
func TestValidateCron(t *testing.T) {
	cases := map[string]bool{
		"0 * * * * *":  true,
		"* * * * *":    false,
		"":              false,
		"0 0 1 1 * 2026": true,
	}
	for in, want := range cases {
		if got := ValidateCron(in); got != want {
			t.Fatalf("ValidateCron(%q) = %v, want %v", in, got, want)
		}
	}
}
