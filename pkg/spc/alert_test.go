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
	"testing"

	"driftwatch/pkg/driftprofile"
)

func defaultRule() driftprofile.SpcAlertRule {
	return driftprofile.DefaultSpcAlertRule()
}

// TestCheckRule_ConsecutivePositiveDriftAlert: eight consecutive zone-1
// codes under the default rule fire exactly one Consecutive alert.
func TestCheckRule_ConsecutivePositiveDriftAlert(t *testing.T) {
	drift := []int{0, 1, 1, 1, 1, 1, 1, 1, 1}
	alerts, err := CheckRule(drift, defaultRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %v", alerts)
	}
	if alerts[0].Zone != driftprofile.Zone1 || alerts[0].Kind != KindConsecutive {
		t.Fatalf("expected {Zone1, Consecutive}, got %+v", alerts[0])
	}
}

// TestCheckRule_AlternatingZone1: sixteen sign flips of magnitude 1 under
// the default rule fire an Alternating alert.
func TestCheckRule_AlternatingZone1(t *testing.T) {
	drift := []int{0, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	alerts, err := CheckRule(drift, defaultRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, a := range alerts {
		if a.Zone == driftprofile.Zone1 && a.Kind == KindAlternating {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a {Zone1, Alternating} alert, got %v", alerts)
	}
}

// TestCheckRule_OutOfBounds: any +-4 code fires immediately, regardless of
// the configured pair lengths.
func TestCheckRule_OutOfBounds(t *testing.T) {
	drift := []int{0, 0, 4}
	rule := driftprofile.SpcAlertRule{Rule: "100 100 100 100 100 100 100 100", ZonesToMonitor: []driftprofile.Zone{driftprofile.Zone1, driftprofile.Zone2, driftprofile.Zone3, driftprofile.Zone4}}
	alerts, err := CheckRule(drift, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, a := range alerts {
		if a.Zone == driftprofile.Zone4 && a.Kind == KindOutOfBounds {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected {Zone4, OutOfBounds} regardless of pair lengths, got %v", alerts)
	}
}

func TestCheckRule_AllGoodWhenNoAlerts(t *testing.T) {
	drift := []int{0, 0, 0, 1, -1, 0}
	alerts, err := CheckRule(drift, defaultRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Kind != KindAllGood {
		t.Fatalf("expected a single AllGood alert, got %v", alerts)
	}
}

func TestParseRule_RejectsWrongFieldCount(t *testing.T) {
	if _, err := ParseRule("1 2 3"); err == nil {
		t.Fatalf("expected ParseError for malformed rule string")
	}
}

func TestCheckRule_Trend(t *testing.T) {
	drift := []int{0, -3, -2, -1, 0, 1, 2, 3}
	alerts, err := CheckRule(drift, defaultRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, a := range alerts {
		if a.Kind == KindTrend && a.Zone == driftprofile.ZoneNotApplicable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Trend alert, got %v", alerts)
	}
}

func TestGenerateAlerts_SetsHasAlerts(t *testing.T) {
	results := map[string]DriftResult{
		"calm": {Codes: []int{0, 0, 1, 0}},
		"wild": {Codes: []int{0, 4}},
	}
	alerts, err := GenerateAlerts(results, defaultRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alerts.HasAlerts {
		t.Fatalf("expected HasAlerts for an out-of-bounds feature")
	}
	if len(alerts.Features["calm"]) != 1 || alerts.Features["calm"][0].Kind != string(KindAllGood) {
		t.Fatalf("expected the quiet feature to report AllGood, got %v", alerts.Features["calm"])
	}
	found := false
	for _, a := range alerts.Features["wild"] {
		if a.Kind == string(KindOutOfBounds) && a.Zone == driftprofile.Zone4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected {Zone4, OutOfBounds} for the wild feature, got %v", alerts.Features["wild"])
	}
}

func TestClassify_BoundaryExactness(t *testing.T) {
	p := driftprofile.SpcFeatureDriftProfile{Center: 0, OneUCL: 1, OneLCL: -1, TwoUCL: 2, TwoLCL: -2, ThreeUCL: 3, ThreeLCL: -3}
	if got := Classify(3, p); got != 3 {
		t.Fatalf("exactly three_ucl should classify as +3, got %d", got)
	}
	if got := Classify(-3, p); got != -3 {
		t.Fatalf("exactly three_lcl should classify as -3, got %d", got)
	}
	if got := Classify(3.0001, p); got != 4 {
		t.Fatalf("above three_ucl should classify as +4, got %d", got)
	}
}
