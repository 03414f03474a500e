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

package queue

import (
	"testing"

	"driftwatch/pkg/driftprofile"
)

func numericPsiProfile() *driftprofile.DriftProfile {
	edge := 5.0
	return &driftprofile.DriftProfile{
		PsiFeatures: map[string]driftprofile.PsiFeatureDriftProfile{
			"score": {
				ID:      "score",
				BinType: driftprofile.BinTypeNumeric,
				Bins: []driftprofile.Bin{
					{ID: 1, Lower: nil, Upper: &edge},
					{ID: 2, Lower: &edge, Upper: nil},
				},
			},
		},
	}
}

func TestPsiQueue_BucketsNumericValuesIntoBins(t *testing.T) {
	q := NewPsiQueue("space", "model", "1", numericPsiProfile(), nil, []string{"score"})
	if err := q.Insert("score", []float64{1, 2, 6, 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := q.Flush()
	if len(records.Psi) != 2 {
		t.Fatalf("expected two bin records, got %v", records.Psi)
	}
}

func TestPsiQueue_BinaryInvalidValue(t *testing.T) {
	profile := &driftprofile.DriftProfile{
		PsiFeatures: map[string]driftprofile.PsiFeatureDriftProfile{
			"flag": {ID: "flag", BinType: driftprofile.BinTypeBinary, Bins: []driftprofile.Bin{{ID: 0}, {ID: 1}}},
		},
	}
	q := NewPsiQueue("space", "model", "1", profile, nil, []string{"flag"})
	if err := q.Insert("flag", []float64{0, 1, 2}); err == nil {
		t.Fatalf("expected InvalidValue error for flag=2")
	}
}

func TestPsiQueue_SkipsFeaturesNotMonitored(t *testing.T) {
	q := NewPsiQueue("space", "model", "1", numericPsiProfile(), nil, []string{"other"})
	if err := q.Insert("score", []float64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsEmpty() {
		t.Fatalf("unmonitored feature insert should be a no-op")
	}
}

func TestPsiQueue_FlushResetsCounters(t *testing.T) {
	q := NewPsiQueue("space", "model", "1", numericPsiProfile(), nil, []string{"score"})
	_ = q.Insert("score", []float64{1, 2})
	q.Flush()
	if !q.IsEmpty() {
		t.Fatalf("expected queue to be empty after flush")
	}
}
