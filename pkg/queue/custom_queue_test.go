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
	"math"
	"testing"
)

func TestCustomQueue_FlushEmitsAverage(t *testing.T) {
	q := NewCustomQueue("space", "model", "1")
	q.Insert("accuracy", 0.9)
	q.Insert("accuracy", 0.8)
	records := q.Flush()
	if len(records.Custom) != 1 {
		t.Fatalf("expected one record, got %v", records.Custom)
	}
	if math.Abs(records.Custom[0].Value-0.85) > 1e-12 {
		t.Fatalf("expected average 0.85, got %v", records.Custom[0].Value)
	}
}

func TestCustomQueue_FlushThenEmpty(t *testing.T) {
	q := NewCustomQueue("space", "model", "1")
	q.Insert("accuracy", 0.9)
	q.Flush()
	if !q.IsEmpty() {
		t.Fatalf("expected queue to be empty after flush")
	}
	empty := q.Flush()
	if !empty.IsEmpty() {
		t.Fatalf("flushing an empty queue should emit nothing, got %v", empty)
	}
}
