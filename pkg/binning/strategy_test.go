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

package binning

import "testing"

func column(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// TestNumBins_SquareRoot spot-checks ceil(sqrt(N)) across sizes on either
// side of perfect squares.
func TestNumBins_SquareRoot(t *testing.T) {
	cases := map[int]int{9: 3, 100: 10, 64: 8, 10: 4, 50: 8}
	for n, want := range cases {
		got, err := NumBins(EqualWidthBinning{Method: SquareRoot}, column(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if got != want {
			t.Fatalf("SquareRoot(%d) = %d, want %d", n, got, want)
		}
	}
}

// TestNumBins_Sturges spot-checks ceil(log2(N))+1 at powers of two.
func TestNumBins_Sturges(t *testing.T) {
	cases := map[int]int{16: 5, 32: 6, 128: 8}
	for n, want := range cases {
		got, err := NumBins(EqualWidthBinning{Method: Sturges}, column(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if got != want {
			t.Fatalf("Sturges(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestNumBins_Manual(t *testing.T) {
	got, err := NumBins(EqualWidthBinning{Method: Manual, ManualK: 7}, column(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("Manual(7) = %d, want 7", got)
	}
}

func TestComputeEdges_InteriorCountMatchesKMinus1(t *testing.T) {
	edges, err := ComputeEdges(EqualWidthBinning{Method: Manual, ManualK: 5}, column(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 4 {
		t.Fatalf("expected 4 interior edges for k=5, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			t.Fatalf("edges must be strictly increasing: %v", edges)
		}
	}
}

func TestComputeEdges_InvalidBinCount(t *testing.T) {
	_, err := ComputeEdges(EqualWidthBinning{Method: Manual, ManualK: 1}, column(100))
	if err == nil {
		t.Fatalf("expected InvalidBinCount error for k=1")
	}
}

func TestComputeDecileEdges_RequiresAtLeastTen(t *testing.T) {
	_, err := ComputeDecileEdges(column(9))
	if err == nil {
		t.Fatalf("expected Compute error for N < 10")
	}
}

func TestComputeDecileEdges_NineInteriorEdges(t *testing.T) {
	edges, err := ComputeDecileEdges(column(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 9 {
		t.Fatalf("expected 9 decile edges, got %d", len(edges))
	}
}
