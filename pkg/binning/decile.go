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

import "driftwatch/pkg/driftprofile"

// ComputeDecileEdges implements the legacy quantile-based Decile strategy:
// sort ascending, take the values at indices floor(i*(N-1)/10) for i in
// 1..9. Requires N >= 10, and fails with Compute (not InvalidBinCount)
// below that.
func ComputeDecileEdges[F Float](xs []F) ([]F, error) {
	fin := finiteOnly(xs)
	n := len(fin)
	if n < 10 {
		return nil, driftprofile.Compute("decile binning requires at least 10 finite values")
	}
	sorted := sortedCopy(fin)
	edges := make([]F, 9)
	for i := 1; i <= 9; i++ {
		idx := (i * (n - 1)) / 10
		edges[i-1] = sorted[idx]
	}
	return edges, nil
}
