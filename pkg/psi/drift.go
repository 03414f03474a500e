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
	"math"
	"runtime"
	"sync"

	"driftwatch/pkg/driftprofile"
)

// DriftMap is the per-feature PSI divergence output of one evaluation.
type DriftMap struct {
	Name     string
	Space    string
	Version  string
	Features map[string]float64
}

// ComputeDrift recomputes observed proportions for each feature column
// against profile and returns the PSI divergence per feature.
func ComputeDrift[F Float](columns map[string][]F, profile *driftprofile.DriftProfile) (*DriftMap, error) {
	available := make([]string, 0, len(profile.PsiFeatures))
	for name := range profile.PsiFeatures {
		available = append(available, name)
	}
	for name := range columns {
		if _, ok := profile.PsiFeatures[name]; !ok {
			return nil, driftprofile.FeatureMismatch(name, available)
		}
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}

	results := make([]float64, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers > len(names) {
		workers = len(names)
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				name := names[i]
				fp := profile.PsiFeatures[name]
				q := observedProportions(fp, columns[name])
				results[i] = divergence(fp.Bins, q)
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := &DriftMap{
		Name:     profile.Config.Name,
		Space:    profile.Config.Space,
		Version:  profile.Config.Version,
		Features: make(map[string]float64, len(names)),
	}
	for i, name := range names {
		out.Features[name] = results[i]
	}
	return out, nil
}

// observedProportions recomputes q_i per bin for the new data.
func observedProportions[F Float](fp driftprofile.PsiFeatureDriftProfile, xs []F) map[int]float64 {
	finite := dropNonFinite(xs)
	n := len(finite)
	q := make(map[int]float64, len(fp.Bins))

	switch fp.BinType {
	case driftprofile.BinTypeBinary:
		var ones int
		for _, v := range finite {
			if v == 1 {
				ones++
			}
		}
		if n == 0 {
			return q
		}
		mean := float64(ones) / float64(n)
		q[0] = 1 - mean
		q[1] = mean
	case driftprofile.BinTypeCategory:
		counts := make(map[int]int)
		for _, v := range finite {
			counts[int(v)]++
		}
		for _, bin := range fp.Bins {
			q[bin.ID] = float64(counts[bin.ID]) / float64(max(n, 1))
		}
	default: // Numeric
		counts := make(map[int]int, len(fp.Bins))
		for _, v := range finite {
			fv := float64(v)
			for _, bin := range fp.Bins {
				lower := negInfIfNil(bin.Lower)
				upper := posInfIfNil(bin.Upper)
				if inNumericBin(fv, lower, upper, bin.ID == fp.Bins[0].ID, bin.ID == fp.Bins[len(fp.Bins)-1].ID) {
					counts[bin.ID]++
					break
				}
			}
		}
		for _, bin := range fp.Bins {
			if n == 0 {
				q[bin.ID] = 0
				continue
			}
			q[bin.ID] = float64(counts[bin.ID]) / float64(n)
		}
	}
	return q
}

func inNumericBin(v, lower, upper float64, isFirst, isLast bool) bool {
	switch {
	case isFirst:
		return v <= upper
	case isLast:
		return v > lower
	default:
		return v > lower && v <= upper
	}
}

func negInfIfNil(p *float64) float64 {
	if p == nil {
		return math.Inf(-1)
	}
	return *p
}

func posInfIfNil(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}

// divergence computes Sigma_i ((p_i+eps) - (q_i+eps)) * ln((p_i+eps)/(q_i+eps)).
func divergence(bins []driftprofile.Bin, q map[int]float64) float64 {
	var psi float64
	for _, bin := range bins {
		p := bin.Proportion + Epsilon
		qi := q[bin.ID] + Epsilon
		psi += (p - qi) * math.Log(p/qi)
	}
	return psi
}

// Alert filters a DriftMap down to the features whose PSI exceeds
// threshold, producing the dispatch payload handed to alert back-ends.
func Alert(dm *DriftMap, threshold float64) driftprofile.PsiFeatureAlerts {
	out := make(map[string]float64)
	for name, v := range dm.Features {
		if v > threshold {
			out[name] = v
		}
	}
	return driftprofile.PsiFeatureAlerts{Features: out, Threshold: threshold}
}
