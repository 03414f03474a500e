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
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"driftwatch/pkg/driftprofile"
	"driftwatch/pkg/featuremap"
)

type psiAccumulator struct {
	mu     sync.Mutex
	counts map[int]int
}

// PsiQueue accumulates per-bin observation counts for each monitored
// feature.
type PsiQueue struct {
	space, name, version string
	profile              *driftprofile.DriftProfile
	fm                   *featuremap.FeatureMap
	monitor              map[string]bool
	features             sync.Map // feature name -> *psiAccumulator
}

// NewPsiQueue constructs a queue against profile, restricting inserts to
// featuresToMonitor. fm clamps out-of-range categorical codes to the
// feature's reserved "missing" bin; it may be nil if no feature is
// categorical.
func NewPsiQueue(space, name, version string, profile *driftprofile.DriftProfile, fm *featuremap.FeatureMap, featuresToMonitor []string) *PsiQueue {
	monitor := make(map[string]bool, len(featuresToMonitor))
	for _, f := range featuresToMonitor {
		monitor[f] = true
	}
	return &PsiQueue{space: space, name: name, version: version, profile: profile, fm: fm, monitor: monitor}
}

func (q *PsiQueue) accumulator(feature string) *psiAccumulator {
	if v, ok := q.features.Load(feature); ok {
		return v.(*psiAccumulator)
	}
	fresh := &psiAccumulator{counts: make(map[int]int)}
	actual, _ := q.features.LoadOrStore(feature, fresh)
	return actual.(*psiAccumulator)
}

// Insert buckets each raw value for feature into its profile bin and
// increments that bin's counter. Values for features outside
// features_to_monitor are skipped. Non-finite values on numeric features
// are skipped and logged; out-of-range binary values fail with InvalidValue.
func (q *PsiQueue) Insert(feature string, values []float64) error {
	if !q.monitor[feature] {
		return nil
	}
	fp, ok := q.profile.PsiFeatures[feature]
	if !ok {
		log.Info().Str("feature", feature).Msg("psi queue: feature missing from profile, skipping")
		return nil
	}

	acc := q.accumulator(feature)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	for _, v := range values {
		switch fp.BinType {
		case driftprofile.BinTypeBinary:
			switch v {
			case 0:
				acc.counts[0]++
			case 1:
				acc.counts[1]++
			default:
				return driftprofile.InvalidValue(feature, v)
			}
		case driftprofile.BinTypeCategory:
			// Categorical values are already feature-map codes by the time
			// they reach Insert (the string->code lookup happens once,
			// upstream, when raw observations are read). When fm knows the
			// feature, an out-of-range code is counted under fm's reserved
			// "missing" code; otherwise every code is counted under itself.
			code := int(v)
			if q.fm != nil && q.fm.Has(feature) {
				if max := q.fm.MissingCode(feature); code > max || code < 0 {
					code = max
				}
			}
			acc.counts[code]++
		default: // Numeric
			if math.IsNaN(v) || math.IsInf(v, 0) {
				log.Info().Str("feature", feature).Msg("psi queue: dropping non-finite value")
				continue
			}
			acc.counts[binSearch(fp.Bins, v)]++
		}
	}
	return nil
}

// binSearch locates the bin whose (lower, upper] contains v: the first bin
// uses v <= upper, the last uses v > lower.
func binSearch(bins []driftprofile.Bin, v float64) int {
	lo, hi := 0, len(bins)-1
	for lo < hi {
		mid := (lo + hi) / 2
		upper := math.Inf(1)
		if bins[mid].Upper != nil {
			upper = *bins[mid].Upper
		}
		if v <= upper {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return bins[lo].ID
}

// Flush emits one PsiServerRecord per (feature, bin) with a non-zero count,
// then resets every feature's counters to zero.
func (q *PsiQueue) Flush() driftprofile.ServerRecords {
	var records []driftprofile.PsiServerRecord
	now := time.Now().UTC()
	q.features.Range(func(key, value interface{}) bool {
		feature := key.(string)
		acc := value.(*psiAccumulator)
		acc.mu.Lock()
		ids := make([]int, 0, len(acc.counts))
		for id := range acc.counts {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if acc.counts[id] == 0 {
				continue
			}
			records = append(records, driftprofile.PsiServerRecord{
				CreatedAt: now,
				Space:     q.space,
				Name:      q.name,
				Version:   q.version,
				Feature:   feature,
				BinID:     id,
				BinCount:  acc.counts[id],
			})
		}
		acc.counts = make(map[int]int)
		acc.mu.Unlock()
		return true
	})
	return driftprofile.ServerRecords{RecordType: driftprofile.RecordPsi, Psi: records}
}

// IsEmpty reports whether every bin across every feature has a zero count.
func (q *PsiQueue) IsEmpty() bool {
	empty := true
	q.features.Range(func(_, value interface{}) bool {
		acc := value.(*psiAccumulator)
		acc.mu.Lock()
		for _, c := range acc.counts {
			if c != 0 {
				empty = false
				break
			}
		}
		acc.mu.Unlock()
		return empty
	})
	return empty
}
