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

// Package queue implements the SPC, PSI, and custom-metric feature queues:
// per-feature accumulators that ingest streamed observations and flush
// emitted ServerRecords on demand. Each feature's accumulator is guarded by
// its own mutex behind a sync.Map, so concurrent producers never contend
// across features.
package queue

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"driftwatch/pkg/driftprofile"
)

type spcAccumulator struct {
	mu  sync.Mutex
	buf []float64
	cap int
}

// SpcQueue buffers per-feature values in fixed-capacity windows, emitting a
// mean and clearing the window once it fills.
type SpcQueue struct {
	space, name, version string
	sampleSize           int
	features             sync.Map // feature name -> *spcAccumulator
}

// NewSpcQueue constructs a queue sized by the profile's configured sample
// size (falls back to 1 if unset).
func NewSpcQueue(space, name, version string, profile *driftprofile.DriftProfile) *SpcQueue {
	sampleSize := 1
	if profile.Config.Spc != nil && profile.Config.Spc.SampleSize > 0 {
		sampleSize = profile.Config.Spc.SampleSize
	}
	return &SpcQueue{space: space, name: name, version: version, sampleSize: sampleSize}
}

func (q *SpcQueue) accumulator(feature string) *spcAccumulator {
	if v, ok := q.features.Load(feature); ok {
		return v.(*spcAccumulator)
	}
	fresh := &spcAccumulator{cap: q.sampleSize, buf: make([]float64, 0, q.sampleSize)}
	actual, _ := q.features.LoadOrStore(feature, fresh)
	return actual.(*spcAccumulator)
}

// Insert appends values for feature, dropping non-finite entries.
func (q *SpcQueue) Insert(feature string, values []float64) []driftprofile.SpcServerRecord {
	acc := q.accumulator(feature)
	var emitted []driftprofile.SpcServerRecord

	acc.mu.Lock()
	defer acc.mu.Unlock()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		acc.buf = append(acc.buf, v)
		if len(acc.buf) >= acc.cap {
			emitted = append(emitted, q.drain(feature, acc))
		}
	}
	return emitted
}

// drain must be called with acc.mu held.
func (q *SpcQueue) drain(feature string, acc *spcAccumulator) driftprofile.SpcServerRecord {
	var sum float64
	for _, v := range acc.buf {
		sum += v
	}
	mean := sum / float64(len(acc.buf))
	acc.buf = acc.buf[:0]
	return driftprofile.SpcServerRecord{
		CreatedAt: time.Now().UTC(),
		Space:     q.space,
		Name:      q.name,
		Version:   q.version,
		Feature:   feature,
		Value:     mean,
	}
}

// Flush emits a ServerRecords batch covering any partially-filled windows
// across all features, then clears them.
func (q *SpcQueue) Flush() driftprofile.ServerRecords {
	var records []driftprofile.SpcServerRecord
	q.features.Range(func(key, value interface{}) bool {
		feature := key.(string)
		acc := value.(*spcAccumulator)
		acc.mu.Lock()
		if len(acc.buf) > 0 {
			records = append(records, q.drain(feature, acc))
		}
		acc.mu.Unlock()
		return true
	})
	if len(records) == 0 {
		log.Debug().Str("queue", "spc").Msg("flush produced no records")
	}
	return driftprofile.ServerRecords{RecordType: driftprofile.RecordSpc, Spc: records}
}

// IsEmpty reports whether every feature's window is currently empty.
func (q *SpcQueue) IsEmpty() bool {
	empty := true
	q.features.Range(func(_, value interface{}) bool {
		acc := value.(*spcAccumulator)
		acc.mu.Lock()
		if len(acc.buf) > 0 {
			empty = false
		}
		acc.mu.Unlock()
		return empty
	})
	return empty
}
