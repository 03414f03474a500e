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
	"sync"
	"time"

	"driftwatch/pkg/driftprofile"
)

type customAccumulator struct {
	mu    sync.Mutex
	sum   float64
	count int
}

// CustomQueue keeps a running (sum, count) pair per metric, emitting the
// average on flush.
type CustomQueue struct {
	space, name, version string
	metrics              sync.Map // metric name -> *customAccumulator
}

// NewCustomQueue constructs an empty custom-metric queue.
func NewCustomQueue(space, name, version string) *CustomQueue {
	return &CustomQueue{space: space, name: name, version: version}
}

func (q *CustomQueue) accumulator(metric string) *customAccumulator {
	if v, ok := q.metrics.Load(metric); ok {
		return v.(*customAccumulator)
	}
	fresh := &customAccumulator{}
	actual, _ := q.metrics.LoadOrStore(metric, fresh)
	return actual.(*customAccumulator)
}

// Insert records one observation of metric.
func (q *CustomQueue) Insert(metric string, value float64) {
	acc := q.accumulator(metric)
	acc.mu.Lock()
	acc.sum += value
	acc.count++
	acc.mu.Unlock()
}

// Flush emits one CustomServerRecord per metric with a non-zero count,
// value = sum/count, then resets every accumulator.
func (q *CustomQueue) Flush() driftprofile.ServerRecords {
	var records []driftprofile.CustomServerRecord
	now := time.Now().UTC()
	q.metrics.Range(func(key, value interface{}) bool {
		metric := key.(string)
		acc := value.(*customAccumulator)
		acc.mu.Lock()
		if acc.count > 0 {
			records = append(records, driftprofile.CustomServerRecord{
				CreatedAt: now,
				Space:     q.space,
				Name:      q.name,
				Version:   q.version,
				Metric:    metric,
				Value:     acc.sum / float64(acc.count),
			})
			acc.sum = 0
			acc.count = 0
		}
		acc.mu.Unlock()
		return true
	})
	return driftprofile.ServerRecords{RecordType: driftprofile.RecordCustom, Custom: records}
}

// IsEmpty reports whether every metric's counter is currently zero.
func (q *CustomQueue) IsEmpty() bool {
	empty := true
	q.metrics.Range(func(_, value interface{}) bool {
		acc := value.(*customAccumulator)
		acc.mu.Lock()
		if acc.count > 0 {
			empty = false
		}
		acc.mu.Unlock()
		return empty
	})
	return empty
}
