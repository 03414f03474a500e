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

// Package spc implements the Shewhart control-chart drift family: building
// per-feature control limits from chunked reference data, classifying new
// samples into signed drift zones, and sliding Western-Electric alert rules
// over the resulting drift codes.
package spc

import (
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/constraints"

	"driftwatch/pkg/driftmetrics"
	"driftwatch/pkg/driftprofile"
)

// Float is the numeric-dispatch constraint shared across the drift core.
type Float interface {
	constraints.Float
}

// PickSampleSize selects the adaptive chunk size by row count.
func PickSampleSize(rows int) int {
	switch {
	case rows < 1_000:
		return 25
	case rows < 10_000:
		return 100
	case rows < 100_000:
		return 1_000
	case rows < 1_000_000:
		return 10_000
	default:
		return 100_000
	}
}

// ComputeC4 is the sample-standard-deviation unbiasing constant,
// approximated as (4n-4)/(4n-3).
func ComputeC4(n int) float64 {
	nf := float64(n)
	return (4*nf - 4) / (4*nf - 3)
}

// BuildProfile constructs one SpcFeatureDriftProfile per feature from a
// row-major 2-D array (rows x len(features)). sampleSize, if > 0, overrides
// the adaptive selection in PickSampleSize (for deterministic testing);
// otherwise it is chosen from len(rows).
func BuildProfile[F Float](features []string, rows [][]F, args driftprofile.ProfileArgs, sampleSize int) (*driftprofile.DriftProfile, error) {
	if args.Schedule != "" && !driftprofile.ValidateCron(args.Schedule) {
		return nil, driftprofile.ParseError("spc: schedule is not a six-field cron string")
	}
	n := len(rows)
	if n == 0 {
		return nil, driftprofile.EmptyArray("spc: no rows supplied")
	}
	s := sampleSize
	if s <= 0 {
		s = PickSampleSize(n)
	}
	numFeatures := len(features)

	type chunkStat struct {
		means, stdevs []float64
	}
	var chunks []chunkStat
	for start := 0; start < n; start += s {
		end := start + s
		if end > n {
			end = n
		}
		chunkRows := rows[start:end]
		cs := chunkStat{means: make([]float64, numFeatures), stdevs: make([]float64, numFeatures)}
		for col := 0; col < numFeatures; col++ {
			column := make([]F, len(chunkRows))
			for i, r := range chunkRows {
				column[i] = r[col]
			}
			mean, sd, err := driftmetrics.ColumnMeanStdDev(column)
			if err != nil {
				return nil, err
			}
			cs.means[col] = float64(mean)
			cs.stdevs[col] = float64(sd)
		}
		chunks = append(chunks, cs)
	}

	c4 := ComputeC4(s)
	scale := c4 * math.Sqrt(float64(s))

	featureProfiles := make(map[string]driftprofile.SpcFeatureDriftProfile, numFeatures)
	now := time.Now().UTC()

	// Column-parallel map across features via a bounded worker pool; each
	// goroutine writes only its own result index.
	type result struct {
		name    string
		profile driftprofile.SpcFeatureDriftProfile
	}
	results := make([]result, numFeatures)
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers > numFeatures {
		workers = numFeatures
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for col := range jobs {
				var meanOfMeans, meanOfStdevs float64
				for _, c := range chunks {
					meanOfMeans += c.means[col]
					meanOfStdevs += c.stdevs[col]
				}
				meanOfMeans /= float64(len(chunks))
				meanOfStdevs /= float64(len(chunks))

				center := meanOfMeans
				base := meanOfStdevs / scale
				results[col] = result{
					name: features[col],
					profile: driftprofile.SpcFeatureDriftProfile{
						ID:        features[col],
						Center:    center,
						OneUCL:    center + base,
						OneLCL:    center - base,
						TwoUCL:    center + 2*base,
						TwoLCL:    center - 2*base,
						ThreeUCL:  center + 3*base,
						ThreeLCL:  center - 3*base,
						Timestamp: now,
					},
				}
			}
		}()
	}
	for col := 0; col < numFeatures; col++ {
		jobs <- col
	}
	close(jobs)
	wg.Wait()

	for _, r := range results {
		featureProfiles[r.name] = r.profile
	}

	args.DriftType = driftprofile.DriftTypeSpc
	return &driftprofile.DriftProfile{
		Config: driftprofile.Config{
			ProfileArgs: args,
			Spc:         &driftprofile.SpcConfig{SampleSize: s, Sample: true, Rule: driftprofile.DefaultSpcAlertRule()},
		},
		SpcFeatures:    featureProfiles,
		ScouterVersion: args.ScouterVersion,
	}, nil
}
