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

// Package custommetric implements the custom-metric drift family: a profile
// of named scalar reference values and the threshold comparison that flags
// observed aggregates drifting Below, Above, or Outside them.
package custommetric

import "driftwatch/pkg/driftprofile"

// BuildProfile stores the reference metric values alongside their alert
// conditions. Every metric must carry a matching alert condition; metrics
// missing one are rejected.
func BuildProfile(metrics map[string]float64, conditions map[string]driftprofile.AlertCondition, args driftprofile.ProfileArgs) (*driftprofile.DriftProfile, error) {
	if args.Schedule != "" && !driftprofile.ValidateCron(args.Schedule) {
		return nil, driftprofile.ParseError("custommetric: schedule is not a six-field cron string")
	}
	for name := range metrics {
		if _, ok := conditions[name]; !ok {
			return nil, driftprofile.Compute("custommetric: metric " + name + " has no alert condition")
		}
	}
	args.DriftType = driftprofile.DriftTypeCustom
	return &driftprofile.DriftProfile{
		Config: driftprofile.Config{ProfileArgs: args},
		Custom: &driftprofile.CustomDriftProfile{
			Metrics:         metrics,
			AlertConditions: conditions,
		},
		ScouterVersion: args.ScouterVersion,
	}, nil
}

// Alert is one fired comparison-metric alert.
type Alert struct {
	MetricName          string
	TrainingMetricValue float64
	ObservedMetricValue float64
	AlertThresholdValue *float64
	AlertThreshold      driftprofile.AlertThresholdKind
}

// Evaluate compares each observed metric value against the profile's
// reference value under its configured threshold kind. Equality never
// alerts.
func Evaluate(profile *driftprofile.DriftProfile, observed map[string]float64) ([]Alert, error) {
	if profile.Custom == nil {
		return nil, driftprofile.Compute("custommetric: profile has no custom metrics")
	}
	available := make([]string, 0, len(profile.Custom.Metrics))
	for name := range profile.Custom.Metrics {
		available = append(available, name)
	}

	var alerts []Alert
	for name, q := range observed {
		p, ok := profile.Custom.Metrics[name]
		if !ok {
			return nil, driftprofile.FeatureMismatch(name, available)
		}
		cond := profile.Custom.AlertConditions[name]
		if fires(cond, p, q) {
			alerts = append(alerts, Alert{
				MetricName:          name,
				TrainingMetricValue: p,
				ObservedMetricValue: q,
				AlertThresholdValue: cond.Boundary,
				AlertThreshold:      cond.Kind,
			})
		}
	}
	return alerts, nil
}

func fires(cond driftprofile.AlertCondition, p, q float64) bool {
	below := func() bool {
		if cond.Boundary != nil {
			return q < p-*cond.Boundary
		}
		return q < p
	}
	above := func() bool {
		if cond.Boundary != nil {
			return q > p+*cond.Boundary
		}
		return q > p
	}
	switch cond.Kind {
	case driftprofile.ThresholdBelow:
		return below()
	case driftprofile.ThresholdAbove:
		return above()
	case driftprofile.ThresholdOutside:
		return below() || above()
	default:
		return false
	}
}
