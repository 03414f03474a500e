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

package driftprofile

import "time"

// RecordType tags one of the queue-emitted server record kinds.
type RecordType string

const (
	RecordSpc           RecordType = "Spc"
	RecordPsi           RecordType = "Psi"
	RecordCustom        RecordType = "Custom"
	RecordObservability RecordType = "Observability"
)

// SpcServerRecord is one emitted sample mean for a feature's SPC queue.
type SpcServerRecord struct {
	CreatedAt time.Time `json:"created_at"`
	Space     string    `json:"space"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Feature   string    `json:"feature"`
	Value     float64   `json:"value"`
}

// PsiServerRecord is one bin-count observation from a feature's PSI queue.
type PsiServerRecord struct {
	CreatedAt time.Time `json:"created_at"`
	Space     string    `json:"space"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Feature   string    `json:"feature"`
	BinID     int       `json:"bin_id"`
	BinCount  int       `json:"bin_count"`
}

// CustomServerRecord is one metric average emitted by the custom queue.
type CustomServerRecord struct {
	CreatedAt time.Time `json:"created_at"`
	Space     string    `json:"space"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
}

// ServerRecords is the tagged union of records flushed from a feature queue.
// Exactly one of the typed slices is populated, selected by RecordType.
type ServerRecords struct {
	RecordType RecordType           `json:"record_type"`
	Spc        []SpcServerRecord    `json:"spc,omitempty"`
	Psi        []PsiServerRecord    `json:"psi,omitempty"`
	Custom     []CustomServerRecord `json:"custom,omitempty"`
}

// IsEmpty reports whether the batch carries no records.
func (r ServerRecords) IsEmpty() bool {
	return len(r.Spc) == 0 && len(r.Psi) == 0 && len(r.Custom) == 0
}

// SpcFeatureAlerts is the SPC alert dispatch payload handed to back-ends.
type SpcFeatureAlerts struct {
	Features  map[string][]AlertSummary `json:"features"`
	HasAlerts bool                      `json:"has_alerts"`
}

// AlertSummary is one {kind, zone} pair attached to a feature's alert list.
type AlertSummary struct {
	Kind string `json:"kind"`
	Zone Zone   `json:"zone"`
}

// PsiFeatureAlerts is the PSI alert dispatch payload handed to back-ends.
type PsiFeatureAlerts struct {
	Features  map[string]float64 `json:"features"`
	Threshold float64            `json:"threshold"`
}
