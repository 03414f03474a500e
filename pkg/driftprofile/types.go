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

// DriftType tags which family a profile belongs to.
type DriftType string

const (
	DriftTypeSpc    DriftType = "Spc"
	DriftTypePsi    DriftType = "Psi"
	DriftTypeCustom DriftType = "Custom"
)

// ProfileArgs is the metadata shared by every profile kind.
type ProfileArgs struct {
	Name           string    `json:"name" yaml:"name"`
	Space          string    `json:"space" yaml:"space"`
	Version        string    `json:"version" yaml:"version"`
	Schedule       string    `json:"schedule" yaml:"schedule"` // six-field cron string, see cron.go
	ScouterVersion string    `json:"scouter_version" yaml:"scouter_version"`
	DriftType      DriftType `json:"drift_type" yaml:"drift_type"`
}

// BinType identifies how a PSI bin's membership is tested.
type BinType string

const (
	BinTypeNumeric  BinType = "Numeric"
	BinTypeBinary   BinType = "Binary"
	BinTypeCategory BinType = "Category"
)

// Bin is one reference bucket of a PSI feature profile. Lower/Upper are nil
// for Binary and Category bins; for Numeric bins the first bin's Lower is
// nil (meaning -Inf) and the last bin's Upper is nil (meaning +Inf).
type Bin struct {
	ID         int      `json:"id"`
	Lower      *float64 `json:"lower,omitempty"`
	Upper      *float64 `json:"upper,omitempty"`
	Proportion float64  `json:"proportion"`
}

// PsiFeatureDriftProfile is the reference bin set for one feature.
type PsiFeatureDriftProfile struct {
	ID        string    `json:"id"`
	Bins      []Bin     `json:"bins"`
	BinType   BinType   `json:"bin_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SpcFeatureDriftProfile is the control-chart profile for one feature.
type SpcFeatureDriftProfile struct {
	ID        string    `json:"id"`
	Center    float64   `json:"center"`
	OneUCL    float64   `json:"one_ucl"`
	OneLCL    float64   `json:"one_lcl"`
	TwoUCL    float64   `json:"two_ucl"`
	TwoLCL    float64   `json:"two_lcl"`
	ThreeUCL  float64   `json:"three_ucl"`
	ThreeLCL  float64   `json:"three_lcl"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertThresholdKind is the comparison used by a custom-metric alert condition.
type AlertThresholdKind string

const (
	ThresholdBelow   AlertThresholdKind = "Below"
	ThresholdAbove   AlertThresholdKind = "Above"
	ThresholdOutside AlertThresholdKind = "Outside"
)

// AlertCondition pairs a threshold kind with an optional symmetric boundary.
type AlertCondition struct {
	Kind     AlertThresholdKind `json:"threshold_kind"`
	Boundary *float64           `json:"threshold_value,omitempty"`
}

// CustomDriftProfile stores named scalar reference values and their alert
// conditions. Invariant: every metric has a matching alert condition.
type CustomDriftProfile struct {
	Metrics         map[string]float64        `json:"metrics"`
	AlertConditions map[string]AlertCondition `json:"alert_conditions"`
}

// PsiAlertConfig carries the PSI drift engine's threshold.
type PsiAlertConfig struct {
	PsiThreshold float64 `json:"psi_threshold"`
}

// DefaultPsiThreshold is the conventional PSI alert threshold.
const DefaultPsiThreshold = 0.25

// SpcConfig carries the sampling parameters used by both the SPC profile
// builder and the SPC drift engine (they must agree on sample_size).
type SpcConfig struct {
	SampleSize int          `json:"sample_size"`
	Sample     bool         `json:"sample"`
	Rule       SpcAlertRule `json:"rule"`
}

// Zone identifies one of the four concentric SPC control bands.
type Zone int

const (
	ZoneNotApplicable Zone = 0
	Zone1             Zone = 1
	Zone2             Zone = 2
	Zone3             Zone = 3
	Zone4             Zone = 4
)

// SpcAlertRule is the Western-Electric rule configuration: eight
// non-negative integers "c1 a1 c2 a2 c3 a3 c4 a4" plus the zone subset to
// monitor.
type SpcAlertRule struct {
	Rule           string `json:"rule" yaml:"rule"`
	ZonesToMonitor []Zone `json:"zones_to_monitor" yaml:"zones_to_monitor"`
}

// DefaultSpcAlertRule is the conventional Western-Electric configuration:
// all four zones monitored, pair lengths "8 16 4 8 2 4 1 1".
func DefaultSpcAlertRule() SpcAlertRule {
	return SpcAlertRule{
		Rule:           "8 16 4 8 2 4 1 1",
		ZonesToMonitor: []Zone{Zone1, Zone2, Zone3, Zone4},
	}
}

// Config is the full, family-tagged configuration embedded in a profile.
// Only the fields relevant to DriftType are populated. On the wire, SPC's
// sample_size/sample/rule live directly on the config object (not nested);
// the hand-written MarshalJSON/UnmarshalJSON in json.go flatten them in and
// out of the Spc field.
type Config struct {
	ProfileArgs
	AlertConfigPsi      *PsiAlertConfig           `json:"alert_config,omitempty"`
	FeatureMap          map[string]map[string]int `json:"feature_map,omitempty"`
	CategoricalFeatures []string                  `json:"categorical_features,omitempty"`
	Targets             []string                  `json:"targets,omitempty"`
	Spc                 *SpcConfig                `json:"-"`
}

// DriftProfile is the tagged-union wrapper persisted to JSON. Exactly one
// of SpcFeatures/PsiFeatures/Custom is populated, selected by
// Config.DriftType. See MarshalJSON/UnmarshalJSON in json.go for the single
// "features" key the wire schema uses.
type DriftProfile struct {
	Config         Config
	SpcFeatures    map[string]SpcFeatureDriftProfile
	PsiFeatures    map[string]PsiFeatureDriftProfile
	Custom         *CustomDriftProfile
	ScouterVersion string
}
