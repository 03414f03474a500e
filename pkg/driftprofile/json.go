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

import (
	"encoding/json"
	"fmt"
)

// wireConfig mirrors Config's wire shape, flattening the SPC-only
// sample_size/sample/rule fields onto the same object rather than nesting
// them under a "spc" key.
type wireConfig struct {
	ProfileArgs
	AlertConfigPsi      *PsiAlertConfig           `json:"alert_config,omitempty"`
	FeatureMap          map[string]map[string]int `json:"feature_map,omitempty"`
	CategoricalFeatures []string                  `json:"categorical_features,omitempty"`
	Targets             []string                  `json:"targets,omitempty"`
	SampleSize          int                        `json:"sample_size,omitempty"`
	Sample              bool                       `json:"sample,omitempty"`
	Rule                *SpcAlertRule              `json:"rule,omitempty"`
}

// MarshalJSON flattens Spc's fields onto the config object for SPC profiles.
func (c Config) MarshalJSON() ([]byte, error) {
	w := wireConfig{
		ProfileArgs:         c.ProfileArgs,
		AlertConfigPsi:      c.AlertConfigPsi,
		FeatureMap:          c.FeatureMap,
		CategoricalFeatures: c.CategoricalFeatures,
		Targets:             c.Targets,
	}
	if c.Spc != nil {
		w.SampleSize = c.Spc.SampleSize
		w.Sample = c.Spc.Sample
		rule := c.Spc.Rule
		w.Rule = &rule
	}
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs Spc from the flattened sample_size/sample/rule
// fields when drift_type is Spc.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ProfileArgs = w.ProfileArgs
	c.AlertConfigPsi = w.AlertConfigPsi
	c.FeatureMap = w.FeatureMap
	c.CategoricalFeatures = w.CategoricalFeatures
	c.Targets = w.Targets
	c.Spc = nil
	if w.ProfileArgs.DriftType == DriftTypeSpc {
		rule := DefaultSpcAlertRule()
		if w.Rule != nil {
			rule = *w.Rule
		}
		c.Spc = &SpcConfig{SampleSize: w.SampleSize, Sample: w.Sample, Rule: rule}
	}
	return nil
}

// wireProfile is the stable persisted schema: a single "features" key
// shaped per drift_type, plus "metrics" for Custom profiles.
// Features is untyped here (rather than two same-tagged map fields) because
// encoding/json silently drops every field that shares a JSON name with a
// sibling at the same depth; exactly one concrete map goes in depending on
// drift_type, so a single interface{}/RawMessage slot is correct either way.
type wireProfile struct {
	Config         Config                    `json:"config"`
	Features       interface{}               `json:"features,omitempty"`
	Metrics        map[string]float64        `json:"metrics,omitempty"`
	AlertCond      map[string]AlertCondition `json:"alert_conditions,omitempty"`
	ScouterVersion string                    `json:"scouter_version"`
}

// MarshalJSON emits the stable wire schema for whichever drift family this
// profile carries.
func (p DriftProfile) MarshalJSON() ([]byte, error) {
	w := wireProfile{Config: p.Config, ScouterVersion: p.ScouterVersion}
	switch p.Config.DriftType {
	case DriftTypeSpc:
		w.Features = p.SpcFeatures
	case DriftTypePsi:
		w.Features = p.PsiFeatures
	case DriftTypeCustom:
		if p.Custom != nil {
			w.Metrics = p.Custom.Metrics
			w.AlertCond = p.Custom.AlertConditions
		}
	default:
		return nil, fmt.Errorf("driftprofile: unknown drift_type %q", p.Config.DriftType)
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the stable wire schema, rejecting unknown drift_type
// values outright rather than guessing a family.
func (p *DriftProfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Config         Config                    `json:"config"`
		Features       json.RawMessage           `json:"features"`
		Metrics        map[string]float64        `json:"metrics,omitempty"`
		AlertCond      map[string]AlertCondition `json:"alert_conditions,omitempty"`
		ScouterVersion string                    `json:"scouter_version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Config = raw.Config
	p.ScouterVersion = raw.ScouterVersion
	switch raw.Config.DriftType {
	case DriftTypeSpc:
		if len(raw.Features) > 0 {
			if err := json.Unmarshal(raw.Features, &p.SpcFeatures); err != nil {
				return err
			}
		}
	case DriftTypePsi:
		if len(raw.Features) > 0 {
			if err := json.Unmarshal(raw.Features, &p.PsiFeatures); err != nil {
				return err
			}
		}
	case DriftTypeCustom:
		p.Custom = &CustomDriftProfile{Metrics: raw.Metrics, AlertConditions: raw.AlertCond}
	default:
		return fmt.Errorf("driftprofile: unknown drift_type %q", raw.Config.DriftType)
	}
	return nil
}
