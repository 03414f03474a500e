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

// Package featuremap provides the bidirectional mapping between categorical
// string values and compact, dense integer codes that the PSI categorical
// path and categorical queue insertion rely on. A FeatureMap is built once
// from a reference dataset and is immutable thereafter; querying an unseen
// string returns the reserved "missing" code rather than an error.
package featuremap

// Feature is the per-feature string<->code table.
type Feature struct {
	toCode   map[string]int
	toString []string
	missing  int
}

// FeatureMap holds one Feature table per categorical feature name.
type FeatureMap struct {
	features map[string]*Feature
}

// Build enumerates unique strings per feature in first-seen (insertion)
// order, assigns dense codes 0..k-1, and reserves the next code (k) for
// "missing". columns maps feature name to its raw string column.
func Build(columns map[string][]string) *FeatureMap {
	fm := &FeatureMap{features: make(map[string]*Feature, len(columns))}
	for name, col := range columns {
		f := &Feature{toCode: make(map[string]int)}
		for _, v := range col {
			if _, ok := f.toCode[v]; !ok {
				code := len(f.toString)
				f.toCode[v] = code
				f.toString = append(f.toString, v)
			}
		}
		f.missing = len(f.toString)
		fm.features[name] = f
	}
	return fm
}

// Lookup returns the dense code for value under feature. An unseen string
// maps to the feature's reserved "missing" code rather than an error; an
// unknown feature returns (0, false) so callers can distinguish "known
// missing" from "feature absent entirely".
func (fm *FeatureMap) Lookup(feature, value string) (code int, known bool) {
	f, ok := fm.features[feature]
	if !ok {
		return 0, false
	}
	if c, ok := f.toCode[value]; ok {
		return c, true
	}
	return f.missing, true
}

// MissingCode returns the reserved "missing" code for feature, or -1 if the
// feature is not present in the map.
func (fm *FeatureMap) MissingCode(feature string) int {
	f, ok := fm.features[feature]
	if !ok {
		return -1
	}
	return f.missing
}

// Has reports whether feature is present in the map.
func (fm *FeatureMap) Has(feature string) bool {
	_, ok := fm.features[feature]
	return ok
}

// Codes returns the feature's category->code table (excluding the reserved
// missing code), primarily for the persisted profile's "feature_map" key.
func (fm *FeatureMap) Codes(feature string) map[string]int {
	f, ok := fm.features[feature]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(f.toCode))
	for k, v := range f.toCode {
		out[k] = v
	}
	return out
}

// FromCodes rebuilds a FeatureMap from a previously serialized feature_map
// (category -> code), used when loading a persisted profile.
func FromCodes(codes map[string]map[string]int) *FeatureMap {
	fm := &FeatureMap{features: make(map[string]*Feature, len(codes))}
	for name, table := range codes {
		f := &Feature{toCode: make(map[string]int, len(table))}
		maxCode := -1
		strs := make([]string, len(table))
		for s, c := range table {
			f.toCode[s] = c
			if c > maxCode {
				maxCode = c
			}
			if c >= 0 && c < len(strs) {
				strs[c] = s
			}
		}
		f.toString = strs
		f.missing = maxCode + 1
		fm.features[name] = f
	}
	return fm
}
