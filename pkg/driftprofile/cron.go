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

import "strings"

// ValidateCron checks that s is syntactically a standard six-field cron
// string (seconds minute hour day-of-month month day-of-week). The fields
// are never interpreted semantically; this is a syntax gate only, so that a
// malformed schedule fails profile construction early rather than at
// dispatch time in the scheduler that eventually consumes it.
func ValidateCron(s string) bool {
	fields := strings.Fields(s)
	return len(fields) == 6
}
