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

// Package sinks provides destinations for flushed ServerRecords batches:
// a buffered JSONL file sink and a Redis-list-backed sink. The drift
// library itself never writes anywhere; these are the collaborators the
// binaries hand its output to.
package sinks

import (
	"context"

	"driftwatch/pkg/driftprofile"
)

// RecordSink is the ambient interface every queue-flush destination
// implements.
type RecordSink interface {
	Write(ctx context.Context, records driftprofile.ServerRecords) error
}
