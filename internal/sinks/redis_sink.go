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

package sinks

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"driftwatch/pkg/driftprofile"
)

// RedisSink pushes each flushed ServerRecords batch onto a Redis list, for
// a downstream consumer to BLPOP.
type RedisSink struct {
	c   *redis.Client
	key string
}

// NewRedisSink constructs a sink that RPUSHes to key on the server at addr.
func NewRedisSink(addr, key string) *RedisSink {
	return &RedisSink{c: redis.NewClient(&redis.Options{Addr: addr}), key: key}
}

// Write serializes records and pushes them onto the configured list.
func (r *RedisSink) Write(ctx context.Context, records driftprofile.ServerRecords) error {
	if records.IsEmpty() {
		return nil
	}
	payload, err := json.Marshal(&records)
	if err != nil {
		return err
	}
	return r.c.RPush(ctx, r.key, payload).Err()
}

// Close releases the underlying connection pool.
func (r *RedisSink) Close() error {
	return r.c.Close()
}
