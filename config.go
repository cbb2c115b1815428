// Copyright 2025 BINARY Members
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

package reconcile

import "time"

const (
	_kb = 1024
)

// Config holds ambient settings for the reference collaborators. It never
// changes what Select decides. Of its fields, only
// HistoryStoreCompressionThreshold is read elsewhere in this repository
// (cmd/reconcilesim passes it to historystore.NewStore).
type Config struct {
	// OverflowScratchSize is a scratch buffer size for copying an overflow
	// cell's payload. The Appender does not read it: it stages payloads in
	// bufferpool.Records buffers, which grow as needed.
	OverflowScratchSize int

	// HistoryStoreCompressionThreshold is the minimum spilled-chain byte
	// size before the reference history store bothers s2-compressing it.
	HistoryStoreCompressionThreshold int

	// StatsExportInterval is a telemetry snapshot cadence. No package in
	// this repository reads it; it never gates a reconciliation decision.
	StatsExportInterval time.Duration
}

var DefaultConfig = Config{
	OverflowScratchSize:              4 * _kb,
	HistoryStoreCompressionThreshold: 1 * _kb,
	StatsExportInterval:              10 * time.Second,
}

// NewConfig back-fills zero fields in cfg with DefaultConfig's values.
func NewConfig(cfg Config) Config {
	_ = cfg.validate()
	return cfg
}

func (c *Config) validate() error {
	if c.OverflowScratchSize <= 0 {
		c.OverflowScratchSize = DefaultConfig.OverflowScratchSize
	}
	if c.HistoryStoreCompressionThreshold <= 0 {
		c.HistoryStoreCompressionThreshold = DefaultConfig.HistoryStoreCompressionThreshold
	}
	if c.StatsExportInterval <= 0 {
		c.StatsExportInterval = DefaultConfig.StatsExportInterval
	}
	return nil
}
