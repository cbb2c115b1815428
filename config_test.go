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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigBackfillsZeroValues(t *testing.T) {
	cfg := NewConfig(Config{})
	assert.Equal(t, DefaultConfig.OverflowScratchSize, cfg.OverflowScratchSize)
	assert.Equal(t, DefaultConfig.HistoryStoreCompressionThreshold, cfg.HistoryStoreCompressionThreshold)
	assert.Equal(t, DefaultConfig.StatsExportInterval, cfg.StatsExportInterval)
}

func TestNewConfigKeepsExplicitValues(t *testing.T) {
	cfg := NewConfig(Config{
		OverflowScratchSize:              8192,
		HistoryStoreCompressionThreshold: 256,
		StatsExportInterval:              time.Minute,
	})
	assert.Equal(t, 8192, cfg.OverflowScratchSize)
	assert.Equal(t, 256, cfg.HistoryStoreCompressionThreshold)
	assert.Equal(t, time.Minute, cfg.StatsExportInterval)
}
