// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import "fmt"

// ModuleSpec configures one group of modules of a given type.
type ModuleSpec struct {

	// functional type of the modules
	Type ModuleType

	// number of modules of this type
	Count int

	// layer sizes for each module
	InputSize  int
	HiddenSize int
	OutputSize int
}

// Config is the construction-time system configuration.  It is validated
// once when the System is built and never re-validated per tick.
type Config struct {

	// simulation time advanced per tick
	TimeStep float32 `def:"1"`

	// default run duration when Run is called without one
	Duration float32 `def:"1000"`

	// transport deliveries allowed per tick
	Bandwidth int `def:"1000"`

	// retention length of every bounded history (activity, traffic,
	// execution records, neuromodulatory traces)
	HistoryLen int `def:"100"`

	// seed for the single deterministic random source used by all
	// construction-time randomness
	Seed int64

	// module groups, in construction order
	Modules []ModuleSpec
}

// Defaults sets the standard six-module configuration.
func (cfg *Config) Defaults() {
	cfg.TimeStep = 1
	cfg.Duration = 1000
	cfg.Bandwidth = 1000
	cfg.HistoryLen = 100
	cfg.Modules = []ModuleSpec{
		{Type: Sensory, Count: 1, InputSize: 100, HiddenSize: 500, OutputSize: 50},
		{Type: Temporal, Count: 1, InputSize: 50, HiddenSize: 200, OutputSize: 30},
		{Type: Spatial, Count: 1, InputSize: 50, HiddenSize: 200, OutputSize: 30},
		{Type: Linguistic, Count: 1, InputSize: 50, HiddenSize: 200, OutputSize: 30},
		{Type: Executive, Count: 1, InputSize: 90, HiddenSize: 300, OutputSize: 50},
		{Type: Memory, Count: 1, InputSize: 50, HiddenSize: 500, OutputSize: 50},
	}
}

// Validate checks the configuration, wrapping every failure in ErrConfig.
func (cfg *Config) Validate() error {
	if cfg.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrConfig, cfg.TimeStep)
	}
	if cfg.Bandwidth <= 0 {
		return fmt.Errorf("%w: bandwidth must be positive, got %d", ErrConfig, cfg.Bandwidth)
	}
	if cfg.HistoryLen <= 0 {
		return fmt.Errorf("%w: history length must be positive, got %d", ErrConfig, cfg.HistoryLen)
	}
	if len(cfg.Modules) == 0 {
		return fmt.Errorf("%w: no modules configured", ErrConfig)
	}
	seen := map[ModuleType]bool{}
	for i, ms := range cfg.Modules {
		if !ms.Type.Valid() {
			return fmt.Errorf("%w: modules[%d]: unknown module type %d", ErrConfig, i, int32(ms.Type))
		}
		if seen[ms.Type] {
			return fmt.Errorf("%w: modules[%d]: duplicate module type %s", ErrConfig, i, ms.Type)
		}
		seen[ms.Type] = true
		if ms.Count < 1 {
			return fmt.Errorf("%w: modules[%d] (%s): count must be at least 1, got %d", ErrConfig, i, ms.Type, ms.Count)
		}
		if ms.InputSize < 1 || ms.HiddenSize < 1 || ms.OutputSize < 1 {
			return fmt.Errorf("%w: modules[%d] (%s): layer sizes must be positive, got %d/%d/%d",
				ErrConfig, i, ms.Type, ms.InputSize, ms.HiddenSize, ms.OutputSize)
		}
	}
	return nil
}
