// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/nsys/spikenet/ring"
	"github.com/rs/zerolog"
)

// InputBatch is one tick of external input: per-channel value vectors,
// thresholded into spikes at the sensory input layer.
type InputBatch map[string][]float32

// TickRecord is the retained execution record for one processed tick.
type TickRecord struct {
	Time       float32
	Inputs     InputBatch
	Outputs    map[int32]float32
	Activities map[ModuleID]float32
}

// System owns the modules, the transport, and the feedback controller,
// and drives them through the shared clock.  Given the same Config
// (including Seed) and the same input sequence, two Systems produce
// identical outputs, histories, and snapshots.
type System struct {

	// construction-time configuration, validated once in New
	Config Config

	// shared clock, advanced once per processed tick
	Ctx Context

	// modules in construction order
	Modules []*Module

	// module lookup by id
	ModMap map[ModuleID]*Module

	// inter-module spike router
	Transport *Transport

	// neuromodulatory controller
	Feedback *FeedbackController

	// recent execution records, one per processed tick
	ExecHist *ring.Buffer[TickRecord]

	// deterministic random source for all construction-time randomness
	Rnd *rand.Rand

	// structured logger, Nop unless SetLogger is called
	Log zerolog.Logger

	// unique id for this system instance, used in log fields
	RunID string

	running bool

	// count of input elements dropped as out of range
	InDropped int
}

// New builds a System from the given configuration.  A nil cfg gets the
// defaults.  The configuration is validated once; construction never
// fails afterward.
func New(cfg *Config) (*System, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	} else {
		c.Defaults()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sys := &System{Config: c, Log: zerolog.Nop(), RunID: uuid.NewString()}
	sys.Ctx.Defaults()
	sys.Ctx.TimeStep = c.TimeStep
	sys.build()
	return sys, nil
}

// build constructs all modules, the transport graph, and the feedback
// controller from the stored configuration.  Randomness comes from a
// source seeded with Config.Seed, so repeated builds are identical.
func (sys *System) build() {
	c := &sys.Config
	sys.Rnd = rand.New(rand.NewSource(c.Seed))
	sys.Modules = sys.Modules[:0]
	sys.ModMap = make(map[ModuleID]*Module)
	for _, ms := range c.Modules {
		for i := 0; i < ms.Count; i++ {
			id := ModuleID{Type: ms.Type, Index: int32(i)}
			md := NewModule(id, ms.InputSize, ms.HiddenSize, ms.OutputSize, c.HistoryLen, sys.Rnd)
			sys.Modules = append(sys.Modules, md)
			sys.ModMap[id] = md
		}
	}

	sys.Transport = NewTransport(c.Bandwidth, c.HistoryLen)
	ids := make([]ModuleID, len(sys.Modules))
	for i, md := range sys.Modules {
		ids[i] = md.ID
	}
	for _, src := range ids {
		for _, tgt := range ids {
			if src == tgt {
				continue
			}
			sys.Transport.AddConnection(src, tgt, connPriority(src.Type, tgt.Type))
		}
	}

	sys.Feedback = NewFeedbackController(ids, c.HistoryLen)
	sys.ExecHist = ring.New[TickRecord](c.HistoryLen)
	sys.Ctx.Reset()
	sys.InDropped = 0
	sys.Log.Info().Str("sys", sys.RunID).Int("modules", len(sys.Modules)).
		Int("edges", len(ids)*(len(ids)-1)).Int64("seed", c.Seed).Msg("system built")
}

// connPriority returns the base transport priority for a directed edge
// between module types: executive traffic is most urgent, sensory feeds
// to the association modules next.
func connPriority(src, tgt ModuleType) float32 {
	switch {
	case src == Executive || tgt == Executive:
		return 1.5
	case src == Sensory && (tgt == Temporal || tgt == Spatial || tgt == Linguistic):
		return 1.3
	}
	return 1
}

// firstOfType returns the first module of the given type in construction
// order, or nil.
func (sys *System) firstOfType(mt ModuleType) *Module {
	for _, md := range sys.Modules {
		if md.ID.Type == mt {
			return md
		}
	}
	return nil
}

// ModuleByID returns the module with the given id, or nil.
func (sys *System) ModuleByID(mid ModuleID) *Module {
	return sys.ModMap[mid]
}

// Process runs one full system tick on the given input batch and returns
// the executive output activations, keyed by output index and normalized
// to [0,1] by the maximum spike count this tick.
//
// The tick proceeds in fixed phases: encode external input to the first
// sensory module, advance every module once, fan each emitted output
// event out to every other module through the transport, drain the
// transport and advance each destination once more with its deliveries,
// then update neuromodulation and apply the resulting factors.  Phase
// order and module order are fixed, so the tick is deterministic.
func (sys *System) Process(batch InputBatch) map[int32]float32 {
	ctx := &sys.Ctx

	events := make(map[ModuleID][]InputEvent)
	if sens := sys.firstOfType(Sensory); sens != nil && len(batch) > 0 {
		chans := make([]string, 0, len(batch))
		for ch := range batch {
			chans = append(chans, ch)
		}
		sort.Strings(chans)
		width := int32(len(sens.In))
		for _, ch := range chans {
			for i, v := range batch[ch] {
				if v <= 0.5 {
					continue
				}
				idx := int32(i)
				if idx >= width {
					sys.InDropped++
					ierr := &InvalidInputError{Channel: ch, Index: idx, Width: width}
					sys.Log.Warn().Str("sys", sys.RunID).Err(ierr).Msg("input dropped")
					continue
				}
				events[sens.ID] = append(events[sens.ID], InputEvent{Index: idx, Time: ctx.Time})
			}
		}
	}

	outs := make(map[ModuleID][]OutputEvent, len(sys.Modules))
	for _, md := range sys.Modules {
		if out := md.ProcessInput(events[md.ID], ctx); len(out) > 0 {
			outs[md.ID] = out
		}
	}

	// fan every output event out to every other module; transport
	// priority and bandwidth decide what actually arrives
	for _, src := range sys.Modules {
		for _, ev := range outs[src.ID] {
			for _, tgt := range sys.Modules {
				if tgt == src {
					continue
				}
				sys.Transport.TransmitSpike(src.ID, tgt.ID, ev.Index, ev.Time, 1, 1)
			}
		}
	}

	delivered := sys.Transport.Update(ctx)
	if n := sys.Transport.LastTick.Stale; n > 0 {
		sys.Log.Debug().Str("sys", sys.RunID).Int("stale", n).Msg("stale events discarded")
	}
	post := make(map[ModuleID][]InputEvent)
	for _, d := range delivered {
		post[d.Target] = append(post[d.Target], InputEvent{Index: d.Payload, Time: ctx.Time})
	}
	for _, md := range sys.Modules {
		evs := post[md.ID]
		if len(evs) == 0 {
			continue
		}
		if out := md.ProcessInput(evs, ctx); len(out) > 0 {
			outs[md.ID] = append(outs[md.ID], out...)
		}
	}

	acts := make(map[ModuleID]float32, len(sys.Modules))
	for _, md := range sys.Modules {
		acts[md.ID] = md.ActivityLevel()
	}
	factors := sys.Feedback.Update(ctx, acts)
	for _, md := range sys.Modules {
		f := factors[md.ID]
		md.SetModulation(f.Attention * f.Reward * f.Homeostatic)
		md.SetPlasticity(f.Plasticity)
	}

	outputs := sys.decodeOutputs(outs)

	ctx.TickInc()
	sys.ExecHist.Push(TickRecord{
		Time:       ctx.Time,
		Inputs:     copyBatch(batch),
		Outputs:    copyOutputs(outputs),
		Activities: acts,
	})
	return outputs
}

// decodeOutputs counts executive output events per index and normalizes
// the counts by this tick's maximum.
func (sys *System) decodeOutputs(outs map[ModuleID][]OutputEvent) map[int32]float32 {
	counts := make(map[int32]int)
	for _, md := range sys.Modules {
		if md.ID.Type != Executive {
			continue
		}
		for _, ev := range outs[md.ID] {
			counts[ev.Index]++
		}
	}
	maxn := 0
	for _, n := range counts {
		if n > maxn {
			maxn = n
		}
	}
	outputs := make(map[int32]float32, len(counts))
	for idx, n := range counts {
		outputs[idx] = float32(n) / float32(maxn)
	}
	return outputs
}

// Run resets the clock and execution history and processes ticks for the
// given duration of simulated time (Config.Duration when duration <= 0),
// feeding seq one batch per tick until it runs out, then empty batches.
// Returns one output map per processed tick.  Stop takes effect between
// ticks.
func (sys *System) Run(seq []InputBatch, duration float32) []map[int32]float32 {
	if duration <= 0 {
		duration = sys.Config.Duration
	}
	sys.running = true
	sys.Ctx.Reset()
	sys.ExecHist.Reset()
	steps := int(duration / sys.Ctx.TimeStep)
	sys.Log.Info().Str("sys", sys.RunID).Int("steps", steps).Float64("duration", float64(duration)).Msg("run started")
	outputs := make([]map[int32]float32, 0, steps)
	for t := 0; t < steps; t++ {
		var batch InputBatch
		if t < len(seq) {
			batch = seq[t]
		}
		outputs = append(outputs, sys.Process(batch))
		if !sys.running {
			sys.Log.Info().Str("sys", sys.RunID).Int("tick", t+1).Msg("run stopped")
			break
		}
	}
	sys.running = false
	return outputs
}

// Stop requests that a running Run loop end after the current tick.
func (sys *System) Stop() {
	sys.running = false
}

// Reset rebuilds the whole system from its configuration: fresh modules,
// fresh transport, fresh feedback state, clock at zero.  Because the
// random source is re-seeded from Config.Seed, a reset System is
// indistinguishable from a newly built one.
func (sys *System) Reset() {
	sys.running = false
	sys.build()
}

// ProvideReward delivers a reward signal to the feedback controller for
// the given modules, or all modules when none are given.
func (sys *System) ProvideReward(value float32, modules ...ModuleID) {
	sys.Feedback.ProvideReward(value, modules...)
}

// FocusAttention directs attention to the given modules, lowering it
// everywhere else.
func (sys *System) FocusAttention(focus map[ModuleID]float32) {
	sys.Feedback.SetAttentionFocus(focus)
}

// AdjustPlasticity sets the plasticity rate for the given modules, or all
// modules when none are given.
func (sys *System) AdjustPlasticity(rate float32, modules ...ModuleID) {
	sys.Feedback.AdjustPlasticity(rate, modules...)
}

// SetHomeostaticTarget sets the homeostatic activity target for the given
// modules, or all modules when none are given.
func (sys *System) SetHomeostaticTarget(target float32, modules ...ModuleID) {
	sys.Feedback.SetHomeostaticTarget(target, modules...)
}

// OptimizeRouting reweights transport priorities around the currently
// most congested edges.
func (sys *System) OptimizeRouting() {
	sys.Transport.OptimizeRouting()
	sys.Log.Debug().Str("sys", sys.RunID).Msg("routing optimized")
}

// SetLogger installs a structured logger.  The default is a no-op.
func (sys *System) SetLogger(lg zerolog.Logger) {
	sys.Log = lg
}

func copyBatch(batch InputBatch) InputBatch {
	if batch == nil {
		return nil
	}
	cp := make(InputBatch, len(batch))
	for ch, vals := range batch {
		cp[ch] = append([]float32{}, vals...)
	}
	return cp
}

func copyOutputs(outputs map[int32]float32) map[int32]float32 {
	cp := make(map[int32]float32, len(outputs))
	for k, v := range outputs {
		cp[k] = v
	}
	return cp
}
