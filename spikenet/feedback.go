// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"sort"

	"github.com/goki/mat32"
	"github.com/nsys/spikenet/ring"
)

// ModFactors are the modulation factors computed for one module by a
// feedback update.  Reward is remapped to [0,2] with 1 neutral; the
// others are direct factors.
type ModFactors struct {
	Attention   float32
	Reward      float32
	Homeostatic float32
	Plasticity  float32
}

// FeedbackParams contains the neuromodulatory baselines, decay factors,
// and regulation constants.
type FeedbackParams struct {

	// baseline global attention level [0,1]
	Attention float32 `def:"0.5"`

	// baseline global reward signal [-1,1]
	Reward float32 `def:"0"`

	// baseline homeostatic activity target [0,1]
	HomeoTarget float32 `def:"0.2"`

	// baseline global plasticity rate [0,1]
	Plasticity float32 `def:"0.5"`

	// per-tick decay of global attention
	AttnDecay float32 `def:"0.95"`

	// per-tick decay of global reward
	RewDecay float32 `def:"0.9"`

	// low per-module attention applied to everything outside an
	// attention focus
	AttnBase float32 `def:"0.2"`

	// homeostatic dead zone: no regulation while |activity - target|
	// stays within this
	Tol float32 `def:"0.1"`

	// weight of the global scalar when mixed with the per-module one
	MixGlobal float32 `def:"0.3"`

	// multiplicative plasticity step when activity is below target
	RegUp float32 `def:"1.1"`

	// multiplicative plasticity step when activity is above target
	RegDn float32 `def:"0.9"`

	// floor for regulated per-module plasticity
	PlastFloor float32 `def:"0.1"`

	// cap on the homeostatic excitability correction
	HomeoGainMax float32 `def:"0.5"`
}

func (fp *FeedbackParams) Defaults() {
	fp.Attention = 0.5
	fp.Reward = 0
	fp.HomeoTarget = 0.2
	fp.Plasticity = 0.5
	fp.AttnDecay = 0.95
	fp.RewDecay = 0.9
	fp.AttnBase = 0.2
	fp.Tol = 0.1
	fp.MixGlobal = 0.3
	fp.RegUp = 1.1
	fp.RegDn = 0.9
	fp.PlastFloor = 0.1
	fp.HomeoGainMax = 0.5
}

func (fp *FeedbackParams) Update() {
}

// FeedbackController regulates global and per-module attention, reward,
// homeostasis, and plasticity from aggregate activity.  The per-module
// maps are materialized for every known module id at construction, so
// presence and iteration are always deterministic.
type FeedbackController struct {

	// baselines and regulation constants
	Params FeedbackParams `view:"inline"`

	// global scalars
	Attention   float32
	Reward      float32
	HomeoTarget float32
	Plasticity  float32

	// mean activity across modules from the last update
	SystemAct float32

	// known module ids in canonical order
	Modules []ModuleID

	// per-module overrides, one entry per known module
	ModAttention map[ModuleID]float32
	ModReward    map[ModuleID]float32
	ModHomeo     map[ModuleID]float32
	ModPlast     map[ModuleID]float32

	// last recorded activity per known module
	ModAct map[ModuleID]float32

	// recent global scalar traces, one entry per update
	AttnHist  *ring.Buffer[float32]
	RewHist   *ring.Buffer[float32]
	HomeoHist *ring.Buffer[float32]
	PlastHist *ring.Buffer[float32]
}

// NewFeedbackController returns a controller tracking exactly the given
// module ids, at baseline.
func NewFeedbackController(modules []ModuleID, histLen int) *FeedbackController {
	fc := &FeedbackController{}
	fc.Params.Defaults()
	fc.Modules = append([]ModuleID{}, modules...)
	n := len(modules)
	fc.ModAttention = make(map[ModuleID]float32, n)
	fc.ModReward = make(map[ModuleID]float32, n)
	fc.ModHomeo = make(map[ModuleID]float32, n)
	fc.ModPlast = make(map[ModuleID]float32, n)
	fc.ModAct = make(map[ModuleID]float32, n)
	fc.AttnHist = ring.New[float32](histLen)
	fc.RewHist = ring.New[float32](histLen)
	fc.HomeoHist = ring.New[float32](histLen)
	fc.PlastHist = ring.New[float32](histLen)
	fc.Reset()
	return fc
}

// Reset restores all global and per-module scalars to their baselines and
// clears the traces.
func (fc *FeedbackController) Reset() {
	fp := &fc.Params
	fc.Attention = fp.Attention
	fc.Reward = fp.Reward
	fc.HomeoTarget = fp.HomeoTarget
	fc.Plasticity = fp.Plasticity
	fc.SystemAct = 0
	for _, mid := range fc.Modules {
		fc.ModAttention[mid] = fp.Attention
		fc.ModReward[mid] = fp.Reward
		fc.ModHomeo[mid] = fp.HomeoTarget
		fc.ModPlast[mid] = fp.Plasticity
		fc.ModAct[mid] = 0
	}
	fc.AttnHist.Reset()
	fc.RewHist.Reset()
	fc.HomeoHist.Reset()
	fc.PlastHist.Reset()
}

// Update records the given module activities, decays the global attention
// and reward signals, applies homeostatic regulation, and returns the
// modulation factors for every module present in activities.
func (fc *FeedbackController) Update(ctx *Context, activities map[ModuleID]float32) map[ModuleID]ModFactors {
	fp := &fc.Params
	n := 0
	sum := float32(0)
	for _, mid := range fc.Modules {
		act, ok := activities[mid]
		if !ok {
			continue
		}
		fc.ModAct[mid] = act
		sum += act
		n++
	}
	if n > 0 {
		fc.SystemAct = sum / float32(n)
	}

	fc.Attention *= fp.AttnDecay
	fc.Reward *= fp.RewDecay
	fc.regulate()

	fc.AttnHist.Push(fc.Attention)
	fc.RewHist.Push(fc.Reward)
	fc.HomeoHist.Push(fc.HomeoTarget)
	fc.PlastHist.Push(fc.Plasticity)

	out := make(map[ModuleID]ModFactors, n)
	for _, mid := range fc.Modules {
		if _, ok := activities[mid]; !ok {
			continue
		}
		out[mid] = ModFactors{
			Attention:   fc.mix(fc.Attention, fc.ModAttention[mid]),
			Reward:      fc.mix(fc.Reward, fc.ModReward[mid]) + 1,
			Homeostatic: fc.homeoFactor(mid),
			Plasticity:  fc.mix(fc.Plasticity, fc.ModPlast[mid]),
		}
	}
	return out
}

func (fc *FeedbackController) mix(global, module float32) float32 {
	return fc.Params.MixGlobal*global + (1-fc.Params.MixGlobal)*module
}

// regulate nudges each module's plasticity rate toward its homeostatic
// target: activity below target raises plasticity, above lowers it, with
// a dead zone of Tol and a floor of PlastFloor.
func (fc *FeedbackController) regulate() {
	fp := &fc.Params
	for _, mid := range fc.Modules {
		err := fc.ModAct[mid] - fc.ModHomeo[mid]
		if mat32.Abs(err) <= fp.Tol {
			continue
		}
		if err < 0 {
			fc.ModPlast[mid] = mat32.Min(1, fc.ModPlast[mid]*fp.RegUp)
		} else {
			fc.ModPlast[mid] = mat32.Max(fp.PlastFloor, fc.ModPlast[mid]*fp.RegDn)
		}
	}
}

// homeoFactor returns the excitability correction for one module: above 1
// when activity is below target, below 1 when above, capped either way.
func (fc *FeedbackController) homeoFactor(mid ModuleID) float32 {
	fp := &fc.Params
	act := fc.ModAct[mid]
	target := fc.ModHomeo[mid]
	if act < target {
		return 1 + mat32.Min(fp.HomeoGainMax, target-act)
	}
	return 1 - mat32.Min(fp.HomeoGainMax, act-target)
}

// SetAttentionFocus resets every known module's attention to the low
// baseline, applies the given overrides clamped to [0,1], and sets the
// global attention to the mean of the supplied values.
func (fc *FeedbackController) SetAttentionFocus(focus map[ModuleID]float32) {
	fp := &fc.Params
	for _, mid := range fc.Modules {
		fc.ModAttention[mid] = fp.AttnBase
	}
	if len(focus) == 0 {
		return
	}
	keys := make([]ModuleID, 0, len(focus))
	for mid := range focus {
		keys = append(keys, mid)
	}
	sort.Slice(keys, func(i, j int) bool { return moduleIDLess(keys[i], keys[j]) })
	sum := float32(0)
	for _, mid := range keys {
		v := clamp01(focus[mid])
		if _, ok := fc.ModAttention[mid]; ok {
			fc.ModAttention[mid] = v
		}
		sum += v
	}
	fc.Attention = clamp01(sum / float32(len(keys)))
}

// ProvideReward sets the global reward signal, clamped to [-1,1], and
// overrides the per-module reward for the given modules, or for all
// known modules when none are given.
func (fc *FeedbackController) ProvideReward(value float32, modules ...ModuleID) {
	fc.Reward = mat32.Min(1, mat32.Max(-1, value))
	fc.override(fc.ModReward, fc.Reward, modules)
}

// AdjustPlasticity sets the global plasticity rate, clamped to [0,1], and
// overrides the per-module rate for the given modules, or for all known
// modules when none are given.
func (fc *FeedbackController) AdjustPlasticity(rate float32, modules ...ModuleID) {
	fc.Plasticity = clamp01(rate)
	fc.override(fc.ModPlast, fc.Plasticity, modules)
}

// SetHomeostaticTarget sets the global homeostatic activity target,
// clamped to [0,1], and overrides the per-module target for the given
// modules, or for all known modules when none are given.
func (fc *FeedbackController) SetHomeostaticTarget(target float32, modules ...ModuleID) {
	fc.HomeoTarget = clamp01(target)
	fc.override(fc.ModHomeo, fc.HomeoTarget, modules)
}

// override writes value into m for the given subset (ignoring unknown
// ids), or for every known module when the subset is empty.
func (fc *FeedbackController) override(m map[ModuleID]float32, value float32, subset []ModuleID) {
	if len(subset) == 0 {
		for _, mid := range fc.Modules {
			m[mid] = value
		}
		return
	}
	for _, mid := range subset {
		if _, ok := m[mid]; ok {
			m[mid] = value
		}
	}
}

func clamp01(v float32) float32 {
	return mat32.Min(1, mat32.Max(0, v))
}
