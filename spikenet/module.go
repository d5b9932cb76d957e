// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"math/rand"

	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
	"github.com/nsys/spikenet/ring"
)

// InputEvent is one externally addressed spike delivered to a module's
// input layer: the index selects the input unit.
type InputEvent struct {
	Index int32
	Time  float32
}

// OutputEvent is one spike produced by a module's output layer,
// addressed by output index.
type OutputEvent struct {
	Index int32
	Time  float32
}

// Module is a layered group of processing units implementing one
// functional role.  Units are created once at construction, wired
// input -> hidden -> output (plus lateral hidden wiring per type), and
// persist for the run.
type Module struct {

	// structured identity: type and index among modules of that type
	ID ModuleID

	// type-specific configuration, built once from ID.Type
	Params TypeParams

	// valid range for the modulation factor
	ModRange minmax.F32

	// initial weight range for feedforward synapses
	WtInit minmax.F32

	// input layer units, in slot order
	In []*Unit

	// hidden layer units, in slot order
	Hid []*Unit

	// output layer units, in slot order
	Out []*Unit

	// disabled modules process nothing
	Off bool

	// current modulation factor, clamped to ModRange
	Modulation float32

	// recent per-tick activity (fraction of units not Resting)
	ActHist *ring.Buffer[float32]

	// count of delivered events addressed outside the input width,
	// dropped without aborting the tick
	Dropped int
}

// NewModule builds a module with the given layer sizes.  All randomness
// (initial synaptic weights) is drawn from rnd, so construction is
// reproducible for a given generator state.
func NewModule(id ModuleID, nIn, nHid, nOut, histLen int, rnd *rand.Rand) *Module {
	md := &Module{ID: id}
	md.Defaults()
	md.ActHist = ring.New[float32](histLen)
	md.In = md.makeLayer(InputLayer, nIn)
	md.Hid = md.makeLayer(HiddenLayer, nHid)
	md.Out = md.makeLayer(OutputLayer, nOut)
	md.applyTypeParams()
	md.connect(rnd)
	return md
}

// Defaults sets default parameters.
func (md *Module) Defaults() {
	md.Params.Defaults(md.ID.Type)
	md.ModRange = minmax.F32{Min: 0.1, Max: 2}
	md.WtInit = minmax.F32{Min: 0.1, Max: 0.5}
	md.Modulation = 1
}

func (md *Module) makeLayer(lt LayerType, n int) []*Unit {
	us := make([]*Unit, n)
	for i := range us {
		us[i] = NewUnit(UnitID{Module: md.ID, Layer: lt, Index: int32(i)})
	}
	return us
}

// applyTypeParams applies the type-specific dynamics overrides to every
// owned unit.
func (md *Module) applyTypeParams() {
	if md.Params.Tau == 0 && md.Params.Refrac == 0 {
		return
	}
	md.AllUnits(func(un *Unit) {
		if md.Params.Tau > 0 {
			un.Act.Tau = md.Params.Tau
		}
		if md.Params.Refrac > 0 {
			un.Act.Refrac = md.Params.Refrac
		}
	})
}

// connect wires input -> hidden and hidden -> output all-to-all with
// uniform random initial weights, plus lateral hidden -> hidden
// connections (excluding self-loops) for module types that use them.
func (md *Module) connect(rnd *rand.Rand) {
	for _, su := range md.In {
		for _, tu := range md.Hid {
			su.AddSynapse(tu.ID, randWt(rnd, md.WtInit))
		}
	}
	for _, su := range md.Hid {
		for _, tu := range md.Out {
			su.AddSynapse(tu.ID, randWt(rnd, md.WtInit))
		}
	}
	if md.Params.Lateral {
		for i, su := range md.Hid {
			for j, tu := range md.Hid {
				if i == j {
					continue
				}
				su.AddSynapse(tu.ID, randWt(rnd, md.Params.LatWt))
			}
		}
	}
}

func randWt(rnd *rand.Rand, rng minmax.F32) float32 {
	return rng.Min + rnd.Float32()*(rng.Max-rng.Min)
}

// AllUnits calls f on every owned unit, in input, hidden, output order.
func (md *Module) AllUnits(f func(un *Unit)) {
	for _, un := range md.In {
		f(un)
	}
	for _, un := range md.Hid {
		f(un)
	}
	for _, un := range md.Out {
		f(un)
	}
}

// NUnits returns the number of owned units.
func (md *Module) NUnits() int {
	return len(md.In) + len(md.Hid) + len(md.Out)
}

// UnitByID returns the owned unit with the given id, or nil.
func (md *Module) UnitByID(uid UnitID) *Unit {
	if uid.Module != md.ID {
		return nil
	}
	var lay []*Unit
	switch uid.Layer {
	case InputLayer:
		lay = md.In
	case HiddenLayer:
		lay = md.Hid
	case OutputLayer:
		lay = md.Out
	default:
		return nil
	}
	if uid.Index < 0 || int(uid.Index) >= len(lay) {
		return nil
	}
	return lay[uid.Index]
}

// ProcessInput drives one processing pass: deliver the given events to
// the input layer, advance input units, forward their spikes to the
// matching hidden units, advance the hidden layer (lateral spikes are
// buffered into their hidden targets for the next tick), advance the
// output layer, and translate output-unit firing into output indices.
// Events addressed outside the input width are dropped and counted.
func (md *Module) ProcessInput(events []InputEvent, ctx *Context) []OutputEvent {
	if md.Off {
		return nil
	}
	for _, ev := range events {
		if ev.Index < 0 || int(ev.Index) >= len(md.In) {
			md.Dropped++
			continue
		}
		src := UnitID{Module: md.ID, Layer: ExternalLayer, Index: ev.Index}
		md.In[ev.Index].ReceiveSpike(src, ev.Time)
	}

	var toHid []Spike
	for _, un := range md.In {
		toHid = append(toHid, un.Update(ctx)...)
	}
	md.deliver(toHid)

	var fromHid []Spike
	for _, un := range md.Hid {
		fromHid = append(fromHid, un.Update(ctx)...)
	}
	md.deliver(fromHid)

	var out []OutputEvent
	for _, un := range md.Out {
		un.Update(ctx)
		if un.Spike > 0 {
			out = append(out, OutputEvent{Index: un.ID.Index, Time: ctx.Time})
		}
	}

	md.ActHist.Push(md.activity())
	return out
}

// deliver buffers spikes into their owned target units.  Spikes addressed
// elsewhere (foreign module, unknown slot) are ignored.
func (md *Module) deliver(spikes []Spike) {
	for _, sp := range spikes {
		if un := md.UnitByID(sp.Target); un != nil {
			un.ReceiveSpike(sp.Source, sp.Time)
		}
	}
}

// activity returns the instantaneous fraction of owned units not in the
// Resting state.
func (md *Module) activity() float32 {
	var am minmax.AvgMax32
	am.Init()
	i := int32(0)
	md.AllUnits(func(un *Unit) {
		v := float32(0)
		if un.State != Resting {
			v = 1
		}
		am.UpdateVal(v, i)
		i++
	})
	am.CalcAvg()
	return am.Avg
}

// ActivityLevel returns the module's activity level: the mean of the most
// recent activity-history entries (up to 10).
func (md *Module) ActivityLevel() float32 {
	recent := md.ActHist.Last(10)
	if len(recent) == 0 {
		return 0
	}
	sum := float32(0)
	for _, v := range recent {
		sum += v
	}
	return sum / float32(len(recent))
}

// SetModulation clamps the factor to ModRange and rescales every owned
// unit's effective threshold inversely: higher modulation, easier firing.
func (md *Module) SetModulation(factor float32) {
	md.Modulation = mat32.Min(mat32.Max(factor, md.ModRange.Min), md.ModRange.Max)
	md.AllUnits(func(un *Unit) {
		un.Mod = md.Modulation
	})
}

// SetPlasticity applies a plasticity modulation factor to every owned
// unit's STDP step size.
func (md *Module) SetPlasticity(factor float32) {
	factor = mat32.Max(factor, 0)
	md.AllUnits(func(un *Unit) {
		un.PlastMod = factor
	})
}
