// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"container/heap"
	"sort"

	"github.com/goki/mat32"
	"github.com/nsys/spikenet/ring"
)

// TransportParams contains the spike-routing parameters.
type TransportParams struct {

	// maximum number of deliveries per tick
	Bandwidth int `def:"1000"`

	// queued events older than this are discarded, never delivered
	MaxAge float32 `def:"50"`

	// per-delivery increment of an edge's learned strength
	LearnRate float32 `def:"0.01"`

	// number of most-congested edges considered by OptimizeRouting
	OptTopN int `def:"5"`

	// multiplicative priority boost applied to bypass edges
	Reweight float32 `def:"1.1"`
}

func (tp *TransportParams) Defaults() {
	tp.Bandwidth = 1000
	tp.MaxAge = 50
	tp.LearnRate = 0.01
	tp.OptTopN = 5
	tp.Reweight = 1.1
}

func (tp *TransportParams) Update() {
}

// Edge is one directed connection from a source module.
type Edge struct {
	Target   ModuleID
	Priority float32
}

// EdgeKey identifies a directed module pair for strength and congestion
// accounting.
type EdgeKey struct {
	Source ModuleID
	Target ModuleID
}

func edgeKeyLess(a, b EdgeKey) bool {
	if a.Source != b.Source {
		return moduleIDLess(a.Source, b.Source)
	}
	return moduleIDLess(a.Target, b.Target)
}

// Event is one queued transmission.
type Event struct {
	Priority float32
	Time     float32
	Source   ModuleID
	Target   ModuleID
	Payload  int32

	// insertion order, the final tie-breaker for deterministic delivery
	seq int64
}

// Delivery is one delivered transmission.
type Delivery struct {
	Target  ModuleID
	Source  ModuleID
	Payload int32
}

// TickStats are the per-drain accounting counters.  Every drain satisfies
// Delivered + Stale + Remaining == Pending, and Pending equals the prior
// Remaining plus Enqueued.
type TickStats struct {

	// events enqueued since the previous drain
	Enqueued int

	// queue length at the start of the drain
	Pending int

	// events delivered within bandwidth
	Delivered int

	// events discarded as older than MaxAge (not counted against bandwidth)
	Stale int

	// events left queued after the bandwidth was exhausted
	Remaining int
}

// eventQueue is a max-priority heap: highest priority first, ties broken
// by earliest timestamp, then by insertion order.
type eventQueue []Event

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	if eq[i].Priority != eq[j].Priority {
		return eq[i].Priority > eq[j].Priority
	}
	if eq[i].Time != eq[j].Time {
		return eq[i].Time < eq[j].Time
	}
	return eq[i].seq < eq[j].seq
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) { *eq = append(*eq, x.(Event)) }

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	ev := old[n-1]
	*eq = old[:n-1]
	return ev
}

// Transport is the priority-queue spike router between modules: bandwidth
// limited, with aging, per-edge learned strength, congestion accounting,
// and congestion-driven reweighting.
type Transport struct {

	// routing parameters
	Params TransportParams `view:"inline"`

	// directed edges by source, in registration order; duplicate edges
	// between the same pair are kept
	Conns map[ModuleID][]Edge

	// sources in first-registration order, for deterministic iteration
	Sources []ModuleID

	// learned per-edge strength, incremented on every delivery
	Strength map[EdgeKey]float32

	// per-edge undelivered counts for the last drain
	CongTick map[EdgeKey]int

	// cumulative per-edge undelivered counts
	Cong map[EdgeKey]int

	// recent queue lengths, one entry per drain
	Traffic *ring.Buffer[int]

	// accounting for the last drain
	LastTick TickStats

	queue    eventQueue
	seq      int64
	enqueued int
}

// NewTransport returns a new transport with the given bandwidth and
// traffic-history retention.
func NewTransport(bandwidth, histLen int) *Transport {
	tr := &Transport{
		Conns:    make(map[ModuleID][]Edge),
		Strength: make(map[EdgeKey]float32),
		CongTick: make(map[EdgeKey]int),
		Cong:     make(map[EdgeKey]int),
		Traffic:  ring.New[int](histLen),
	}
	tr.Params.Defaults()
	tr.Params.Bandwidth = bandwidth
	return tr
}

// AddConnection registers a directed edge with the given base priority.
// Multiple edges between the same pair are not deduplicated.
func (tr *Transport) AddConnection(source, target ModuleID, basePriority float32) {
	if _, ok := tr.Conns[source]; !ok {
		tr.Sources = append(tr.Sources, source)
	}
	tr.Conns[source] = append(tr.Conns[source], Edge{Target: target, Priority: basePriority})
}

// findEdge returns the base priority of the first edge source -> target
// in registration order.
func (tr *Transport) findEdge(source, target ModuleID) (float32, bool) {
	for _, e := range tr.Conns[source] {
		if e.Target == target {
			return e.Priority, true
		}
	}
	return 0, false
}

// TransmitSpike queues a spike for transmission.  Returns false, without
// queuing, when no edge source -> target exists.  The queued priority is
// the edge's base priority scaled by urgency and importance.
func (tr *Transport) TransmitSpike(source, target ModuleID, payload int32, timestamp, urgency, importance float32) bool {
	base, ok := tr.findEdge(source, target)
	if !ok {
		return false
	}
	heap.Push(&tr.queue, Event{
		Priority: base * urgency * importance,
		Time:     timestamp,
		Source:   source,
		Target:   target,
		Payload:  payload,
		seq:      tr.seq,
	})
	tr.seq++
	tr.enqueued++
	return true
}

// QueueLen returns the number of currently queued events.
func (tr *Transport) QueueLen() int {
	return len(tr.queue)
}

// Update drains the queue for one tick: events are popped in priority
// order up to the bandwidth cap.  Stale events (older than MaxAge) are
// discarded without delivery and without consuming bandwidth.  Each
// delivery increments the edge's learned strength.  Whatever remains
// after the cap is tallied into the per-edge congestion counters, both
// for this tick and cumulatively.
func (tr *Transport) Update(ctx *Context) []Delivery {
	tr.Traffic.Push(len(tr.queue))
	stats := TickStats{Enqueued: tr.enqueued, Pending: len(tr.queue)}
	tr.enqueued = 0
	for k := range tr.CongTick {
		delete(tr.CongTick, k)
	}

	bw := tr.Params.Bandwidth
	var delivered []Delivery
	for len(tr.queue) > 0 && bw > 0 {
		ev := heap.Pop(&tr.queue).(Event)
		if ctx.Time-ev.Time > tr.Params.MaxAge {
			stats.Stale++
			continue
		}
		delivered = append(delivered, Delivery{Target: ev.Target, Source: ev.Source, Payload: ev.Payload})
		bw--
		tr.Strength[EdgeKey{ev.Source, ev.Target}] += tr.Params.LearnRate
		stats.Delivered++
	}

	for _, ev := range tr.queue {
		key := EdgeKey{ev.Source, ev.Target}
		tr.CongTick[key]++
		tr.Cong[key]++
	}
	stats.Remaining = len(tr.queue)
	tr.LastTick = stats
	return delivered
}

// OptimalRoute returns a route from source to target: the direct edge as
// a two-hop path if one exists, otherwise the first path discovered by
// breadth-first search over the connection graph in registration order.
// Returns (nil, false) when target is unreachable; callers treat that as
// "skip this delivery", never as fatal.
func (tr *Transport) OptimalRoute(source, target ModuleID) ([]ModuleID, bool) {
	if _, ok := tr.findEdge(source, target); ok {
		return []ModuleID{source, target}, true
	}
	type hop struct {
		node ModuleID
		path []ModuleID
	}
	visited := map[ModuleID]bool{source: true}
	queue := []hop{{node: source, path: []ModuleID{source}}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range tr.Conns[cur.node] {
			if e.Target == target {
				return append(append([]ModuleID{}, cur.path...), e.Target), true
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				path := append(append([]ModuleID{}, cur.path...), e.Target)
				queue = append(queue, hop{node: e.Target, path: path})
			}
		}
	}
	return nil, false
}

// OptimizeRouting reweights around the most congested edges: for each of
// the top OptTopN edges by cumulative congestion, every module reachable
// from the source and connected to the target forms a two-hop bypass, and
// both constituent edges get their priority scaled by Reweight.
func (tr *Transport) OptimizeRouting() {
	type congEntry struct {
		key EdgeKey
		n   int
	}
	ents := make([]congEntry, 0, len(tr.Cong))
	for k, n := range tr.Cong {
		ents = append(ents, congEntry{key: k, n: n})
	}
	sort.Slice(ents, func(i, j int) bool {
		if ents[i].n != ents[j].n {
			return ents[i].n > ents[j].n
		}
		return edgeKeyLess(ents[i].key, ents[j].key)
	})
	if len(ents) > tr.Params.OptTopN {
		ents = ents[:tr.Params.OptTopN]
	}
	for _, ce := range ents {
		src, tgt := ce.key.Source, ce.key.Target
		for _, mid := range tr.Sources {
			if mid == src || mid == tgt {
				continue
			}
			if _, ok := tr.findEdge(src, mid); !ok {
				continue
			}
			if _, ok := tr.findEdge(mid, tgt); !ok {
				continue
			}
			tr.scalePriority(src, mid)
			tr.scalePriority(mid, tgt)
		}
	}
}

// scalePriority boosts every edge source -> target by the reweight factor.
func (tr *Transport) scalePriority(source, target ModuleID) {
	es := tr.Conns[source]
	for i := range es {
		if es[i].Target == target {
			es[i].Priority *= tr.Params.Reweight
		}
	}
}

// EdgeKeys returns the unique directed module pairs with at least one
// registered edge, in source registration order then edge order.
func (tr *Transport) EdgeKeys() []EdgeKey {
	seen := make(map[EdgeKey]bool)
	var keys []EdgeKey
	for _, src := range tr.Sources {
		for _, e := range tr.Conns[src] {
			key := EdgeKey{Source: src, Target: e.Target}
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// CongestionLevel returns recent queue pressure as a fraction of
// bandwidth, capped at 1.
func (tr *Transport) CongestionLevel() float32 {
	recent := tr.Traffic.Last(10)
	if len(recent) == 0 || tr.Params.Bandwidth <= 0 {
		return 0
	}
	sum := 0
	for _, n := range recent {
		sum += n
	}
	avg := float32(sum) / float32(len(recent))
	return mat32.Min(1, avg/float32(tr.Params.Bandwidth))
}
