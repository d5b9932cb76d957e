// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spikenet is the overall repository for the spikenet discrete-time
spiking-computation core, implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* spikenet: the core implementation -- leaky integrate-and-fire processing
units aggregated into function-specific modules, a priority-queue spike
transport layer between modules with congestion tracking and adaptive
reweighting, a neuromodulatory feedback controller, and the System
orchestrator that drives one simulation tick at a time.

* stdp: the spike-timing-dependent plasticity function and its parameters,
shared by all units.

* ring: fixed-capacity ring buffers used for every bounded history in the
system (spike histories, activity traces, transport traffic, execution
records).

The core is single-threaded and deterministic: all randomness flows through
one seeded generator, so the same seed and input sequence reproduce the same
outputs and histories bit-for-bit.  Rendering, interactive controls, CLI
handling, and configuration file loading are left to external consumers of
the System API.
*/
package spikenet
