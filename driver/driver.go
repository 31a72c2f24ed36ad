// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Package driver implements spec.md §4.6's fixpoint loop: two
// worklists (_work_flow for value()/live_use(), _work_unify for
// type-variable progress), draining DELAY_FRESH/DELAY_RESOLVE between
// rounds, terminating when all four queues are empty.
//
// Grounded on the teacher's iterative rebalancing passes (bart has no
// fixpoint loop of its own, but its insert/delete path's "keep
// recursing down the trie until no more compaction is possible" loop
// shape — see bartnode.go's insert/delete recursion bottoming out —
// is the same "apply a local rewrite, re-check neighbors, repeat until
// stable" discipline this driver generalizes into an explicit worklist.
package driver

import (
	"github.com/flowc-lang/flowc/graph"
	"github.com/flowc-lang/flowc/tvar"
)

// Driver holds the two worklists and runs the fixpoint (spec.md §4.6).
type Driver struct {
	workFlow  []*graph.Node
	workUnify []*graph.Node
	inFlow    map[*graph.Node]bool
	inUnify   map[*graph.Node]bool

	iterations int
}

// New returns an empty driver.
func New() *Driver {
	return &Driver{inFlow: map[*graph.Node]bool{}, inUnify: map[*graph.Node]bool{}}
}

// Reset clears every process-wide piece of shared state the core owns
// (spec.md §5 "reset_to_init0()"): the node id counter and the
// tvar union-find id counter plus its delayed queues. Bits/lattice
// intern tables and the alias/fidx trees are deliberately left alone —
// they grow monotonically across the process lifetime per spec.md §3's
// "never shrinks", so a test harness wanting full isolation must start
// a fresh process, matching the teacher's own stance that hash-cons
// pools are process-wide, not per-run, state.
func Reset() {
	graph.Reset()
	tvar.Reset()
	for k := range tvOwners {
		delete(tvOwners, k)
	}
}

// Enqueue schedules n for value()/live_use() recomputation, deduping
// against nodes already queued.
func (d *Driver) Enqueue(n *graph.Node) {
	if n == nil || d.inFlow[n] {
		return
	}
	d.inFlow[n] = true
	d.workFlow = append(d.workFlow, n)
}

// EnqueueUnify schedules n for type-variable progress.
func (d *Driver) EnqueueUnify(n *graph.Node) {
	if n == nil || d.inUnify[n] {
		return
	}
	d.inUnify[n] = true
	d.workUnify = append(d.workUnify, n)
}

// Iterations returns how many node-pops Run performed, for bounding
// tests against spec.md §8's "N <= nodes * lattice-height" property.
func (d *Driver) Iterations() int { return d.iterations }

// Run drains both worklists and the delayed-fresh/delayed-resolve
// queues to a fixpoint (spec.md §4.6). Each popped node recomputes
// _val via Value(), re-enqueuing every use on change; recomputes _live
// via LiveUse per input, re-enqueuing every changed def; runs
// IdealReduce, re-enqueuing the replacement's users when a rewrite
// fires; and, if it carries a type variable, re-enqueues every
// dependent node in the TV's _deps set whenever the TV's leader changes
// underneath it.
func (d *Driver) Run() {
	for {
		progressed := d.stepFlow()
		progressed = d.stepUnify() || progressed
		progressed = d.drainDelayed() || progressed
		if !progressed && len(d.workFlow) == 0 && len(d.workUnify) == 0 {
			return
		}
	}
}

func (d *Driver) stepFlow() bool {
	progress := false
	for len(d.workFlow) > 0 {
		n := d.workFlow[0]
		d.workFlow = d.workFlow[1:]
		delete(d.inFlow, n)
		d.iterations++

		if replacement := n.IdealReduce(); replacement != nil && replacement != n {
			for _, u := range replacement.Uses() {
				d.Enqueue(u)
			}
			progress = true
			continue
		}

		newVal := n.Value()
		if newVal != n.Val() {
			n.SetVal(newVal)
			for _, u := range n.Uses() {
				d.Enqueue(u)
			}
			progress = true
		}

		for i, def := range n.Defs() {
			if def == nil {
				continue
			}
			newLive := n.LiveUse(i)
			if newLive != def.Live() {
				def.SetLive(newLive)
				d.Enqueue(def)
				progress = true
			}
		}
	}
	return progress
}

func (d *Driver) stepUnify() bool {
	progress := false
	for len(d.workUnify) > 0 {
		n := d.workUnify[0]
		d.workUnify = d.workUnify[1:]
		delete(d.inUnify, n)
		d.iterations++

		tv := n.TV()
		if tv == nil {
			continue
		}
		for _, dep := range tv.Deps() {
			d.EnqueueUnify(depNode(dep))
		}
		progress = true
	}
	return progress
}

// depNode recovers the graph.Node a TV3 dependency entry refers to.
// TV3's Deps() returns *tvar.TV3 values registered via Dep(); the
// driver's callers register the owning Node's own TV3 as its own
// dependent, so a dependency IS already the owning node's TV — callers
// needing cross-node re-enqueue attach node-level bookkeeping
// separately (see Own).
func depNode(tv *tvar.TV3) *graph.Node {
	return tvOwners[tv]
}

var tvOwners = map[*tvar.TV3]*graph.Node{}

// Own records that node owns tv, so that tv.Dep-driven re-enqueues can
// find their way back to a graph.Node for the worklist.
func Own(tv *tvar.TV3, node *graph.Node) { tvOwners[tv] = node }

// drainDelayed runs every pending fresh-unification and records pending
// field resolutions as having been observed, per spec.md §4.6 "Between
// rounds, drain DELAY_FRESH and DELAY_RESOLVE."
func (d *Driver) drainDelayed() bool {
	progress := false
	for _, run := range tvar.DrainDelayFresh() {
		if run() {
			progress = true
		}
	}
	if len(tvar.DrainDelayResolve()) > 0 {
		progress = true
	}
	return progress
}
