// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/flowc-lang/flowc/lattice"

// Ctrl/Mem/Arg projection slot indices within a Call's defs.
const (
	callCtrl = 0
	callMem  = 1
	callFptr = 2
	callArg0 = 3
)

// Callee is a resolved callee considered for wiring: its fidx, its Fun
// entry node and its Ret node.
type Callee struct {
	Fidx uint
	Fun  *Node
	Ret  *Node
}

// wired tracks, per CallEpi, which fidx bits are currently wired (have
// a live Ret edge), since bits.Fidx itself carries no wiring state.
func (n *Node) isWired(fidx uint) bool {
	for _, r := range n.wiredRet {
		if r != nil && r.wiredFidx == fidx {
			return true
		}
	}
	return false
}

// CheckAndWire implements spec.md §4.5's "check_and_wire()": for every
// fidx in call's resolved set other than the reserved bits 0/1 that is
// not already wired, that resolve maps to a Fun and Ret, and that passes
// goodCall (when non-nil), wire an edge from call into callee's Fun and
// a back-edge from callee's Ret into this CallEpi. Split-tree parents and
// forward refs are not filtered out here; only resolve can refuse them.
// No memory or per-argument projection nodes are built.
func (n *Node) CheckAndWire(call *Node, resolve func(fidx uint) (Callee, bool), goodCall func(call *Node, callee Callee) bool) {
	if n.kind != KindCallEpi {
		return
	}
	for bit := range call.fidxs.All {
		if bit == 0 || bit == 1 {
			continue // nil / "any" sentinel bits are never directly wired
		}
		if n.isWired(bit) {
			continue
		}
		callee, ok := resolve(bit)
		if !ok || callee.Fun == nil || callee.Ret == nil {
			continue
		}
		if goodCall != nil && !goodCall(call, callee) {
			continue
		}
		n.wire(call, callee)
	}
}

func (n *Node) wire(call *Node, callee Callee) {
	callee.Fun.AddDef(call) // control projection: Call into callee's Fun
	callee.Ret.wiredFidx = callee.Fidx
	n.wiredRet = append(n.wiredRet, callee.Ret)
	n.AddDef(callee.Ret)
}

// Unwire implements spec.md §4.5's "unwire(call, ret)": removes both
// the Call→Fun control edge and the Ret→CallEpi back-edge, used when a
// sharpened fidx set excludes a previously wired callee.
func (n *Node) Unwire(call *Node, ret *Node) {
	if n.kind != KindCallEpi {
		return
	}
	for i, d := range n.defs {
		if d == ret {
			n.RemoveDef(i)
			break
		}
	}
	for i, r := range n.wiredRet {
		if r == ret {
			n.wiredRet = append(n.wiredRet[:i], n.wiredRet[i+1:]...)
			break
		}
	}
	for i, d := range ret.fun().defs {
		if d == call {
			ret.fun().RemoveDef(i)
			break
		}
	}
}

func (n *Node) fun() *Node {
	// A Ret's governing Fun is its first control input by convention
	// (NewFun has no defs of its own; the Ret's ctrl input chains back
	// to it through the function body).
	if len(n.defs) == 0 {
		return nil
	}
	cur := n.defs[0]
	for cur != nil && cur.kind != KindFun {
		if len(cur.defs) == 0 {
			return nil
		}
		cur = cur.defs[0]
	}
	return cur
}

// callEpiValue implements spec.md §4.5's CallEpi value rule: freeze at
// the prior value if any fidx in the call's set other than the reserved
// bits 0/1 is unwired (to avoid non-monotone backslide across a
// parent-to-children split; split-tree parents are not told apart from
// leaves here, so a parent bit in the set must be wired too); otherwise
// meet the returns of every wired callee still in the set, skipping a
// wired Ret that has no value yet.
func (n *Node) callEpiValue() lattice.Type {
	call := n.Def(0)
	if call == nil || len(n.wiredRet) == 0 {
		if n.val != nil {
			return n.val
		}
		return lattice.Any
	}
	for bit := range call.fidxs.All {
		if bit == 0 || bit == 1 {
			continue
		}
		if !n.isWired(bit) {
			n.frozen = true
			if n.val != nil {
				return n.val
			}
			return lattice.Any
		}
	}
	n.frozen = false
	result := lattice.Type(lattice.Any)
	for _, r := range n.wiredRet {
		if r.val == nil || !call.fidxs.Test(r.wiredFidx) {
			continue
		}
		result = result.Meet(r.val)
	}
	return result
}
