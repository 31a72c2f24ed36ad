// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import (
	"github.com/flowc-lang/flowc/bits"
	"github.com/flowc-lang/flowc/lattice"
)

// NewCon builds a constant-value node (spec.md §6 "new_con(ty)").
func NewCon(ty lattice.Type) *Node {
	n := newNode(KindCon)
	n.con = ty
	n.val = ty
	return n
}

// NewIf builds a 2-way branch node over ctrl and a predicate (spec.md
// §6 "new_if(ctrl, pred)").
func NewIf(ctrl, pred *Node) *Node {
	return newNode(KindIf, ctrl, pred)
}

// NewStartMem builds the program's initial memory node (spec.md §4.3
// "New / StartMem: allocation sites that mint alias-scoped memory
// values").
func NewStartMem() *Node {
	n := newNode(KindStartMem)
	n.val = lattice.AnyMem
	return n
}

// NewNew builds an allocation node at the given alias class, wrapping
// obj's shape (spec.md §6 "new_new(alias)").
func NewNew(alias bits.Alias, obj lattice.TypeObj, mem *Node) *Node {
	n := newNode(KindNew, mem)
	n.allocAlias = alias
	n.allocObj = obj
	return n
}

// NewFun builds a function-entry node.
func NewFun() *Node { return newNode(KindFun) }

// NewParm builds the idx'th formal parameter of fun.
func NewParm(fun *Node, idx int) *Node {
	n := newNode(KindParm, fun)
	n.argIdx = idx
	return n
}

// NewRet builds a function's return node, wiring ctrl/mem/result.
func NewRet(ctrl, mem, rez *Node) *Node {
	return newNode(KindRet, ctrl, mem, rez)
}

// NewCall builds a call site (spec.md §6 "new_call(ctrl, mem, fptr,
// args)"; spec.md §4.5 "A Call node carries (ctrl, mem, function-ptr,
// args…)").
func NewCall(ctrl, mem, fptr *Node, args ...*Node) *Node {
	defs := append([]*Node{ctrl, mem, fptr}, args...)
	return newNode(KindCall, defs...)
}

// NewCallEpi builds the merge point of all returns reaching call
// (spec.md §4.5 "A CallEpi is the merge point of all returns reaching
// this call").
func NewCallEpi(call *Node) *Node {
	return newNode(KindCallEpi, call)
}

// NewProj builds a projection of def's idx'th output slot (used for
// Call's per-argument/ctrl/mem projections and tuple unpacking).
func NewProj(def *Node, idx int) *Node {
	n := newNode(KindProj, def)
	n.argIdx = idx
	return n
}

// NewForwardRef builds an undeclared forward reference, to be resolved
// later via Resolve.
func NewForwardRef() *Node {
	n := newNode(KindForwardRef)
	n.fwdState = FwdUndeclared
	n.val = lattice.GenericFunPtr
	return n
}

// Scope marks fwd as lexically in scope (state 0 -> 1).
func (n *Node) Scope() {
	if n.kind == KindForwardRef && n.fwdState == FwdUndeclared {
		n.fwdState = FwdScoped
	}
}

// Resolve binds a ForwardRef to its defining node (state -> 2).
func (n *Node) Resolve(def *Node) {
	if n.kind != KindForwardRef {
		return
	}
	n.AddDef(def)
	n.fwdState = FwdDefined
}

// NewScope builds the program-root Scope node over the final memory
// and result values (spec.md §8's S1/S2 scenarios: "scope =
// Scope(mem=Con(ALLMEM), rez)"). Its own _live is seeded to ANYMEM
// directly rather than computed: Scope is the graph's root, so nothing
// upstream ever supplies it a use-side liveness value the way every
// other node gets one from LiveUse.
func NewScope(mem, rez *Node) *Node {
	n := newNode(KindScope, mem, rez)
	n.Pin()
	n.live = lattice.AnyMem
	return n
}
