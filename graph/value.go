// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/flowc-lang/flowc/lattice"

// Value recomputes n's forward-flow value as a pure function of its
// inputs' current values (spec.md §4.3: "value() is a pure function of
// in(i)._val; it must be monotone downward in the lattice over
// iterations"). It does not mutate n; callers compare the result
// against n.val to detect progress.
func (n *Node) Value() lattice.Type {
	switch n.kind {
	case KindCon:
		return n.con
	case KindStartMem:
		return lattice.AnyMem
	case KindFun:
		return lattice.Ctrl
	case KindIf:
		return n.val // If's 4-valued result lives in ifVal; see IfResult
	case KindNew:
		mem := n.Def(0)
		if mem == nil {
			return lattice.All
		}
		return lattice.NewMemPtr(n.allocAlias, n.allocObj, false)
	case KindRet:
		if rez := n.Def(2); rez != nil {
			return rez.val
		}
		return lattice.All
	case KindParm:
		// A formal parameter's value is the meet of every wired call
		// site's matching argument; resolving that here would require
		// walking the Fun's uses. Value() stays a pure function of
		// n.Def(i), so it reports the conservative top; nothing in the
		// driver narrows a Parm's value from its call sites.
		return lattice.Any
	case KindProj:
		def := n.Def(0)
		if def == nil {
			return lattice.All
		}
		return def.val
	case KindForwardRef:
		if n.fwdState != FwdDefined {
			return lattice.GenericFunPtr
		}
		if def := n.Def(0); def != nil {
			return def.val
		}
		return lattice.All
	case KindCall:
		return lattice.Ctrl
	case KindCallEpi:
		return n.callEpiValue()
	case KindScope:
		if rez := n.Def(1); rez != nil {
			return rez.val
		}
		return lattice.All
	default:
		return lattice.All
	}
}

// IfResult computes spec.md §4.3's 4-valued If output from the
// predicate's nil/sub flags.
func (n *Node) IfResult() IfValue {
	if n.kind != KindIf {
		return IfAny
	}
	ctrl := n.Def(0)
	if ctrl != nil && ctrl.val == lattice.XCtrl {
		return IfAll
	}
	pred := n.Def(1)
	if pred == nil {
		return IfAny
	}
	it, ok := pred.val.(*lattice.IntType)
	if !ok {
		return IfAny
	}
	switch {
	case it.IsCon():
		con, _ := it.Con()
		if con != 0 {
			return IfTrue
		}
		return IfFalse
	case !it.MayNil():
		// Nil excluded: the predicate is guaranteed nonzero, so the
		// false branch (predicate == 0) is unreachable.
		return IfTrue
	default:
		return IfAny
	}
}

// IsCopy implements spec.md §8 S4's "is_copy(1) returns in(0); is_copy(0)
// returns null" for an If resolved to a single live branch.
func (n *Node) IsCopy(branch int) *Node {
	if n.kind != KindIf {
		return nil
	}
	switch n.IfResult() {
	case IfTrue:
		if branch == 1 {
			return n.Def(0)
		}
	case IfFalse:
		if branch == 0 {
			return n.Def(0)
		}
	}
	return nil
}

// LiveUse computes the backward contribution n makes to definition
// def's liveness, given n's current _live (spec.md §4.3 "the backward
// equivalent: given this node's _live, compute the contribution to
// def._live"). Nodes that are pinned (escaped, e.g. Scope) or whose
// kind always consumes an input strongly report lattice.All (fully
// live); everything else defaults to passing its own live value
// through unchanged, which is the conservative fallback pending a
// per-kind liveness rule.
func (n *Node) LiveUse(defIdx int) lattice.Type {
	switch n.kind {
	case KindScope:
		return lattice.All
	case KindCallEpi:
		return lattice.All
	case KindRet:
		if defIdx == 2 {
			return lattice.All
		}
		return n.live
	default:
		if n.live == nil {
			return lattice.Any
		}
		return n.live
	}
}

// IdealReduce performs a local rewrite of n (spec.md §4.3's
// "ideal_reduce()"), returning a replacement node for "rewrite to this
// instead" or nil for "no change". Only the rewrites spec.md names
// explicitly are implemented; everything else is left for the driver's
// general fixpoint to settle via Value/LiveUse alone.
func (n *Node) IdealReduce() *Node {
	switch n.kind {
	case KindIf:
		if c := n.IsCopy(1); c != nil {
			return c
		}
		if c := n.IsCopy(0); c != nil {
			return c
		}
		return nil
	case KindCallEpi:
		return n.tryInline()
	default:
		return nil
	}
}
