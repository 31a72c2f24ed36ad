// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import (
	"testing"

	"github.com/flowc-lang/flowc/bits"
	"github.com/flowc-lang/flowc/lattice"
)

// S4: If with nil-excluded predicate (spec.md §8).
func TestIfNilExcludedPredicate(t *testing.T) {
	ctrl := NewFun()
	ctrl.SetVal(lattice.Ctrl)
	pred := NewCon(lattice.NewInt(32, false))
	// XNil meets into a pointer/int-shaped predicate to force mayNil
	// false — "nil excluded" (spec.md §8 S4: "Int(nil=false, sub=true)").
	pred.SetVal(lattice.Meet(pred.con, lattice.XNil))

	n := NewIf(ctrl, pred)
	if got := n.IfResult(); got != IfTrue {
		t.Fatalf("expected IfTrue for a nil-excluded predicate, got %v", got)
	}
	if n.IsCopy(1) != ctrl {
		t.Fatalf("is_copy(1) should return in(0)")
	}
	if n.IsCopy(0) != nil {
		t.Fatalf("is_copy(0) should return null")
	}
}

// S9: wiring round-trip.
func TestWiringRoundTrip(t *testing.T) {
	fidx := uint(7)
	fn := NewFun()
	parm0 := NewParm(fn, 0)
	_ = parm0
	mem := NewStartMem()
	retVal := NewCon(lattice.NewIntCon(5))
	ret := NewRet(fn, mem, retVal)

	ctrl := NewFun()
	callMemN := NewStartMem()
	fptr := NewCon(lattice.NewFunPtr(bits.MakeFidx(false, fidx), 0, false, lattice.Any, lattice.Any))
	call := NewCall(ctrl, callMemN, fptr)
	call.SetFidxs(bits.MakeFidx(false, fidx))

	epi := NewCallEpi(call)

	preDefs := append([]*Node(nil), epi.Defs()...)
	preFunDefs := append([]*Node(nil), fn.Defs()...)

	epi.CheckAndWire(call, func(bit uint) (Callee, bool) {
		if bit != fidx {
			return Callee{}, false
		}
		return Callee{Fidx: bit, Fun: fn, Ret: ret}, true
	}, nil)

	if len(epi.wiredRet) != 1 {
		t.Fatalf("expected exactly one wired Ret, got %d", len(epi.wiredRet))
	}

	epi.Unwire(call, ret)

	if len(epi.Defs()) != len(preDefs) {
		t.Fatalf("CallEpi defs after unwire (%d) don't match pre-wire snapshot (%d)", len(epi.Defs()), len(preDefs))
	}
	if len(fn.Defs()) != len(preFunDefs) {
		t.Fatalf("Fun defs after unwire (%d) don't match pre-wire snapshot (%d)", len(fn.Defs()), len(preFunDefs))
	}
}
