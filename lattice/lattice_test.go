// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"testing"

	"github.com/flowc-lang/flowc/bits"
)

// sampleTypes returns a representative spread across every variant for
// spec.md §8's testable property 1 ("lattice laws") and property 2
// ("intern identity").
func sampleTypes() []Type {
	fp := NewFunPtr(bits.MakeFidx(false, 1), 2, false, Any, Any)
	mp := NewMemPtr(bits.MakeAlias(false, 1), NewStruct(Field{Label: "x", Type: NewIntCon(1)}), false)
	st := NewStruct(Field{Label: "a", Access: AccessMutable, Type: NewInt(32, false)})
	tp := NewTuple(NewIntCon(1), NewFltCon(2, 64))
	mem := NewMem(NewStruct(Field{Label: "f", Type: Any}))
	return []Type{
		Any, All, Ctrl, XCtrl, Nil, XNil, Scalar,
		NewIntCon(5), NewInt(32, false), NewInt(64, true),
		NewFltCon(1.5, 64), NewFlt(32, false),
		fp, mp, st, tp, mem,
	}
}

// Testable property 1: meet is idempotent, commutative, and
// associative, and join is meet's dual (spec.md §8).
func TestMeetIdempotent(t *testing.T) {
	for _, a := range sampleTypes() {
		if got := Meet(a, a); got != a {
			t.Errorf("meet(%v, %v) = %v, want %v", a, a, got, a)
		}
	}
}

func TestMeetCommutative(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		for _, b := range types {
			if ab, ba := Meet(a, b), Meet(b, a); ab != ba {
				t.Errorf("meet(%v, %v) = %v, meet(%v, %v) = %v: not commutative", a, b, ab, b, a, ba)
			}
		}
	}
}

// Associativity is checked within same-variant families (where each
// meetXxx function's own rules are exercised) plus the full
// heterogeneous cross product (where mismatched variants collapse to
// ALL regardless of grouping, since the top/bottom/scalar/nilable
// shortcuts in [Meet] all fire before any per-variant dispatch).
func TestMeetAssociative(t *testing.T) {
	families := [][]Type{
		{Any, All, Ctrl, XCtrl, Nil, XNil, Scalar},
		{NewIntCon(5), NewIntCon(-5), NewInt(32, false), NewInt(64, true), NewInt(8, false)},
		{NewFltCon(1.5, 64), NewFltCon(-1.5, 32), NewFlt(32, false), NewFlt(64, true)},
		{
			NewFunPtr(bits.MakeFidx(false, 1), 1, false, Any, Any),
			NewFunPtr(bits.MakeFidx(false, 1), 2, true, Any, Any),
			NewFunPtr(bits.MakeFidx(false, 2), 2, false, Any, Any),
		},
	}
	for _, types := range families {
		for _, a := range types {
			for _, b := range types {
				for _, c := range types {
					lhs := Meet(Meet(a, b), c)
					rhs := Meet(a, Meet(b, c))
					if lhs != rhs {
						t.Errorf("meet(meet(%v,%v),%v)=%v != meet(%v,meet(%v,%v))=%v", a, b, c, lhs, a, b, c, rhs)
					}
				}
			}
		}
	}

	// Heterogeneous triples: any mismatch collapses to ALL from either
	// grouping, since All/Any/Scalar/Ctrl/nilable checks in [Meet] all
	// precede the per-variant switch.
	a, b, c := NewIntCon(5), NewFunPtr(bits.MakeFidx(false, 1), 1, false, Any, Any), NewFltCon(1.5, 64)
	if lhs, rhs := Meet(Meet(a, b), c), Meet(a, Meet(b, c)); lhs != rhs {
		t.Errorf("heterogeneous meet not associative: %v != %v", lhs, rhs)
	}
}

func TestDualInvolution(t *testing.T) {
	for _, a := range sampleTypes() {
		if got := a.Dual().Dual(); got != a {
			t.Errorf("dual(dual(%v)) = %v, want %v", a, got, a)
		}
	}
}

func TestJoinViaDualMeetDual(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		for _, b := range types {
			want := a.Dual().Meet(b.Dual()).Dual()
			if got := Join(a, b); got != want {
				t.Errorf("Join(%v,%v) = %v, want dual(meet(dual,dual)) = %v", a, b, got, want)
			}
		}
	}
}

// Testable property 2: interning gives pointer-identical results for
// equal content (spec.md §8).
func TestInternIdentity(t *testing.T) {
	if NewIntCon(42) != NewIntCon(42) {
		t.Fatal("NewIntCon(42) not interned to the same pointer")
	}
	if NewInt(32, true) != NewInt(32, true) {
		t.Fatal("NewInt(32, true) not interned to the same pointer")
	}
	if NewFltCon(3.25, 64) != NewFltCon(3.25, 64) {
		t.Fatal("NewFltCon not interned to the same pointer")
	}
	a := NewFunPtr(bits.MakeFidx(false, 1), 2, false, Any, Any)
	b := NewFunPtr(bits.MakeFidx(false, 1), 2, false, Any, Any)
	if a != b {
		t.Fatal("NewFunPtr not interned to the same pointer")
	}
	s1 := NewStruct(Field{Label: "x", Type: NewIntCon(1)})
	s2 := NewStruct(Field{Label: "x", Type: NewIntCon(1)})
	if s1 != s2 {
		t.Fatal("NewStruct not interned to the same pointer")
	}
	t1 := NewTuple(NewIntCon(1), NewIntCon(2))
	t2 := NewTuple(NewIntCon(1), NewIntCon(2))
	if t1 != t2 {
		t.Fatal("NewTuple not interned to the same pointer")
	}
}

// FunPtr's nargs-narrowing meet rule (spec.md §4.2): when arities
// differ, the narrower side's nargs wins only if it is the low (more
// concrete) value; if the shorter side is high, the longer nargs wins.
func TestFunPtrNargsNarrowing(t *testing.T) {
	shortLow := NewFunPtr(bits.MakeFidx(false, 1), 1, false, Any, Any)
	longHigh := NewFunPtr(bits.MakeFidx(false, 1), 3, true, Any, Any)
	m, ok := Meet(shortLow, longHigh).(*FunPtrType)
	if !ok {
		t.Fatalf("expected *FunPtrType, got %T", Meet(shortLow, longHigh))
	}
	if m.Nargs() != 1 {
		t.Errorf("shorter-is-low: expected nargs=1, got %d", m.Nargs())
	}

	shortHigh := NewFunPtr(bits.MakeFidx(false, 1), 1, true, Any, Any)
	longLow := NewFunPtr(bits.MakeFidx(false, 1), 3, false, Any, Any)
	m2, ok := Meet(shortHigh, longLow).(*FunPtrType)
	if !ok {
		t.Fatalf("expected *FunPtrType, got %T", Meet(shortHigh, longLow))
	}
	if m2.Nargs() != 3 {
		t.Errorf("shorter-is-high: expected nargs=3, got %d", m2.Nargs())
	}
}

// Mem's strong vs. weak update (spec.md §4.2): a store through a
// singleton alias pointer overwrites that class's slot; a store
// through a multi-valued alias meets into every named class instead of
// replacing it.
func TestMemStrongVsWeakStore(t *testing.T) {
	base := NewStruct(Field{Label: "f", Access: AccessMutable, Type: NewIntCon(1)})
	mem := NewMem(base)

	singleton := bits.MakeAlias(false, 2)
	updated := mem.St(singleton, "f", NewIntCon(9))
	got := updated.Ld(singleton)
	st, ok := got.(*StructType)
	if !ok {
		t.Fatalf("expected *StructType, got %T", got)
	}
	f, ok := st.Field("f")
	if !ok || f.Type != Type(NewIntCon(9)) {
		t.Errorf("strong store: expected field f = Int.con(9), got %+v", f)
	}

	multi := bits.MakeAlias(false, 3, 4)
	weak, ok := mem.St(multi, "f", NewIntCon(9)).Ld(multi).(*StructType)
	if !ok {
		t.Fatalf("expected *StructType from weak store")
	}
	wf, ok := weak.Field("f")
	if want := Meet(NewIntCon(1), NewIntCon(9)); !ok || wf.Type != want {
		t.Errorf("weak store: expected field f = meet(1, 9) = %v, got %+v", want, wf)
	}
}
