// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package tvar

import (
	"testing"

	"github.com/flowc-lang/flowc/lattice"
)

func TestFindIdempotent(t *testing.T) {
	a, b := NewLeaf(), NewLeaf()
	Union(a, b)
	fa := Find(a)
	if Find(fa) != fa {
		t.Fatalf("find(find(x)) != find(x)")
	}
	if Find(a) != Find(b) {
		t.Fatalf("post-union leaders differ")
	}
}

func TestUnionLowerIntoHigher(t *testing.T) {
	a, b := NewLeaf(), NewLeaf()
	leader := Union(a, b)
	if leader.id != max(a.id, b.id) {
		t.Fatalf("expected higher id to survive as leader, got %d", leader.id)
	}
}

func TestUnifySymmetry(t *testing.T) {
	a := NewBase(lattice.NewIntCon(5))
	b := NewLeaf()
	r1, _ := Unify(a, b)
	Reset()
	a2 := NewBase(lattice.NewIntCon(5))
	b2 := NewLeaf()
	r2, _ := Unify(b2, a2)
	if r1.tag != r2.tag {
		t.Fatalf("unify(a,b) and unify(b,a) disagree on result tag: %v vs %v", r1.tag, r2.tag)
	}
}

func TestLeafAbsorb(t *testing.T) {
	leaf := NewLeaf()
	base := NewBase(lattice.NewIntCon(7))
	result, progress := Unify(leaf, base)
	if !progress {
		t.Fatalf("expected progress absorbing a leaf")
	}
	if result.tag != Base {
		t.Fatalf("expected leaf to absorb into Base, got %v", result.tag)
	}
}

func TestNilViolation(t *testing.T) {
	n := NewNil()
	other := NewLeaf()
	other.useNil = true
	result, _ := Unify(n, other)
	if result.tag != Err {
		t.Fatalf("expected simultaneous may_nil/use_nil to produce Err, got %v", result.tag)
	}
}

func TestStructFieldUnify(t *testing.T) {
	xa := NewBase(lattice.NewIntCon(1))
	sa := NewStruct(true, StructField{"x", xa})

	xb := NewLeaf()
	yb := NewBase(lattice.NewIntCon(2))
	sb := NewStruct(true, StructField{"x", xb}, StructField{"y", yb})

	result, progress := Unify(sa, sb)
	if !progress {
		t.Fatalf("expected progress")
	}
	if result.tag != Struct {
		t.Fatalf("expected Struct, got %v", result.tag)
	}
	if _, ok := result.Field("y"); !ok {
		t.Fatalf("expected open struct union to carry field y through")
	}
}

func TestFreshUnifyPolymorphicIdentity(t *testing.T) {
	// S6: id = \x.x used at int and at ptr.
	param := NewLeaf()
	idScheme := NewLambda([]*TV3{param}, param)

	intSite := NewBase(lattice.NewIntCon(3))
	intRet := NewLeaf()
	monoInt := NewLambda([]*TV3{intSite}, intRet)

	clone, _ := FreshUnify(idScheme, monoInt, nil)
	if clone.tag != Lambda {
		t.Fatalf("expected Lambda clone, got %v", clone.tag)
	}
	if Find(clone.Args()[0]) != Find(clone.Args()[1]) {
		t.Fatalf("expected fresh instance to keep param==ret structurally unified")
	}
}

func TestTrialUnifyNoSideEffects(t *testing.T) {
	a := NewBase(lattice.NewIntCon(1))
	b := NewBase(lattice.NewIntCon(1))
	if !TrialUnify(a, b) {
		t.Fatalf("expected trial unify of equal bases to succeed")
	}
	if Find(a) == Find(b) {
		t.Fatalf("trial unify must not mutate union-find state")
	}
}

func max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
