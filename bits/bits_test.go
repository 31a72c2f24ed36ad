// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package bits

import "testing"

// TestLatticeLaws checks spec.md §8 item 1 for a representative sample
// of alias sets.
func TestLatticeLaws(t *testing.T) {
	a := MakeAlias(false, 2, 3)
	b := MakeAlias(false, 3, 4)
	c := MakeAlias(false, 4, 5)

	if got := a.Meet(a); got.c != a.c {
		t.Errorf("meet(a,a) != a")
	}
	if a.Meet(b).c != b.Meet(a).c {
		t.Errorf("meet not commutative")
	}
	lhs := a.Meet(b).Meet(c)
	rhs := a.Meet(b.Meet(c))
	if lhs.c != rhs.c {
		t.Errorf("meet not associative: %v != %v", lhs, rhs)
	}
	if a.Dual().Dual().c != a.c {
		t.Errorf("dual(dual(a)) != a")
	}

	join := a.Join(b)
	want := a.Dual().Meet(b.Dual()).Dual()
	if join.c != want.c {
		t.Errorf("join(a,b) != dual(meet(dual(a), dual(b)))")
	}
}

// TestInternIdentity checks spec.md §8 item 2: equal content shares
// identity.
func TestInternIdentity(t *testing.T) {
	a := MakeAlias(false, 10, 11, 12)
	b := MakeAlias(false, 12, 11, 10)
	if a.c != b.c {
		t.Errorf("two constructions with equal content do not share identity")
	}
}

// TestCanonicalizationParentDominance checks spec.md §8 item 3: a set
// with both a parent and its child set collapses to the parent alone.
func TestCanonicalizationParentDominance(t *testing.T) {
	tree := NewTypeTree()
	parent := uint(2)
	child := tree.Split(parent)
	in := newInterner()

	set := makeSet(tree, in, false, parent, child)
	if set.Test(child) {
		t.Errorf("child bit %d should have been dominated by parent %d", child, parent)
	}
	if !set.Test(parent) {
		t.Errorf("parent bit %d should remain set", parent)
	}
}

// TestClearCollapsesToConstant checks spec.md §8 item 3: single-bit
// results are always in constant form.
func TestClearCollapsesToConstant(t *testing.T) {
	a := MakeAlias(false, 20, 21)
	cleared := a.Clear(20)
	if !cleared.IsCon() {
		t.Errorf("expected constant form after clearing down to one bit")
	}
	if bit, ok := cleared.Abit(); !ok || bit != 21 {
		t.Errorf("expected constant {21}, got abit=%d ok=%v", bit, ok)
	}
}
