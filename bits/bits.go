// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Package bits implements Bits<B>, the immutable, hash-consed set of
// non-negative integers described in spec.md §3/§4.1: memory alias
// classes and function indices, each organized under a [TypeTree] of
// parent/child bits.
//
// The bit-array carrier is grounded on github.com/bits-and-blooms/bitset
// (the real upstream the teacher's internal/bitset vendored a stripped
// copy of); every mutating bitset.BitSet operation here is performed on
// a private clone before the result is interned, so that identity
// equality (==) holds for structurally equal sets, per spec.md §3
// ("hash is precomputed... so that interned instances compare by
// identity").
package bits

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Carrier is the unexported representation shared by [Alias] and
// [Fidx]. Canonical forms, per spec.md §3:
//
//   - constant form: con >= 0, arr == nil. Represents the singleton {con}.
//   - empty form: empty == true, arr == nil. Represents the zero-bit set.
//   - array form: arr != nil, high selects meet (false) or join (true)
//     polarity.
type Carrier struct {
	con   int
	empty bool
	high  bool
	arr   *bitset.BitSet
	hash  uint64
}

// IsCon reports whether c is a single-bit constant (spec.md §4.1 "is_con").
func (c *Carrier) IsCon() bool { return c.con >= 0 }

// Test reports whether bit i is set.
func (c *Carrier) Test(i uint) bool {
	switch {
	case c.con >= 0:
		return i == uint(c.con)
	case c.empty:
		return false
	default:
		return c.arr.Test(i)
	}
}

// MayNil reports whether bit 0 (the reserved nil bit) is set.
func (c *Carrier) MayNil() bool { return c.Test(0) }

// AboveCenter reports whether c sits above the lattice center line: true
// for join-polarity (high) array forms, false for constants, the empty
// set, and meet-polarity array forms.
func (c *Carrier) AboveCenter() bool { return !c.IsCon() && !c.empty && c.high }

// Abit returns the single bit represented by c, or (0, false) if c does
// not represent exactly one bit (spec.md §4.1 "abit()").
func (c *Carrier) Abit() (uint, bool) {
	if c.con >= 0 {
		return uint(c.con), true
	}
	return 0, false
}

// All iterates the set bit indices of c in ascending order.
func (c *Carrier) All(yield func(uint) bool) {
	if c.con >= 0 {
		yield(uint(c.con))
		return
	}
	if c.empty {
		return
	}
	for i, ok := c.arr.NextSet(0); ok; i, ok = c.arr.NextSet(i + 1) {
		if !yield(i) {
			return
		}
	}
}

// interner is a hash-consing arena: a hash bucket map plus equality
// fallback for collisions, per spec.md §9 ("Hash-consing with
// free-lists").
type interner struct {
	mu    sync.Mutex
	table map[uint64][]*Carrier
}

func newInterner() *interner {
	return &interner{table: make(map[uint64][]*Carrier)}
}

func (in *interner) intern(c *Carrier) *Carrier {
	h := hashCarrier(c)
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, e := range in.table[h] {
		if carrierEqual(e, c) {
			return e
		}
	}
	c.hash = h
	in.table[h] = append(in.table[h], c)
	return c
}

func hashCarrier(c *Carrier) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	mix := func(x uint64) {
		h ^= x
		h *= 1099511628211 // FNV prime
	}
	switch {
	case c.con >= 0:
		mix(1)
		mix(uint64(c.con))
	case c.empty:
		mix(2)
	default:
		mix(3)
		if c.high {
			mix(1)
		}
		for i, ok := c.arr.NextSet(0); ok; i, ok = c.arr.NextSet(i + 1) {
			mix(uint64(i) + 7)
		}
	}
	return h
}

func carrierEqual(a, b *Carrier) bool {
	if a.con != b.con || a.empty != b.empty {
		return false
	}
	if a.con >= 0 || a.empty {
		return true
	}
	if a.high != b.high {
		return false
	}
	ai, aok := a.arr.NextSet(0)
	bi, bok := b.arr.NextSet(0)
	for aok || bok {
		if aok != bok || ai != bi {
			return false
		}
		ai, aok = a.arr.NextSet(ai + 1)
		bi, bok = b.arr.NextSet(bi + 1)
	}
	return true
}

// canonicalize enforces spec.md §4.1's invariants on a freshly-built
// array form, then collapses to constant/empty form if at most one bit
// survives. arr is consumed (mutated in place); callers must pass a
// private clone.
func canonicalize(tree *TypeTree, high bool, arr *bitset.BitSet) *Carrier {
	// "if a parent bit is set, all descendant bits are cleared"
	for changed := true; changed; {
		changed = false
		for i, ok := arr.NextSet(0); ok; i, ok = arr.NextSet(i + 1) {
			if pid, has := tree.parentOf(i); has && arr.Test(pid) {
				arr.Clear(i)
				changed = true
				break
			}
		}
	}

	// "if a parent is clear and closed and all children are set,
	// children collapse to the parent" — the source leaves this path
	// unimplemented (spec.md §9); treated here as an explicit
	// precondition rather than silently mis-canonicalizing.
	for id := uint(0); id < tree.size(); id++ {
		if arr.Test(id) {
			continue
		}
		if tree.isClosedWithAllChildrenIn(id, arr.Test) {
			panic("bits: closed all-children-set collapse is an explicit precondition, not implemented (spec.md §9)")
		}
	}

	var cnt, only uint
	for i, ok := arr.NextSet(0); ok; i, ok = arr.NextSet(i + 1) {
		cnt++
		only = i
		if cnt > 1 {
			break
		}
	}
	switch cnt {
	case 0:
		return &Carrier{con: -1, empty: true}
	case 1:
		return &Carrier{con: int(only)}
	default:
		return &Carrier{con: -1, high: high, arr: arr}
	}
}

func cloneArr(c *Carrier) *bitset.BitSet {
	if c.arr != nil {
		return c.arr.Clone()
	}
	arr := bitset.New(0)
	if c.con >= 0 {
		arr.Set(uint(c.con))
	}
	return arr
}

// meet implements spec.md §4.1's exhaustive meet table.
func meet(tree *TypeTree, in *interner, a, b *Carrier) *Carrier {
	if a == b {
		return a
	}

	aCon, aOk := a.Abit()
	bCon, bOk := b.Abit()

	switch {
	case aOk && bOk:
		// two constants: union into a fresh low-polarity array.
		arr := bitset.New(0)
		arr.Set(aCon)
		arr.Set(bCon)
		return in.intern(canonicalize(tree, false, arr))

	case aOk && !bOk && !b.empty:
		return meetConstSet(tree, in, aCon, b)

	case bOk && !aOk && !a.empty:
		return meetConstSet(tree, in, bCon, a)

	case a.empty:
		return b
	case b.empty:
		return a

	case !a.high && !b.high:
		arr := cloneArr(a)
		other := cloneArr(b)
		unionInPlace(arr, other)
		return in.intern(canonicalize(tree, false, arr))

	case !a.high && b.high:
		return a // TODO(spec.md §9): low-meet-high keeps the documented
		// weaker-than-ideal behavior — return the low set unchanged.

	case a.high && !b.high:
		return b

	default: // a.high && b.high
		if isSubset(a, b) {
			return a
		}
		if isSubset(b, a) {
			return b
		}
		arr := cloneArr(a)
		other := cloneArr(b)
		unionInPlace(arr, other)
		return in.intern(canonicalize(tree, true, arr))
	}
}

// meetConstSet implements "Constant c meet low-set S" / "Constant c
// meet high-set S" from spec.md §4.1.
func meetConstSet(tree *TypeTree, in *interner, c uint, s *Carrier) *Carrier {
	if !s.high {
		if s.Test(c) {
			return s
		}
		arr := cloneArr(s)
		arr.Set(c)
		return in.intern(canonicalize(tree, false, arr))
	}
	if s.Test(c) {
		arr := bitset.New(0)
		arr.Set(c)
		return in.intern(canonicalize(tree, false, arr))
	}
	e, _ := s.arr.NextSet(0)
	arr := bitset.New(0)
	arr.Set(c)
	arr.Set(e)
	return in.intern(canonicalize(tree, false, arr))
}

func unionInPlace(dst, src *bitset.BitSet) {
	for i, ok := src.NextSet(0); ok; i, ok = src.NextSet(i + 1) {
		dst.Set(i)
	}
}

func isSubset(a, b *Carrier) bool {
	for i, ok := a.arr.NextSet(0); ok; i, ok = a.arr.NextSet(i + 1) {
		if !b.arr.Test(i) {
			return false
		}
	}
	return true
}

// dual implements spec.md §4.1's dual rule: constants are self-dual;
// array forms flip polarity with the same bit pattern.
func dual(in *interner, a *Carrier) *Carrier {
	if a.IsCon() || a.empty {
		return a
	}
	flipped := &Carrier{con: -1, high: !a.high, arr: a.arr.Clone()}
	return in.intern(flipped)
}

// join implements join(a,b) = dual(meet(dual(a), dual(b))), the
// definition spec.md §8 requires test suites to verify.
func join(tree *TypeTree, in *interner, a, b *Carrier) *Carrier {
	return dual(in, meet(tree, in, dual(in, a), dual(in, b)))
}

// clear implements spec.md §4.1's clear(i) as a canonicalizing
// reconstruction rather than in-place mutation, preserving immutability.
func clearBit(tree *TypeTree, in *interner, a *Carrier, i uint) *Carrier {
	if !a.Test(i) {
		return a
	}
	arr := cloneArr(a)
	arr.Clear(i)
	return in.intern(canonicalize(tree, a.high, arr))
}

// makeConst interns the singleton {bit}.
func makeConst(in *interner, bit uint) *Carrier {
	return in.intern(&Carrier{con: int(bit)})
}

// makeSet interns the canonicalized set of bits under the given
// polarity.
func makeSet(tree *TypeTree, in *interner, high bool, bits ...uint) *Carrier {
	arr := bitset.New(0)
	for _, b := range bits {
		arr.Set(b)
	}
	return in.intern(canonicalize(tree, high, arr))
}
