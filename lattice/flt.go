// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"
	"math"
)

// FltType is the Flt variant of spec.md §3, mirroring [IntType] at
// float widths (32/64).
type FltType struct {
	size    uint8
	isCon   bool
	con     float64
	high    bool
	mayNil  bool
	useNil  bool
	dualPtr *FltType
}

var fltArena = newArena(hashFlt, eqFlt, resetFlt)

func hashFlt(t *FltType) uint64 {
	h := mixHash(fnvOffset, uint64(t.size))
	if t.isCon {
		h = mixHash(h, 1, math.Float64bits(t.con))
	}
	if t.high {
		h = mixHash(h, 2)
	}
	if t.mayNil {
		h = mixHash(h, 3)
	}
	if t.useNil {
		h = mixHash(h, 4)
	}
	return h
}

func eqFlt(a, b *FltType) bool {
	return a.size == b.size && a.isCon == b.isCon && a.con == b.con &&
		a.high == b.high && a.mayNil == b.mayNil && a.useNil == b.useNil
}

func resetFlt(t *FltType) { *t = FltType{} }

// NewFlt interns a non-constant Flt of the given size and polarity.
func NewFlt(size uint8, high bool) *FltType {
	v := fltArena.alloc()
	*v = FltType{size: size, high: high}
	return fltArena.intern(v)
}

// NewFltCon interns the constant Flt con.
func NewFltCon(con float64, size uint8) *FltType {
	v := fltArena.alloc()
	*v = FltType{size: size, isCon: true, con: con}
	return fltArena.intern(v)
}

func (t *FltType) Meet(other Type) Type { return Meet(t, other) }
func (t *FltType) Dual() Type {
	if t.isCon {
		return t
	}
	if t.dualPtr == nil {
		v := fltArena.alloc()
		*v = FltType{size: t.size, high: !t.high, mayNil: t.mayNil, useNil: t.useNil}
		t.dualPtr = fltArena.intern(v)
	}
	return t.dualPtr
}
func (t *FltType) IsCon() bool       { return t.isCon }
func (t *FltType) AboveCenter() bool { return !t.isCon && t.high }
func (t *FltType) withMayNil(v bool) Type {
	n := fltArena.alloc()
	*n = *t
	n.mayNil, n.useNil = v, t.useNil
	return fltArena.intern(n)
}
func (t *FltType) String() string {
	if t.isCon {
		return fmt.Sprintf("%g", t.con)
	}
	polarity := "+"
	if !t.high {
		polarity = "-"
	}
	return fmt.Sprintf("flt%d%s", t.size, polarity)
}

// meetFlt mirrors meetInt, using IEEE bit-equality for constants.
func meetFlt(a, b *FltType) Type {
	if a == b {
		return a
	}
	switch {
	case a.isCon && b.isCon:
		size := a.size
		if b.size > size {
			size = b.size
		}
		v := fltArena.alloc()
		*v = FltType{size: size, high: false}
		return fltArena.intern(v)
	case !a.isCon && a.high && !b.isCon && !b.high:
		size := a.size
		if b.size < size {
			size = b.size
		}
		v := fltArena.alloc()
		*v = FltType{size: size, high: true, mayNil: a.mayNil && b.mayNil, useNil: a.useNil || b.useNil}
		return fltArena.intern(v)
	case !b.isCon && b.high && !a.isCon && !a.high:
		return meetFlt(b, a)
	default:
		size := a.size
		if b.size > size {
			size = b.size
		}
		v := fltArena.alloc()
		*v = FltType{size: size, high: false, mayNil: a.mayNil && b.mayNil, useNil: a.useNil || b.useNil}
		return fltArena.intern(v)
	}
}
