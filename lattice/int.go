// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import "fmt"

// IntType is the Int variant of spec.md §3: a bit-sized integer,
// optionally a known constant, with high/low lattice polarity and
// nilable flags.
type IntType struct {
	size    uint8 // one of 1, 8, 16, 32, 64
	isCon   bool
	con     int64
	high    bool
	mayNil  bool
	useNil  bool
	dualPtr *IntType
}

var intArena = newArena(hashInt, eqInt, resetInt)

func hashInt(t *IntType) uint64 {
	h := mixHash(fnvOffset, uint64(t.size))
	if t.isCon {
		h = mixHash(h, 1, uint64(t.con))
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

func eqInt(a, b *IntType) bool {
	return a.size == b.size && a.isCon == b.isCon && a.con == b.con &&
		a.high == b.high && a.mayNil == b.mayNil && a.useNil == b.useNil
}

func resetInt(t *IntType) { *t = IntType{} }

// NewInt interns a non-constant Int of the given size and polarity.
func NewInt(size uint8, high bool) *IntType {
	v := intArena.alloc()
	*v = IntType{size: size, high: high}
	return intArena.intern(v)
}

// NewIntCon interns the constant Int con, sized to fit.
func NewIntCon(con int64) *IntType {
	v := intArena.alloc()
	*v = IntType{size: intConSize(con), isCon: true, con: con}
	return intArena.intern(v)
}

func intConSize(con int64) uint8 {
	u := uint64(con)
	if con < 0 {
		u = uint64(-con)
	}
	switch {
	case u < 1<<7:
		return 8
	case u < 1<<15:
		return 16
	case u < 1<<31:
		return 32
	default:
		return 64
	}
}

func (t *IntType) Meet(other Type) Type { return Meet(t, other) }
func (t *IntType) Dual() Type {
	if t.isCon {
		return t
	}
	if t.dualPtr == nil {
		v := intArena.alloc()
		*v = IntType{size: t.size, high: !t.high, mayNil: t.mayNil, useNil: t.useNil}
		t.dualPtr = intArena.intern(v)
	}
	return t.dualPtr
}
func (t *IntType) IsCon() bool       { return t.isCon }
func (t *IntType) AboveCenter() bool { return !t.isCon && t.high }
func (t *IntType) MayNil() bool      { return t.mayNil }
func (t *IntType) UseNil() bool      { return t.useNil }
func (t *IntType) Con() (int64, bool) { return t.con, t.isCon }
func (t *IntType) withMayNil(v bool) Type {
	n := intArena.alloc()
	*n = *t
	n.mayNil, n.useNil = v, t.useNil
	return intArena.intern(n)
}
func (t *IntType) String() string {
	if t.isCon {
		return fmt.Sprintf("%d", t.con)
	}
	polarity := "+"
	if !t.high {
		polarity = "-"
	}
	return fmt.Sprintf("int%d%s", t.size, polarity)
}

// meetInt implements spec.md §4.2's "Int meet Int" rule.
func meetInt(a, b *IntType) Type {
	if a == b {
		return a
	}

	switch {
	case !a.isCon && a.high && !b.isCon && !b.high:
		return meetIntHighLow(a, b)
	case !b.isCon && b.high && !a.isCon && !a.high:
		return meetIntHighLow(b, a)
	case a.isCon && !b.isCon && b.high:
		return meetIntConHigh(a, b)
	case b.isCon && !a.isCon && a.high:
		return meetIntConHigh(b, a)
	}

	// otherwise: widen to the wider of the two effective sizes, drop
	// constant-ness, AND nil flags together.
	size := effSize(a)
	if s := effSize(b); s > size {
		size = s
	}
	v := intArena.alloc()
	*v = IntType{
		size:   size,
		high:   false,
		mayNil: a.mayNil && b.mayNil,
		useNil: a.useNil || b.useNil,
	}
	return intArena.intern(v)
}

func effSize(t *IntType) uint8 {
	if t.isCon {
		return intConSize(t.con)
	}
	return t.size
}

// "If either is high and not a constant, the result is the narrower
// bit-size and high."
func meetIntHighLow(high, low *IntType) Type {
	size := high.size
	if low.size < size {
		size = low.size
	}
	v := intArena.alloc()
	*v = IntType{size: size, high: true, mayNil: high.mayNil && low.mayNil, useNil: high.useNil || low.useNil}
	return intArena.intern(v)
}

// "If one is a constant and the other is high with compatible nil/sub
// flags and no wider than the other, keep the constant."
func meetIntConHigh(con, high *IntType) Type {
	if effSize(con) <= high.size && con.mayNil == high.mayNil && con.useNil == high.useNil {
		return con
	}
	size := effSize(con)
	if high.size > size {
		size = high.size
	}
	v := intArena.alloc()
	*v = IntType{size: size, high: false, mayNil: con.mayNil && high.mayNil, useNil: con.useNil || high.useNil}
	return intArena.intern(v)
}
