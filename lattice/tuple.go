// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import "strings"

// TupleType is the Tuple variant of spec.md §3/§4.2: a fixed-arity,
// positional product of types, used for multi-value returns.
type TupleType struct {
	elems   []Type
	dualPtr *TupleType
}

var tupleArena = newArena(hashTuple, eqTuple, resetTuple)

func hashTuple(t *TupleType) uint64 {
	h := mixHash(fnvOffset, uint64(len(t.elems)))
	for _, e := range t.elems {
		h = mixHash(h, typeAddr(e))
	}
	return h
}

func eqTuple(a, b *TupleType) bool {
	if len(a.elems) != len(b.elems) {
		return false
	}
	for i, e := range a.elems {
		if e != b.elems[i] {
			return false
		}
	}
	return true
}

func resetTuple(t *TupleType) { *t = TupleType{} }

// NewTuple interns a fixed-arity tuple type.
func NewTuple(elems ...Type) *TupleType {
	v := tupleArena.alloc()
	*v = TupleType{elems: append([]Type(nil), elems...)}
	return tupleArena.intern(v)
}

func (t *TupleType) Elems() []Type { return t.elems }
func (t *TupleType) Arity() int    { return len(t.elems) }

func (t *TupleType) Meet(other Type) Type { return Meet(t, other) }

func (t *TupleType) Dual() Type {
	if t.dualPtr == nil {
		dualed := make([]Type, len(t.elems))
		for i, e := range t.elems {
			dualed[i] = e.Dual()
		}
		v := tupleArena.alloc()
		*v = TupleType{elems: dualed}
		t.dualPtr = tupleArena.intern(v)
	}
	return t.dualPtr
}

func (t *TupleType) IsCon() bool {
	for _, e := range t.elems {
		if !e.IsCon() {
			return false
		}
	}
	return len(t.elems) > 0
}

func (t *TupleType) AboveCenter() bool {
	for _, e := range t.elems {
		if !e.AboveCenter() {
			return false
		}
	}
	return true
}

func (t *TupleType) String() string { return strCtx(t, newPrintCtx()) }

func (t *TupleType) strCtx(ctx *printCtx) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range t.elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strCtx(e, ctx))
	}
	b.WriteByte(')')
	return b.String()
}

// meetTuple implements spec.md §4.2's "Tuple meet Tuple" rule:
// elementwise meet when arities match; mismatched arities meet at
// bottom since a tuple's shape is part of its identity, not something a
// meet can widen or narrow.
func meetTuple(a, b *TupleType) Type {
	if len(a.elems) != len(b.elems) {
		return All
	}
	elems := make([]Type, len(a.elems))
	for i := range a.elems {
		elems[i] = a.elems[i].Meet(b.elems[i])
	}
	v := tupleArena.alloc()
	*v = TupleType{elems: elems}
	return tupleArena.intern(v)
}
