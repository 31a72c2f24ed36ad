// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"

	"github.com/flowc-lang/flowc/bits"
)

// MemPtrType is the MemPtr variant of spec.md §3: a pointer into memory,
// carrying the alias classes it may point at and the shape of object
// found there.
type MemPtrType struct {
	aliases bits.Alias
	obj     TypeObj
	mayNil  bool
	useNil  bool
	closed  bool // true once fields are final; see NewMemPtrPlaceholder
	dualPtr *MemPtrType
}

var memPtrArena = newArena(hashMemPtr, eqMemPtr, resetMemPtr)

func hashMemPtr(t *MemPtrType) uint64 {
	h := mixHash(fnvOffset, typeAddr(t.obj))
	for i := range t.aliases.All {
		h = mixHash(h, uint64(i)+11)
	}
	if t.mayNil {
		h = mixHash(h, 1)
	}
	if t.useNil {
		h = mixHash(h, 2)
	}
	return h
}

func eqMemPtr(a, b *MemPtrType) bool {
	return a.aliases.Equal(b.aliases) && a.obj == b.obj && a.mayNil == b.mayNil && a.useNil == b.useNil
}

func resetMemPtr(t *MemPtrType) { *t = MemPtrType{} }

// NewMemPtr interns an acyclic MemPtr. Use [NewMemPtrPlaceholder] for
// pointer/struct cycles instead, since interning a cyclic instance
// against others of equal shape is not supported (spec.md §9's cyclic
// type handling is simplified here to identity-only equality, never
// deep structural dedup across recursive instances — see DESIGN.md).
func NewMemPtr(aliases bits.Alias, obj TypeObj, mayNil bool) *MemPtrType {
	v := memPtrArena.alloc()
	*v = MemPtrType{aliases: aliases, obj: obj, mayNil: mayNil, closed: true}
	return memPtrArena.intern(v)
}

// NewMemPtrPlaceholder returns an open MemPtr suitable for closing a
// Struct↔Ptr↔Struct cycle: build the Struct referencing this
// placeholder by pointer, then call Close once the cycle is known.
func NewMemPtrPlaceholder() *MemPtrType { return &MemPtrType{} }

// Close finalizes a placeholder built by [NewMemPtrPlaceholder]. The
// placeholder's pointer identity is kept (it may already be embedded in
// a cyclic Struct), so it deliberately bypasses arena deduplication.
func (t *MemPtrType) Close(aliases bits.Alias, obj TypeObj, mayNil bool) *MemPtrType {
	t.aliases, t.obj, t.mayNil, t.closed = aliases, obj, mayNil, true
	return t
}

func (t *MemPtrType) Aliases() bits.Alias { return t.aliases }
func (t *MemPtrType) Obj() TypeObj        { return t.obj }
func (t *MemPtrType) MayNil() bool        { return t.mayNil }

func (t *MemPtrType) Meet(other Type) Type { return Meet(t, other) }

func (t *MemPtrType) Dual() Type {
	if t.dualPtr == nil {
		var objDual TypeObj
		if t.obj != nil {
			if d, ok := t.obj.Dual().(TypeObj); ok {
				objDual = d
			}
		}
		v := memPtrArena.alloc()
		*v = MemPtrType{aliases: t.aliases.Dual(), obj: objDual, mayNil: t.mayNil, useNil: t.useNil, closed: true}
		t.dualPtr = memPtrArena.intern(v)
	}
	return t.dualPtr
}

func (t *MemPtrType) IsCon() bool { return false }

func (t *MemPtrType) AboveCenter() bool { return t.aliases.AboveCenter() }

func (t *MemPtrType) withMayNil(v bool) Type {
	n := memPtrArena.alloc()
	*n = *t
	n.mayNil = v
	return memPtrArena.intern(n)
}

func (t *MemPtrType) String() string { return strCtx(t, newPrintCtx()) }

func (t *MemPtrType) strCtx(ctx *printCtx) string {
	nilMark := ""
	if t.mayNil {
		nilMark = "?"
	}
	obj := "<open>"
	if t.obj != nil {
		obj = strCtx(t.obj, ctx)
	}
	return fmt.Sprintf("*%s%s", obj, nilMark)
}

// meetMemPtr implements spec.md §4.2/§4.5's pointer meet: alias sets
// meet, pointed-at objects meet structurally.
func meetMemPtr(a, b *MemPtrType) Type {
	aliases := a.aliases.Meet(b.aliases)
	var obj TypeObj
	switch {
	case a.obj == nil:
		obj = b.obj
	case b.obj == nil:
		obj = a.obj
	default:
		if m, ok := a.obj.Meet(b.obj).(TypeObj); ok {
			obj = m
		}
	}
	v := memPtrArena.alloc()
	*v = MemPtrType{aliases: aliases, obj: obj, mayNil: a.mayNil || b.mayNil, useNil: a.useNil || b.useNil, closed: true}
	return memPtrArena.intern(v)
}
