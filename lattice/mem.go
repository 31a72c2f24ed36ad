// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowc-lang/flowc/bits"
)

// MemType is the Mem variant of spec.md §3/§4.2: abstract store state,
// a sparse per-alias-class mapping to the [TypeObj] found at that class,
// plus a default slot (alias bit 1, "AllAlias") for classes not yet
// split out. Mirrors the teacher's popcount-compressed sparse array
// (bart/internal/sparse/array.go) conceptually — rank-addressed storage
// with a default — but keyed by a plain Go map: flow types are
// hash-consed once and meet far more often than mutated, so the
// array's compaction work isn't worth paying on every Meet.
type MemType struct {
	any     bool
	byAlias map[uint]TypeObj
	dualPtr *MemType
}

var memArena = newArena(hashMem, eqMem, resetMem)

func hashMem(t *MemType) uint64 {
	h := fnvOffset
	if t.any {
		h = mixHash(h, 1)
	}
	keys := sortedMemKeys(t)
	for _, k := range keys {
		h = mixHash(h, uint64(k), typeAddr(t.byAlias[k]))
	}
	return h
}

func sortedMemKeys(t *MemType) []uint {
	keys := make([]uint, 0, len(t.byAlias))
	for k := range t.byAlias {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func eqMem(a, b *MemType) bool {
	if a.any != b.any || len(a.byAlias) != len(b.byAlias) {
		return false
	}
	for k, v := range a.byAlias {
		if b.byAlias[k] != v {
			return false
		}
	}
	return true
}

func resetMem(t *MemType) { *t = MemType{} }

// AnyMem is the top of the Mem sub-lattice: every alias class unknown.
var AnyMem = func() *MemType {
	v := memArena.alloc()
	*v = MemType{any: true}
	return memArena.intern(v)
}()

// NewMem interns a Mem with an explicit default object for the AllAlias
// class (bit 1) and no per-class overrides.
func NewMem(def TypeObj) *MemType {
	bit, _ := bits.AllAlias.Abit()
	v := memArena.alloc()
	*v = MemType{byAlias: map[uint]TypeObj{bit: def}}
	return memArena.intern(v)
}

func (t *MemType) Meet(other Type) Type { return Meet(t, other) }

func (t *MemType) Dual() Type {
	if t.dualPtr == nil {
		dualed := make(map[uint]TypeObj, len(t.byAlias))
		for k, v := range t.byAlias {
			if d, ok := v.Dual().(TypeObj); ok {
				dualed[k] = d
			}
		}
		n := memArena.alloc()
		*n = MemType{any: !t.any, byAlias: dualed}
		t.dualPtr = memArena.intern(n)
	}
	return t.dualPtr
}

func (t *MemType) IsCon() bool      { return false }
func (t *MemType) AboveCenter() bool { return !t.any }

func (t *MemType) String() string { return strCtx(t, newPrintCtx()) }

func (t *MemType) strCtx(ctx *printCtx) string {
	if t.any {
		return "mem<any>"
	}
	var b strings.Builder
	b.WriteString("mem{")
	keys := sortedMemKeys(t)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d:%s", k, strCtx(t.byAlias[k], ctx))
	}
	b.WriteByte('}')
	return b.String()
}

// defaultObj returns the fallback object for classes with no specific
// entry: the AllAlias (bit 1) slot if present, else nil.
func (t *MemType) defaultObj() TypeObj {
	if t.byAlias == nil {
		return nil
	}
	bit, _ := bits.AllAlias.Abit()
	return t.byAlias[bit]
}

// Ld implements spec.md §4.6's memory load: the meet of every alias
// class ptr may name, falling back to the default slot for classes with
// no specific entry. A ptr naming more than one class returns the
// conservative meet across all of them, matching imprecise-alias
// semantics.
func (t *MemType) Ld(ptr bits.Alias) TypeObj {
	if t.any {
		return nil
	}
	var result Type
	found := false
	for bit := range ptr.All {
		obj, ok := t.byAlias[bit]
		if !ok {
			obj = t.defaultObj()
			if obj == nil {
				continue
			}
		}
		if !found {
			result, found = obj, true
			continue
		}
		result = result.Meet(obj)
	}
	if !found {
		return nil
	}
	if r, ok := result.(TypeObj); ok {
		return r
	}
	return nil
}

// St implements spec.md §4.6's memory store: assign field on every
// alias class ptr names. A singleton ptr (exactly one bit) gets a
// strong update (the field is overwritten); a ptr naming more than one
// class gets a weak update (the field is met with its prior value in
// each class it may alias), since a store through an imprecise pointer
// must remain sound for every concrete pointer it could be.
func (t *MemType) St(ptr bits.Alias, field string, val Type) *MemType {
	if t.any {
		return t
	}
	byAlias := make(map[uint]TypeObj, len(t.byAlias))
	for k, v := range t.byAlias {
		byAlias[k] = v
	}
	_, strong := ptr.Abit()
	for bit := range ptr.All {
		cur, ok := byAlias[bit]
		if !ok {
			cur = t.defaultObj()
		}
		updated := storeField(cur, field, val, strong)
		if updated != nil {
			byAlias[bit] = updated
		}
	}
	v := memArena.alloc()
	*v = MemType{byAlias: byAlias}
	return memArena.intern(v)
}

func storeField(cur TypeObj, field string, val Type, strong bool) TypeObj {
	s, ok := cur.(*StructType)
	if !ok {
		return cur
	}
	f, ok := s.Field(field)
	if !ok {
		return cur
	}
	newVal := val
	if !strong {
		newVal = f.Type.Meet(val)
	}
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	for i, g := range fields {
		if g.Label == field {
			fields[i] = Field{Label: g.Label, Access: g.Access, Type: newVal}
		}
	}
	if s.open {
		return NewOpenStruct(fields...)
	}
	return NewStruct(fields...)
}

// meetMem implements spec.md §4.2's "Mem meet Mem" rule: default-slot
// meet, then per-class meet over the union of both sides' explicit
// classes (falling back to each side's default where only one side has
// an explicit entry).
func meetMem(a, b *MemType) Type {
	if a.any {
		return b
	}
	if b.any {
		return a
	}
	byAlias := make(map[uint]TypeObj, len(a.byAlias)+len(b.byAlias))
	seen := make(map[uint]bool, len(a.byAlias)+len(b.byAlias))
	for k := range a.byAlias {
		seen[k] = true
	}
	for k := range b.byAlias {
		seen[k] = true
	}
	for k := range seen {
		av, aok := a.byAlias[k]
		if !aok {
			av = a.defaultObj()
		}
		bv, bok := b.byAlias[k]
		if !bok {
			bv = b.defaultObj()
		}
		switch {
		case av == nil:
			byAlias[k] = bv
		case bv == nil:
			byAlias[k] = av
		default:
			if m, ok := av.Meet(bv).(TypeObj); ok {
				byAlias[k] = m
			}
		}
	}
	v := memArena.alloc()
	*v = MemType{byAlias: byAlias}
	return memArena.intern(v)
}
