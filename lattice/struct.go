// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import "strings"

// TypeObj is the shape of value a [MemPtr] points at and a [Mem] slot
// holds: struct-like data reachable through memory (spec.md §3: "Struct
// (fields ordered map label→(access, Type))... Obj/Ary/Str").
type TypeObj interface {
	Type
	objMarker()
}

// Access marks a struct field read-only or read-write.
type Access uint8

const (
	// AccessFinal fields are never stored to after construction.
	AccessFinal Access = iota
	// AccessMutable fields may be stored to.
	AccessMutable
)

// Field is one label's slot in a [StructType].
type Field struct {
	Label  string
	Access Access
	Type   Type
}

// StructType is the Struct variant of spec.md §3/§4.2: an ordered
// label→(access,Type) map, optionally open (inferable field labels, used
// while the parser is still discovering fields) or closed.
type StructType struct {
	fields  []Field
	open    bool
	dualPtr *StructType
}

var structArena = newArena(hashStruct, eqStruct, resetStruct)

func hashStruct(t *StructType) uint64 {
	h := mixHash(fnvOffset, uint64(len(t.fields)))
	if t.open {
		h = mixHash(h, 1)
	}
	for _, f := range t.fields {
		h = mixHash(h, hashString(f.Label), uint64(f.Access))
	}
	return h
}

func hashString(s string) uint64 {
	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h = mixHash(h, uint64(s[i]))
	}
	return h
}

func eqStruct(a, b *StructType) bool {
	if a.open != b.open || len(a.fields) != len(b.fields) {
		return false
	}
	for i, f := range a.fields {
		g := b.fields[i]
		if f.Label != g.Label || f.Access != g.Access || f.Type != g.Type {
			return false
		}
	}
	return true
}

func resetStruct(t *StructType) { *t = StructType{} }

// NewStruct interns a closed struct type with the given fields, in
// label order.
func NewStruct(fields ...Field) *StructType {
	v := structArena.alloc()
	*v = StructType{fields: append([]Field(nil), fields...)}
	return structArena.intern(v)
}

// NewOpenStruct interns an open struct type (spec.md §4.4 "structural
// records with inferable field labels"), used while field discovery is
// in progress.
func NewOpenStruct(fields ...Field) *StructType {
	v := structArena.alloc()
	*v = StructType{fields: append([]Field(nil), fields...), open: true}
	return structArena.intern(v)
}

func (t *StructType) objMarker() {}

func (t *StructType) Meet(other Type) Type { return Meet(t, other) }

func (t *StructType) Dual() Type {
	if t.dualPtr == nil {
		dualed := make([]Field, len(t.fields))
		for i, f := range t.fields {
			dualed[i] = Field{Label: f.Label, Access: f.Access, Type: f.Type.Dual()}
		}
		v := structArena.alloc()
		*v = StructType{fields: dualed, open: t.open}
		t.dualPtr = structArena.intern(v)
	}
	return t.dualPtr
}

func (t *StructType) IsCon() bool { return false }

func (t *StructType) AboveCenter() bool {
	for _, f := range t.fields {
		if !f.Type.AboveCenter() {
			return false
		}
	}
	return true
}

// Field looks up a field by label.
func (t *StructType) Field(label string) (Field, bool) {
	for _, f := range t.fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// Fields returns the ordered field list.
func (t *StructType) Fields() []Field { return t.fields }

func (t *StructType) String() string { return strCtx(t, newPrintCtx()) }

func (t *StructType) strCtx(ctx *printCtx) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range t.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Label)
		b.WriteByte('=')
		b.WriteString(strCtx(f.Type, ctx))
	}
	if t.open {
		b.WriteString(",...")
	}
	b.WriteByte('}')
	return b.String()
}

// meetStruct implements field-wise meet: fields present in both are
// met; fields present only in a are kept; fields present only in b are
// kept only when a is open (still discovering labels). The result is
// open only when both inputs are open.
func meetStruct(a, b *StructType) Type {
	byLabel := make(map[string]Field, len(a.fields))
	order := make([]string, 0, len(a.fields))
	for _, f := range a.fields {
		byLabel[f.Label] = f
		order = append(order, f.Label)
	}
	for _, g := range b.fields {
		if f, ok := byLabel[g.Label]; ok {
			access := f.Access
			if g.Access > access {
				access = g.Access
			}
			byLabel[g.Label] = Field{Label: g.Label, Access: access, Type: f.Type.Meet(g.Type)}
			continue
		}
		if a.open {
			byLabel[g.Label] = g
			order = append(order, g.Label)
		}
	}
	fields := make([]Field, 0, len(order))
	for _, l := range order {
		fields = append(fields, byLabel[l])
	}
	v := structArena.alloc()
	*v = StructType{fields: fields, open: a.open && b.open}
	return structArena.intern(v)
}
