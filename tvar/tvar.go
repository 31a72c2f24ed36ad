// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Package tvar implements TV3, the union-find type variable of spec.md
// §3/§4.4: a Hindley-Milner structural unifier supporting iso-recursive
// cycles, let-polymorphic fresh instantiation, nilable flags, and
// delayed-fresh/delayed-resolve work queues.
//
// Grounded on the teacher's union-find-shaped code: bart's routing
// table node tree (bartNode/leaf) models a singly-owned tree with
// lazily-applied rewrites the same way TV3 models a singly-owned
// disjoint-set forest with lazily-applied path compression.
package tvar

import "github.com/flowc-lang/flowc/lattice"

// Tag discriminates TV3's subclasses (spec.md §3).
type Tag uint8

const (
	Leaf Tag = iota
	Base
	Ptr
	Lambda
	Struct
	Clz
	Nil
	Err
)

func (t Tag) String() string {
	switch t {
	case Leaf:
		return "Leaf"
	case Base:
		return "Base"
	case Ptr:
		return "Ptr"
	case Lambda:
		return "Lambda"
	case Struct:
		return "Struct"
	case Clz:
		return "Clz"
	case Nil:
		return "Nil"
	case Err:
		return "Err"
	default:
		return "?"
	}
}

// Widen levels (spec.md §4.4).
const (
	WidenNever = 0
	WidenSoft  = 1
	WidenHard  = 2
)

// freshEntry is one pending re-fresh-unification recorded on a Leaf's
// _delay_fresh list (spec.md §4.4 "Fresh unification").
type freshEntry struct {
	gen    *TV3
	mono   *TV3
	nongen map[*TV3]bool
}

// resolveEntry is one pending field resolution recorded on a Struct's
// _delay_resolve list.
type resolveEntry struct {
	label  string
	result *TV3
}

// StructField is one label's variable in an ordered Struct TV3.
type StructField struct {
	Label string
	TV    *TV3
}

// TV3 is a union-find node with a subclass tag (spec.md §3).
type TV3 struct {
	id  uint64
	tag Tag

	uf   *TV3   // leader link; nil for leaders
	args []*TV3 // children; non-leaders must keep this empty

	base lattice.Type // valid when tag == Base

	fields    []StructField // valid when tag == Struct or Lambda(args then ret)
	openField bool          // Struct: may still gain new labels

	errA, errB *TV3 // valid when tag == Err

	mayNil bool
	useNil bool
	widen  int

	deps         map[*TV3]bool
	delayFresh   []freshEntry
	delayResolve []resolveEntry
}

var cnt uint64

func next() uint64 { cnt++; return cnt }

// Reset clears the process-wide id counter and delayed work queues
// (spec.md §5's reset_to_init0, scoped to this package). Intended for
// test isolation between independent driver runs.
func Reset() {
	cnt = 0
	delayFreshQueue = delayFreshQueue[:0]
	delayResolveQueue = delayResolveQueue[:0]
}

// NewLeaf allocates a fresh, unconstrained Leaf variable.
func NewLeaf() *TV3 { return &TV3{id: next(), tag: Leaf} }

// NewBase wraps a concrete flow type as a TV3 leader.
func NewBase(t lattice.Type) *TV3 { return &TV3{id: next(), tag: Base, base: t} }

// NewNil allocates the TV3 that unifies only with nilable things.
func NewNil() *TV3 { return &TV3{id: next(), tag: Nil} }

// NewPtr allocates a Ptr TV3 pointing at obj.
func NewPtr(obj *TV3) *TV3 { return &TV3{id: next(), tag: Ptr, args: []*TV3{obj}} }

// NewLambda allocates a Lambda TV3 over params and a return slot.
func NewLambda(params []*TV3, ret *TV3) *TV3 {
	args := make([]*TV3, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, ret)
	return &TV3{id: next(), tag: Lambda, args: args}
}

// NewStruct allocates an (optionally open) Struct TV3 over labeled
// fields, in the given label order.
func NewStruct(open bool, fields ...StructField) *TV3 {
	return &TV3{id: next(), tag: Struct, fields: append([]StructField(nil), fields...), openField: open}
}

// NewErr allocates an Err TV3 carrying both conflicting children for
// diagnostic printing (spec.md §7 TypeMismatch).
func NewErr(a, b *TV3) *TV3 { return &TV3{id: next(), tag: Err, errA: a, errB: b} }

func (t *TV3) ID() uint64  { return t.id }
func (t *TV3) Tag() Tag    { return t.tag }
func (t *TV3) MayNil() bool { return Find(t).mayNil }
func (t *TV3) UseNil() bool { return Find(t).useNil }
func (t *TV3) Widen() int   { return Find(t).widen }

// Base returns the concrete flow type of a Base leader, or nil.
func (t *TV3) Base() lattice.Type {
	l := Find(t)
	if l.tag != Base {
		return nil
	}
	return l.base
}

// Args returns a leader's children (Ptr: [obj]; Lambda: [params..., ret]).
func (t *TV3) Args() []*TV3 { return Find(t).args }

// Fields returns a Struct leader's ordered label/TV3 pairs.
func (t *TV3) Fields() []StructField { return Find(t).fields }

// Field looks up a Struct leader's field by label.
func (t *TV3) Field(label string) (*TV3, bool) {
	l := Find(t)
	for _, f := range l.fields {
		if f.Label == label {
			return f.TV, true
		}
	}
	return nil, false
}

// Open reports whether a Struct leader may still gain new field labels.
func (t *TV3) Open() bool { return Find(t).openField }

// ErrChildren returns the two conflicting TVs recorded on an Err leader.
func (t *TV3) ErrChildren() (*TV3, *TV3) {
	l := Find(t)
	return l.errA, l.errB
}

// Dep registers dst as dependent on changes to t's leader (spec.md
// §4.6's "_deps"): when the driver re-resolves t, every dependent node
// is re-enqueued.
func (t *TV3) Dep(dst *TV3) {
	l := Find(t)
	if l.deps == nil {
		l.deps = make(map[*TV3]bool)
	}
	l.deps[dst] = true
}

// Deps returns the leader's dependent set.
func (t *TV3) Deps() []*TV3 {
	l := Find(t)
	out := make([]*TV3, 0, len(l.deps))
	for d := range l.deps {
		out = append(out, d)
	}
	return out
}

// Find performs union-find rollup with path compression (spec.md §5
// "Union-find rollup is performed lazily on find()").
func Find(t *TV3) *TV3 {
	if t.uf == nil {
		return t
	}
	root := t
	for root.uf != nil {
		root = root.uf
	}
	for t.uf != nil {
		next := t.uf
		t.uf = root
		t = next
	}
	return root
}

// SetWiden raises t's widening level to at least level, propagating to
// children once per raise (spec.md §4.4 "Widening").
func SetWiden(t *TV3, level int) {
	l := Find(t)
	if level <= l.widen {
		return
	}
	l.widen = level
	for _, a := range l.args {
		SetWiden(a, level)
	}
	for _, f := range l.fields {
		SetWiden(f.TV, level)
	}
}
