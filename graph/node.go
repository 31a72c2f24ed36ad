// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Package graph implements the sea-of-nodes SSA graph of spec.md
// §3/§4.3: vertices with def/use edges, a pure `value()` forward flow
// function, a `live_use()` backward liveness function, call-graph
// wiring/unwiring, and call-site inlining.
//
// Node identity and edge maintenance are grounded on the teacher's
// (github.com/gaissmai/bart) node-tree shape — see bartnode.go's
// recursive child-slot bookkeeping — generalized from a fixed-fanout
// routing trie to an arbitrary-fanout def/use graph.
package graph

import (
	"github.com/flowc-lang/flowc/bits"
	"github.com/flowc-lang/flowc/lattice"
	"github.com/flowc-lang/flowc/tvar"
)

// Kind discriminates Node's variants (spec.md §4.3). Following spec.md
// §9's "replace class hierarchies with tagged variants" note, every
// node kind is one Node struct with a tag, not a type per kind.
type Kind uint8

const (
	KindCon Kind = iota
	KindIf
	KindCall
	KindCallEpi
	KindFun
	KindRet
	KindParm
	KindProj
	KindNew
	KindStartMem
	KindForwardRef
	KindScope
)

func (k Kind) String() string {
	switch k {
	case KindCon:
		return "Con"
	case KindIf:
		return "If"
	case KindCall:
		return "Call"
	case KindCallEpi:
		return "CallEpi"
	case KindFun:
		return "Fun"
	case KindRet:
		return "Ret"
	case KindParm:
		return "Parm"
	case KindProj:
		return "Proj"
	case KindNew:
		return "New"
	case KindStartMem:
		return "StartMem"
	case KindForwardRef:
		return "ForwardRef"
	case KindScope:
		return "Scope"
	default:
		return "?"
	}
}

// If's 4-valued output (spec.md §4.3): a distinct scalar domain from
// Type, since an If's branches aren't lattice elements of the value
// domain its predicate lives in.
type IfValue uint8

const (
	IfAny IfValue = iota
	IfFalse
	IfTrue
	IfAll
)

func (v IfValue) String() string {
	switch v {
	case IfFalse:
		return "IfFalse"
	case IfTrue:
		return "IfTrue"
	case IfAll:
		return "IfAll"
	default:
		return "IfAny"
	}
}

// ForwardRef's three states (spec.md §4.3).
const (
	FwdUndeclared = 0
	FwdScoped     = 1
	FwdDefined    = 2
)

// Node is a vertex in the sea-of-nodes graph (spec.md §3 "Node").
type Node struct {
	id   uint64
	kind Kind

	defs []*Node
	uses []*Node

	val  lattice.Type
	live lattice.Type // backward liveness, a Mem-shaped Type per spec.md's TypeMem
	tv   *tvar.TV3
	keep int

	// Con
	con lattice.Type
	// If
	ifVal IfValue
	// Call / CallEpi
	fidxs     bits.Fidx
	wiredRet  []*Node // CallEpi: wired Ret nodes, one per resolved+wired callee
	frozen    bool    // CallEpi: value frozen per spec.md §4.5
	wiredFidx uint    // Ret: the fidx bit this Ret was wired under, once wired
	// New
	allocAlias bits.Alias
	allocObj   lattice.TypeObj
	// Parm / Proj
	argIdx int
	// ForwardRef
	fwdState int

	// CallEpi, once inlined (spec.md §4.5): the copy this node was
	// rewritten to, replacing the wired-callee merge with a direct
	// ctrl/mem/rez passthrough.
	inlined        bool
	copyCtrl       *Node
	copyMem        *Node
	copyRez        *Node
}

var cnt uint64

func nextID() uint64 { cnt++; return cnt }

// Reset clears the process-wide node id counter (spec.md §5's
// reset_to_init0, scoped to this package).
func Reset() { cnt = 0 }

func newNode(kind Kind, defs ...*Node) *Node {
	n := &Node{id: nextID(), kind: kind}
	for _, d := range defs {
		n.AddDef(d)
	}
	return n
}

func (n *Node) ID() uint64      { return n.id }
func (n *Node) Kind() Kind      { return n.kind }
func (n *Node) Defs() []*Node   { return n.defs }
func (n *Node) Uses() []*Node   { return n.uses }
func (n *Node) Val() lattice.Type  { return n.val }
func (n *Node) Live() lattice.Type { return n.live }
func (n *Node) SetVal(v lattice.Type)  { n.val = v }
func (n *Node) SetLive(v lattice.Type) { n.live = v }
func (n *Node) Keep() int       { return n.keep }
func (n *Node) Pin()            { n.keep++ }
func (n *Node) Unpin()          { n.keep-- }
func (n *Node) TV() *tvar.TV3   { return n.tv }
func (n *Node) SetTV(tv *tvar.TV3) { n.tv = tv }
func (n *Node) Fidxs() bits.Fidx { return n.fidxs }
func (n *Node) SetFidxs(f bits.Fidx) { n.fidxs = f }
func (n *Node) Inlined() bool   { return n.inlined }
func (n *Node) CopyCtrl() *Node { return n.copyCtrl }
func (n *Node) CopyMem() *Node  { return n.copyMem }
func (n *Node) CopyRez() *Node  { return n.copyRez }

// Def returns the i'th input, or nil if out of range.
func (n *Node) Def(i int) *Node {
	if i < 0 || i >= len(n.defs) {
		return nil
	}
	return n.defs[i]
}

// AddDef appends d as a new input of n and records the reverse use edge
// (spec.md §3 "edge operations maintain both sides").
func (n *Node) AddDef(d *Node) {
	n.defs = append(n.defs, d)
	if d != nil {
		d.uses = append(d.uses, n)
	}
}

// SetDef replaces the i'th input in place, updating use edges on both
// the old and new target.
func (n *Node) SetDef(i int, d *Node) {
	old := n.defs[i]
	if old != nil {
		old.removeUse(n)
	}
	n.defs[i] = d
	if d != nil {
		d.uses = append(d.uses, n)
	}
}

// RemoveDef deletes the i'th input entirely, shrinking defs.
func (n *Node) RemoveDef(i int) {
	old := n.defs[i]
	if old != nil {
		old.removeUse(n)
	}
	n.defs = append(n.defs[:i], n.defs[i+1:]...)
}

func (n *Node) removeUse(user *Node) {
	for i, u := range n.uses {
		if u == user {
			n.uses = append(n.uses[:i], n.uses[i+1:]...)
			return
		}
	}
}

// Dead reports whether n has no uses and is not pinned — spec.md §3's
// destruction condition ("destroyed when it becomes unreachable").
func (n *Node) Dead() bool { return len(n.uses) == 0 && n.keep == 0 }

// Kill disconnects n from all of its inputs. Call once Dead() is true.
func (n *Node) Kill() {
	for i := range n.defs {
		if n.defs[i] != nil {
			n.defs[i].removeUse(n)
		}
	}
	n.defs = nil
}
