// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

// scalarType implements the seven named scalar tops/bottoms of spec.md
// §3: ANY, ALL, CTRL, XCTRL, NIL, XNIL, SCALAR. Each is a package-level
// singleton; there is exactly one instance of each so identity equality
// is trivially pointer equality.
type scalarType struct {
	name        string
	aboveCenter bool
	dual        Type
}

func (s *scalarType) Meet(other Type) Type { return Meet(s, other) }
func (s *scalarType) IsCon() bool          { return false }
func (s *scalarType) AboveCenter() bool    { return s.aboveCenter }
func (s *scalarType) String() string       { return s.name }
func (s *scalarType) Dual() Type           { return s.dual }

var (
	anyS    = &scalarType{name: "$ANY", aboveCenter: true}
	allS    = &scalarType{name: "$ALL", aboveCenter: false}
	ctrlS   = &scalarType{name: "$CTRL", aboveCenter: true}
	xctrlS  = &scalarType{name: "$XCTRL", aboveCenter: false}
	nilS    = &scalarType{name: "$NIL", aboveCenter: true}
	xnilS   = &scalarType{name: "$XNIL", aboveCenter: false}
	scalarS = &scalarType{name: "$SCALAR", aboveCenter: false}
)

func init() {
	anyS.dual, allS.dual = allS, anyS
	ctrlS.dual, xctrlS.dual = xctrlS, ctrlS
	nilS.dual, xnilS.dual = xnilS, nilS
	scalarS.dual = scalarS // self-dual center element
}

var (
	// Any is the top of the whole lattice: meet(Any, x) == x.
	Any Type = anyS
	// All is the bottom of the whole lattice: meet(All, x) == All.
	All Type = allS
	// Ctrl is the live-control-edge singleton.
	Ctrl Type = ctrlS
	// XCtrl is the dead-control-edge singleton.
	XCtrl Type = xctrlS
	// Nil is the "forced nilable" top, merged into pointer variants by
	// [Meet].
	Nil Type = nilS
	// XNil is the "forced non-nil" bottom, merged into pointer
	// variants by [Meet].
	XNil Type = xnilS
	// Scalar is the join of all numeric (Int/Flt) variants.
	Scalar Type = scalarS
)
