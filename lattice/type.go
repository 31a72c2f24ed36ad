// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Package lattice implements the flow-type meet-semilattice of spec.md
// §3/§4.2: a tagged variant over Int, Flt, FunPtr, MemPtr, Struct,
// Tuple, Mem and the scalar tops/bottoms, all hash-consed so that
// equality is pointer identity.
//
// The per-alias sparse mapping inside [Mem] and the ordered label map
// inside [Struct] both follow the teacher's popcount-compressed sparse
// array (bart/internal/sparse/array.go: rank-addressed storage with a
// default slot), adapted here to plain Go maps since flow types are
// hash-consed once and read far more often than mutated — the sparse
// bitset/slice pairing earns its keep in a routing table's hot
// insert/delete path, not in an immutable intern pool.
package lattice

// Type is the interface every flow-type variant implements (spec.md
// §3/§4.2).
type Type interface {
	// Meet returns the greatest lower bound of this and other.
	Meet(other Type) Type
	// Dual returns the lattice negation, with meet(a,b) and
	// join(a,b) = dual(meet(dual(a), dual(b))) related by it.
	Dual() Type
	// IsCon reports whether this type denotes a single concrete value.
	IsCon() bool
	// AboveCenter reports whether this type sits above the lattice
	// center line (closer to Any than to All).
	AboveCenter() bool
	// String renders the type, breaking cycles via a per-call visited
	// set (spec.md §6: "handles cyclic printing via a visited/dups
	// bitset").
	String() string
}

// Meet is the free-function entry point used by every variant's Meet
// method; it handles the scalar tops/bottoms and nilable merging before
// dispatching to variant-specific rules (spec.md §4.2).
func Meet(a, b Type) Type {
	if a == b {
		return a
	}
	if a == Any {
		return b
	}
	if b == Any {
		return a
	}
	if a == All || b == All {
		return All
	}

	if a == Scalar {
		if isNumeric(b) {
			return b
		}
	}
	if b == Scalar {
		if isNumeric(a) {
			return a
		}
	}

	if n, ok := meetNilable(a, b); ok {
		return n
	}

	if a == Ctrl || a == XCtrl || b == Ctrl || b == XCtrl {
		return meetCtrl(a, b)
	}

	switch av := a.(type) {
	case *IntType:
		if bv, ok := b.(*IntType); ok {
			return meetInt(av, bv)
		}
	case *FltType:
		if bv, ok := b.(*FltType); ok {
			return meetFlt(av, bv)
		}
	case *FunPtrType:
		if bv, ok := b.(*FunPtrType); ok {
			return meetFunPtr(av, bv)
		}
	case *MemPtrType:
		if bv, ok := b.(*MemPtrType); ok {
			return meetMemPtr(av, bv)
		}
	case *StructType:
		if bv, ok := b.(*StructType); ok {
			return meetStruct(av, bv)
		}
	case *TupleType:
		if bv, ok := b.(*TupleType); ok {
			return meetTuple(av, bv)
		}
	case *MemType:
		if bv, ok := b.(*MemType); ok {
			return meetMem(av, bv)
		}
	}

	// Incompatible variants (and no top/bottom/scalar/nil shortcut
	// applied) meet at the lattice bottom.
	return All
}

func isNumeric(t Type) bool {
	switch t.(type) {
	case *IntType, *FltType:
		return true
	}
	return false
}

// nilable is implemented by the variants that carry a nil flag (Int,
// Flt, MemPtr) so that NIL/XNIL can merge into them; FunPtr carries no
// nil flag, so NIL/XNIL meet a FunPtr at ALL (spec.md §4.4's
// "_may_nil"/"_use_nil" flags are the TV-level analogue of this).
type nilable interface {
	withMayNil(bool) Type
}

func meetNilable(a, b Type) (Type, bool) {
	switch {
	case a == Nil:
		if p, ok := b.(nilable); ok {
			return p.withMayNil(true), true
		}
	case b == Nil:
		if p, ok := a.(nilable); ok {
			return p.withMayNil(true), true
		}
	case a == XNil:
		if p, ok := b.(nilable); ok {
			return p.withMayNil(false), true
		}
	case b == XNil:
		if p, ok := a.(nilable); ok {
			return p.withMayNil(false), true
		}
	}
	return nil, false
}

func meetCtrl(a, b Type) Type {
	if a == Ctrl && b == Ctrl {
		return Ctrl
	}
	if (a == XCtrl || a == Ctrl) && (b == XCtrl || b == Ctrl) {
		return XCtrl
	}
	return All
}

// Join returns the least upper bound of a and b, defined as
// dual(meet(dual(a), dual(b))) (spec.md §8, testable property 1).
func Join(a, b Type) Type {
	return a.Dual().Meet(b.Dual()).Dual()
}
