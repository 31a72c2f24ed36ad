// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package bits

// Fidx is BitsFun from spec.md §3: a hash-consed set of function
// indices, mirroring [Alias] against its own, independent [FidxTree].
type Fidx struct{ c *Carrier }

// FidxTree is the global, shared function-index tree (spec.md §3).
var FidxTree = NewTypeTree()

var fidxIntern = newInterner()

// NilFidx is the reserved bit-0 function index.
var NilFidx = MakeFidxConst(0)

// AllFidx is the reserved bit-1 "any/all functions" index.
var AllFidx = MakeFidxConst(1)

// MakeFidxConst interns the singleton function-index set {bit}.
func MakeFidxConst(bit uint) Fidx { return Fidx{makeConst(fidxIntern, bit)} }

// MakeFidx interns a canonicalized function-index set with the given
// polarity.
func MakeFidx(high bool, ids ...uint) Fidx {
	return Fidx{makeSet(FidxTree, fidxIntern, high, ids...)}
}

// SplitFidx allocates a new child fidx under parent, used when a
// shared callee is cloned (spec.md §4.5).
func SplitFidx(parent uint) (child uint) { return FidxTree.Split(parent) }

func (f Fidx) IsCon() bool               { return f.c.IsCon() }
func (f Fidx) Test(i uint) bool          { return f.c.Test(i) }
func (f Fidx) MayNil() bool              { return f.c.MayNil() }
func (f Fidx) AboveCenter() bool         { return f.c.AboveCenter() }
func (f Fidx) Abit() (uint, bool)        { return f.c.Abit() }
func (f Fidx) All(yield func(uint) bool) { f.c.All(yield) }
func (f Fidx) Clear(i uint) Fidx         { return Fidx{clearBit(FidxTree, fidxIntern, f.c, i)} }
func (f Fidx) Meet(o Fidx) Fidx          { return Fidx{meet(FidxTree, fidxIntern, f.c, o.c)} }
func (f Fidx) Join(o Fidx) Fidx          { return Fidx{join(FidxTree, fidxIntern, f.c, o.c)} }
func (f Fidx) Dual() Fidx                { return Fidx{dual(fidxIntern, f.c)} }
func (f Fidx) Equal(o Fidx) bool         { return f.c == o.c }

// SingleFidx reports whether f names exactly one concrete function and,
// if so, returns it. Used by CallEpi inlining (spec.md §4.5) to require a
// single-target call; it checks only for the constant form, not whether
// the bit has been split in [FidxTree].
func (f Fidx) SingleFidx() (uint, bool) { return f.Abit() }
