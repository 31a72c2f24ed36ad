// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package bits

// Alias is BitsAlias from spec.md §3: a hash-consed set of memory alias
// classes. Every [Alias] is canonicalized and interned against
// [AliasTree]; two Alias values with equal content compare equal with
// ==.
type Alias struct{ c *Carrier }

// AliasTree is the global, shared alias-class tree (spec.md §3). It
// grows during optimization via [SplitAlias] and never shrinks.
var AliasTree = NewTypeTree()

var aliasIntern = newInterner()

// NilAlias is the reserved bit-0 alias class.
var NilAlias = MakeAliasConst(0)

// AllAlias is the reserved bit-1 "any/all aliases" class.
var AllAlias = MakeAliasConst(1)

// MakeAliasConst interns the singleton alias set {bit}.
func MakeAliasConst(bit uint) Alias { return Alias{makeConst(aliasIntern, bit)} }

// MakeAlias interns a canonicalized alias set with the given polarity.
func MakeAlias(high bool, ids ...uint) Alias {
	return Alias{makeSet(AliasTree, aliasIntern, high, ids...)}
}

// SplitAlias allocates a new child alias class under parent, per
// spec.md §4.1/§4.5 ("Fidx/alias splitting").
func SplitAlias(parent uint) (child uint) { return AliasTree.Split(parent) }

func (a Alias) IsCon() bool                    { return a.c.IsCon() }
func (a Alias) Test(i uint) bool               { return a.c.Test(i) }
func (a Alias) MayNil() bool                   { return a.c.MayNil() }
func (a Alias) AboveCenter() bool              { return a.c.AboveCenter() }
func (a Alias) Abit() (uint, bool)             { return a.c.Abit() }
func (a Alias) All(yield func(uint) bool)      { a.c.All(yield) }
func (a Alias) Clear(i uint) Alias             { return Alias{clearBit(AliasTree, aliasIntern, a.c, i)} }
func (a Alias) Meet(b Alias) Alias             { return Alias{meet(AliasTree, aliasIntern, a.c, b.c)} }
func (a Alias) Join(b Alias) Alias             { return Alias{join(AliasTree, aliasIntern, a.c, b.c)} }
func (a Alias) Dual() Alias                    { return Alias{dual(aliasIntern, a.c)} }
func (a Alias) Equal(b Alias) bool             { return a.c == b.c }
