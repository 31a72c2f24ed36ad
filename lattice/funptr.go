// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"

	"github.com/flowc-lang/flowc/bits"
)

// FunPtrType is the FunPtr variant of spec.md §3/§4.2: the set of
// functions a call site's target may resolve to, their argument count,
// a display/closure type, and their return type.
type FunPtrType struct {
	fidxs   bits.Fidx
	nargs   int
	high    bool
	dsp     Type
	ret     Type
	dualPtr *FunPtrType
}

var funPtrArena = newArena(hashFunPtr, eqFunPtr, resetFunPtr)

func hashFunPtr(t *FunPtrType) uint64 {
	h := mixHash(fnvOffset, uint64(t.nargs), typeAddr(t.dsp), typeAddr(t.ret))
	if t.high {
		h = mixHash(h, 1)
	}
	for i := range t.fidxs.All {
		h = mixHash(h, uint64(i)+13)
	}
	return h
}

func eqFunPtr(a, b *FunPtrType) bool {
	return a.fidxs.Equal(b.fidxs) && a.nargs == b.nargs && a.high == b.high &&
		a.dsp == b.dsp && a.ret == b.ret
}

func resetFunPtr(t *FunPtrType) { *t = FunPtrType{} }

// NewFunPtr interns a FunPtr.
func NewFunPtr(fidxs bits.Fidx, nargs int, high bool, dsp, ret Type) *FunPtrType {
	v := funPtrArena.alloc()
	*v = FunPtrType{fidxs: fidxs, nargs: nargs, high: high, dsp: dsp, ret: ret}
	return funPtrArena.intern(v)
}

// GenericFunPtr is the top of the FunPtr sub-lattice: any arity, any
// fidx, maximally permissive display/return.
var GenericFunPtr = NewFunPtr(bits.AllFidx, -1, true, Any, Any)

func (t *FunPtrType) Fidxs() bits.Fidx { return t.fidxs }
func (t *FunPtrType) Nargs() int       { return t.nargs }
func (t *FunPtrType) Dsp() Type        { return t.dsp }
func (t *FunPtrType) Ret() Type        { return t.ret }

func (t *FunPtrType) Meet(other Type) Type { return Meet(t, other) }

func (t *FunPtrType) Dual() Type {
	if t.dualPtr == nil {
		v := funPtrArena.alloc()
		*v = FunPtrType{fidxs: t.fidxs.Dual(), nargs: t.nargs, high: !t.high, dsp: t.dsp.Dual(), ret: t.ret.Dual()}
		t.dualPtr = funPtrArena.intern(v)
	}
	return t.dualPtr
}

func (t *FunPtrType) IsCon() bool { return false }

func (t *FunPtrType) AboveCenter() bool { return t.fidxs.AboveCenter() }

func (t *FunPtrType) String() string { return strCtx(t, newPrintCtx()) }

func (t *FunPtrType) strCtx(ctx *printCtx) string {
	return fmt.Sprintf("{%d args -> %s}", t.nargs, strCtx(t.ret, ctx))
}

// meetFunPtr implements spec.md §4.2's "FunPtr meet FunPtr" rule,
// including the nargs asymmetric-polarity rule.
func meetFunPtr(a, b *FunPtrType) Type {
	fidxs := a.fidxs.Meet(b.fidxs)
	dsp := a.dsp.Meet(b.dsp)
	ret := a.ret.Meet(b.ret)

	nargs := a.nargs
	switch {
	case a.nargs == b.nargs:
		nargs = a.nargs
	case a.nargs < b.nargs:
		if !a.high {
			nargs = a.nargs
		} else {
			nargs = b.nargs
		}
	default: // b.nargs < a.nargs
		if !b.high {
			nargs = b.nargs
		} else {
			nargs = a.nargs
		}
	}

	v := funPtrArena.alloc()
	*v = FunPtrType{fidxs: fidxs, nargs: nargs, high: a.high && b.high, dsp: dsp, ret: ret}
	return funPtrArena.intern(v)
}
