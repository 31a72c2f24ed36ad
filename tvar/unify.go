// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package tvar

import "github.com/flowc-lang/flowc/lattice"

// Union performs the U-F merge of a and b's leaders, per spec.md §4.4
// "finally U-F union the lower-uid into the higher": the lower-id
// leader becomes a follower of the higher-id leader, which keeps the
// merged payload. Nil flags and widening level merge monotonically; the
// departing leader's delayed lists migrate onto the surviving leader
// and onto the global DELAY_FRESH/DELAY_RESOLVE queues.
func Union(a, b *TV3) *TV3 {
	la, lb := Find(a), Find(b)
	if la == lb {
		return la
	}
	lo, hi := la, lb
	if lo.id > hi.id {
		lo, hi = hi, lo
	}
	hi.mayNil = hi.mayNil || lo.mayNil
	hi.useNil = hi.useNil || lo.useNil
	if lo.widen > hi.widen {
		hi.widen = lo.widen
	}
	for d := range lo.deps {
		if hi.deps == nil {
			hi.deps = make(map[*TV3]bool)
		}
		hi.deps[d] = true
	}
	hi.delayFresh = append(hi.delayFresh, lo.delayFresh...)
	hi.delayResolve = append(hi.delayResolve, lo.delayResolve...)
	delayFreshQueue = append(delayFreshQueue, lo.delayFresh...)
	for _, r := range lo.delayResolve {
		delayResolveQueue = append(delayResolveQueue, r)
	}

	lo.uf = hi
	lo.args = nil
	lo.fields = nil
	lo.deps = nil
	lo.delayFresh = nil
	lo.delayResolve = nil
	return hi
}

// memoKey closes cycles during structural unify (spec.md §4.4 "enter a
// per-call memoization table keyed by the pair of leader ids").
type memoKey struct{ a, b uint64 }

// Unify runs the unification algorithm of spec.md §4.4 and reports
// whether it made progress (a structural change occurred). Identical
// leaders are a no-op; incompatible subclass tags produce an Err TV3
// rather than failing.
func Unify(a, b *TV3) (result *TV3, progress bool) {
	return unifyMemo(a, b, make(map[memoKey]*TV3))
}

func unifyMemo(a, b *TV3, memo map[memoKey]*TV3) (*TV3, bool) {
	la, lb := Find(a), Find(b)
	if la == lb {
		return la, false
	}
	key := memoKey{la.id, lb.id}
	if key.a > key.b {
		key.a, key.b = key.b, key.a
	}
	if m, ok := memo[key]; ok {
		return m, false
	}

	if la.tag == Nil || lb.tag == Nil {
		return unifyNil(la, lb)
	}

	if la.tag == Leaf || lb.tag == Leaf {
		leaf, other := la, lb
		if leaf.tag != Leaf {
			leaf, other = lb, la
		}
		memo[key] = other
		if leaf.id > other.id {
			// Union keeps the higher id as leader: move the absorbed
			// side's structure onto it so the Leaf does not survive.
			leaf.tag, leaf.base, leaf.args, leaf.fields, leaf.openField = other.tag, other.base, other.args, other.fields, other.openField
			leaf.errA, leaf.errB = other.errA, other.errB
		}
		return Union(la, lb), true
	}

	if la.tag != lb.tag {
		e := NewErr(la, lb)
		memo[key] = e
		Union(la, e)
		Union(lb, e)
		return e, true
	}

	placeholder := &TV3{id: next(), tag: la.tag}
	memo[key] = placeholder
	progress := false

	switch la.tag {
	case Base:
		merged := lattice.Meet(la.base, lb.base)
		if merged != la.base || merged != lb.base {
			progress = true
		}
		placeholder.base = merged
	case Ptr:
		obj, p := unifyMemo(la.args[0], lb.args[0], memo)
		progress = progress || p
		placeholder.args = []*TV3{obj}
	case Lambda:
		if len(la.args) != len(lb.args) {
			e := NewErr(la, lb)
			Union(la, e)
			Union(lb, e)
			return e, true
		}
		args := make([]*TV3, len(la.args))
		for i := range la.args {
			m, p := unifyMemo(la.args[i], lb.args[i], memo)
			args[i] = m
			progress = progress || p
		}
		placeholder.args = args
	case Struct:
		fields, p := unifyStructFields(la, lb, memo)
		progress = progress || p
		placeholder.fields = fields
		placeholder.openField = la.openField && lb.openField
	case Clz:
		// Closures unify structurally the same way Lambda does, over
		// whatever args each carries (captured environment + body).
		if len(la.args) != len(lb.args) {
			e := NewErr(la, lb)
			Union(la, e)
			Union(lb, e)
			return e, true
		}
		args := make([]*TV3, len(la.args))
		for i := range la.args {
			m, p := unifyMemo(la.args[i], lb.args[i], memo)
			args[i] = m
			progress = progress || p
		}
		placeholder.args = args
	case Err:
		placeholder.errA, placeholder.errB = la.errA, la.errB
	}

	Union(la, placeholder)
	Union(lb, placeholder)
	result := Find(placeholder)
	if result.mayNil && result.useNil {
		e := NewErr(la, lb)
		Union(result, e)
		return e, true
	}
	return result, progress
}

// unifyStructFields merges two Struct TV3s by label (spec.md §4.4
// "Structs walk by label"): shared labels unify structurally; a label
// present only in la is kept; a label present only in lb is kept only
// when la is open.
func unifyStructFields(la, lb *TV3, memo map[memoKey]*TV3) ([]StructField, bool) {
	byLabel := make(map[string]*TV3, len(la.fields))
	order := make([]string, 0, len(la.fields))
	for _, f := range la.fields {
		byLabel[f.Label] = f.TV
		order = append(order, f.Label)
	}
	progress := false
	for _, g := range lb.fields {
		if cur, ok := byLabel[g.Label]; ok {
			m, p := unifyMemo(cur, g.TV, memo)
			byLabel[g.Label] = m
			progress = progress || p
			continue
		}
		if la.openField {
			byLabel[g.Label] = g.TV
			order = append(order, g.Label)
			progress = true
		}
	}
	out := make([]StructField, 0, len(order))
	for _, l := range order {
		out = append(out, StructField{Label: l, TV: byLabel[l]})
	}
	return out, progress
}

// unifyNil implements spec.md §4.4's nil-aware merge: unifying a Nil TV3
// with a non-Nil TV3 marks the non-Nil side _may_nil and unions the two
// rather than forcing full structural equality; if the merged leader is
// also _use_nil, the result is an Err. The flag is set on the other TV3
// itself; it is not pushed into any child.
func unifyNil(la, lb *TV3) (*TV3, bool) {
	if la.tag == Nil && lb.tag == Nil {
		return Union(la, lb), false
	}
	nilSide, other := la, lb
	if lb.tag == Nil {
		nilSide, other = lb, la
	}
	_ = nilSide
	other.mayNil = true
	merged := Union(la, lb)
	if merged.mayNil && merged.useNil {
		e := NewErr(la, lb)
		Union(merged, e)
		return e, true
	}
	return merged, true
}

// TrialUnify is the side-effect-free query of spec.md §4.4 used by
// field resolution: it reports whether Unify would succeed without
// producing any Err, without mutating either input's union-find state.
func TrialUnify(a, b *TV3) bool {
	return trialMemo(a, b, make(map[memoKey]bool))
}

func trialMemo(a, b *TV3, memo map[memoKey]bool) bool {
	la, lb := Find(a), Find(b)
	if la == lb {
		return true
	}
	key := memoKey{la.id, lb.id}
	if key.a > key.b {
		key.a, key.b = key.b, key.a
	}
	if v, ok := memo[key]; ok {
		return v
	}
	memo[key] = true // optimistic; cyclic re-entry assumes success

	if la.tag == Leaf || lb.tag == Leaf {
		return true
	}
	if la.tag == Nil || lb.tag == Nil {
		// Nil merges only by setting _may_nil; it never fails
		// structurally (the simultaneous may_nil/use_nil error is
		// checked by Unify itself, not by this trial query).
		return true
	}
	if la.tag != lb.tag {
		memo[key] = false
		return false
	}
	switch la.tag {
	case Base:
		return true
	case Ptr:
		ok := trialMemo(la.args[0], lb.args[0], memo)
		memo[key] = ok
		return ok
	case Lambda, Clz:
		if len(la.args) != len(lb.args) {
			memo[key] = false
			return false
		}
		for i := range la.args {
			if !trialMemo(la.args[i], lb.args[i], memo) {
				memo[key] = false
				return false
			}
		}
		return true
	case Struct:
		for _, f := range la.fields {
			for _, g := range lb.fields {
				if f.Label == g.Label && !trialMemo(f.TV, g.TV, memo) {
					memo[key] = false
					return false
				}
			}
		}
		return true
	case Err:
		memo[key] = false
		return false
	}
	return true
}
