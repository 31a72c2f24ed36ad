// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package tvar

// delayFreshQueue and delayResolveQueue are the process-wide DELAY_FRESH
// / DELAY_RESOLVE work lists of spec.md §4.4/§4.6, drained by the driver
// between fixpoint rounds.
var (
	delayFreshQueue   []freshEntry
	delayResolveQueue []resolveEntry
)

// DrainDelayFresh removes and returns all pending fresh-unifications,
// for the driver to re-run between rounds (spec.md §4.6).
func DrainDelayFresh() []func() bool {
	pending := delayFreshQueue
	delayFreshQueue = nil
	out := make([]func() bool, len(pending))
	for i, e := range pending {
		e := e
		out[i] = func() bool {
			_, progress := FreshUnify(e.gen, e.mono, e.nongen)
			return progress
		}
	}
	return out
}

// DrainDelayResolve removes and returns all pending field resolutions.
func DrainDelayResolve() []resolveEntry {
	pending := delayResolveQueue
	delayResolveQueue = nil
	return pending
}

// Fresh clones gen under the non-generic set nongen, instantiating its
// generic (non-captured) Leaf variables to fresh leaves (spec.md §4.4
// "fresh() → TV"). Variables reachable from nongen are shared, not
// cloned, since they are bound in an enclosing scope.
func Fresh(gen *TV3, nongen map[*TV3]bool) *TV3 {
	vars := make(map[*TV3]*TV3)
	return freshWalk(gen, nongen, vars)
}

func freshWalk(t *TV3, nongen map[*TV3]bool, vars map[*TV3]*TV3) *TV3 {
	l := Find(t)
	if nongen[l] {
		return l
	}
	if v, ok := vars[l]; ok {
		return v
	}
	switch l.tag {
	case Leaf:
		v := NewLeaf()
		vars[l] = v
		return v
	case Base:
		v := NewBase(l.base)
		vars[l] = v
		return v
	case Nil:
		v := NewNil()
		vars[l] = v
		return v
	case Ptr:
		v := &TV3{id: next(), tag: Ptr}
		vars[l] = v
		v.args = []*TV3{freshWalk(l.args[0], nongen, vars)}
		return v
	case Lambda, Clz:
		v := &TV3{id: next(), tag: l.tag}
		vars[l] = v
		args := make([]*TV3, len(l.args))
		for i, a := range l.args {
			args[i] = freshWalk(a, nongen, vars)
		}
		v.args = args
		return v
	case Struct:
		v := &TV3{id: next(), tag: Struct, openField: l.openField}
		vars[l] = v
		fields := make([]StructField, len(l.fields))
		for i, f := range l.fields {
			fields[i] = StructField{Label: f.Label, TV: freshWalk(f.TV, nongen, vars)}
		}
		v.fields = fields
		return v
	default:
		return l
	}
}

// FreshUnify implements spec.md §4.4's let-polymorphic fresh
// unification: walk gen (the generalized scheme) against mono (the
// monomorphic use site), building a per-call VARS mapping from gen's
// leaders to fresh clones, unifying the clones against mono. Any
// sub-tree of gen captured by nongen (the occurs-check) is unified
// directly instead of cloned. Leaves discovered during the walk record
// a delayed re-fresh-unification so that later structural expansion of
// that Leaf retroactively re-runs this call.
func FreshUnify(gen, mono *TV3, nongen map[*TV3]bool) (*TV3, bool) {
	vars := make(map[*TV3]*TV3)
	return freshUnifyWalk(gen, mono, nongen, vars)
}

func freshUnifyWalk(gen, mono *TV3, nongen map[*TV3]bool, vars map[*TV3]*TV3) (*TV3, bool) {
	lg := Find(gen)
	if nongen[lg] {
		return unifyMemo(lg, mono, make(map[memoKey]*TV3))
	}
	if v, ok := vars[lg]; ok {
		return unifyMemo(v, mono, make(map[memoKey]*TV3))
	}

	switch lg.tag {
	case Leaf:
		clone := NewLeaf()
		vars[lg] = clone
		lg.delayFresh = append(lg.delayFresh, freshEntry{gen: lg, mono: mono, nongen: nongen})
		return unifyMemo(clone, mono, make(map[memoKey]*TV3))
	case Base, Nil:
		clone := freshWalk(lg, nongen, vars)
		return unifyMemo(clone, mono, make(map[memoKey]*TV3))
	case Ptr:
		lm := Find(mono)
		if lm.tag != Ptr {
			e := NewErr(lg, lm)
			return e, true
		}
		clone := &TV3{id: next(), tag: Ptr}
		vars[lg] = clone
		obj, p := freshUnifyWalk(lg.args[0], lm.args[0], nongen, vars)
		clone.args = []*TV3{obj}
		return clone, p
	case Lambda, Clz:
		lm := Find(mono)
		if lm.tag != lg.tag || len(lm.args) != len(lg.args) {
			e := NewErr(lg, lm)
			return e, true
		}
		clone := &TV3{id: next(), tag: lg.tag}
		vars[lg] = clone
		args := make([]*TV3, len(lg.args))
		progress := false
		for i := range lg.args {
			a, p := freshUnifyWalk(lg.args[i], lm.args[i], nongen, vars)
			args[i] = a
			progress = progress || p
		}
		clone.args = args
		return clone, progress
	case Struct:
		lm := Find(mono)
		if lm.tag != Struct {
			e := NewErr(lg, lm)
			return e, true
		}
		clone := &TV3{id: next(), tag: Struct, openField: lg.openField}
		vars[lg] = clone
		fields := make([]StructField, 0, len(lg.fields))
		progress := false
		for _, f := range lg.fields {
			if mv, ok := mono.Field(f.Label); ok {
				v, p := freshUnifyWalk(f.TV, mv, nongen, vars)
				fields = append(fields, StructField{Label: f.Label, TV: v})
				progress = progress || p
				continue
			}
			fields = append(fields, StructField{Label: f.Label, TV: Fresh(f.TV, nongen)})
		}
		clone.fields = fields
		return clone, progress
	default:
		return unifyMemo(lg, mono, make(map[memoKey]*TV3))
	}
}
