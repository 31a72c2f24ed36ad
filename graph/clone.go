// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/flowc-lang/flowc/bits"

// Cloner is implemented by node payloads that must deep-copy on split
// (spec.md §4.5 "Fidx/alias splitting"). Grounded on the teacher's
// Cloner[V] idiom (bart/cloner.go): "shallow clone, then deep-clone
// nested pointers field by field".
type Cloner interface {
	Clone() Cloner
}

// CloneFun deep-copies a callee's Fun/body subgraph for inlining or
// call-graph splitting, substituting inputs per the teacher's
// "clone shallow, then deep-clone nested pointers" recursive shape
// (bart/bartnode.go's cloneRec). visited memoizes already-cloned nodes
// so shared sub-DAGs are cloned once, not once per path.
func CloneFun(root *Node, substitute map[*Node]*Node) *Node {
	visited := make(map[*Node]*Node)
	for k, v := range substitute {
		visited[k] = v
	}
	return cloneRec(root, visited)
}

func cloneRec(n *Node, visited map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	if c, ok := visited[n]; ok {
		return c
	}
	clone := &Node{id: nextID(), kind: n.kind, con: n.con, ifVal: n.ifVal,
		allocAlias: n.allocAlias, allocObj: n.allocObj, argIdx: n.argIdx, fwdState: n.fwdState}
	visited[n] = clone
	for _, d := range n.defs {
		clone.AddDef(cloneRec(d, visited))
	}
	return clone
}

// SplitCallFidx implements spec.md §4.5's "Fidx/alias splitting": on
// inlining a shared callee, split its fidx in [bits.FidxTree]. Every
// Bits value that referenced the parent keeps doing so (conservative
// "could be either child"). It only allocates the child id; no Call's
// fidx set is rewritten here.
func SplitCallFidx(parent uint) (child uint) { return bits.FidxTree.Split(parent) }

// SplitAllocAlias is the alias-tree analogue of [SplitCallFidx], used
// when a New site is duplicated by cloning (spec.md §4.5 "Every Bits
// value that referenced the parent now includes both children").
func SplitAllocAlias(parent uint) (child uint) { return bits.AliasTree.Split(parent) }

// tryInline implements spec.md §4.5's inlining rules: when exactly one
// fidx is wired and the callee is reached only from this call site,
// rewrite the CallEpi in place into a ctrl/mem/rez copy of the callee's
// body (spec.md §8 S3: "CallEpi becomes a copy: ctl = cctl, mem = cmem,
// rez = call.arg(idx)"), then unwires the callee so its Fun/Ret drop out
// of the graph once nothing else references them.
func (n *Node) tryInline() *Node {
	if n.kind != KindCallEpi || n.inlined || len(n.wiredRet) != 1 {
		return nil
	}
	call := n.Def(0)
	if call == nil {
		return nil
	}
	if _, single := call.fidxs.SingleFidx(); !single {
		return nil
	}
	ret := n.wiredRet[0]
	fun := ret.fun()
	if fun == nil || len(fun.defs) != 1 {
		return nil // callee reachable from more than this one call site
	}
	rez := ret.Def(2)

	var replacement *Node
	switch {
	case isIdentityBody(fun, rez):
		replacement = call.Def(callArg0 + rez.argIdx)
	case rez != nil && rez.kind == KindCon:
		replacement = rez
	default:
		return nil
	}

	n.Unwire(call, ret)
	n.inlined = true
	n.copyCtrl = call.Def(callCtrl)
	n.copyMem = call.Def(callMem)
	n.copyRez = replacement
	return replacement
}

// isIdentityBody recognizes spec.md §4.5's "Identity body (return is a
// Parm)": the callee simply returns one of its own parameters.
func isIdentityBody(fun, rez *Node) bool {
	return rez != nil && rez.kind == KindParm && rez.Def(0) == fun
}
