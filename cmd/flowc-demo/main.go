// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

// Command flowc-demo builds a handful of spec.md §8 scenario graphs
// with the graph builder API and drives them to a fixpoint, printing
// each interesting node's resulting _val/_live. It is a stand-in for
// the out-of-scope "command-line driver" of spec.md §1 (the teacher
// ships the same kind of thin cmd/ over its library, not a production
// CLI — see bart's cmd/ directory).
package main

import (
	"fmt"

	"github.com/flowc-lang/flowc/bits"
	"github.com/flowc-lang/flowc/driver"
	"github.com/flowc-lang/flowc/graph"
	"github.com/flowc-lang/flowc/lattice"
)

func main() {
	runS1()
	runS3()
	runS4()
}

// runS1 builds spec.md §8's "constant return" scenario: scope =
// Scope(mem=StartMem, rez=Con(5)).
func runS1() {
	driver.Reset()
	fmt.Println("S1: constant return")

	rez := graph.NewCon(lattice.NewIntCon(5))
	mem := graph.NewStartMem()
	scope := graph.NewScope(mem, rez)

	d := driver.New()
	d.Enqueue(rez)
	d.Enqueue(mem)
	d.Enqueue(scope)
	d.Run()

	fmt.Printf("  rez._val   = %v\n", rez.Val())
	fmt.Printf("  scope._live = %v\n", scope.Live())
	fmt.Printf("  iterations = %d\n\n", d.Iterations())
}

// runS3 builds spec.md §8's "trivial inline" scenario: a call to a
// 1-use function whose body is the identity of its first argument.
func runS3() {
	driver.Reset()
	fmt.Println("S3: trivial inline")

	fn := graph.NewFun()
	parm0 := graph.NewParm(fn, 0)
	calleeMem := graph.NewStartMem()
	ret := graph.NewRet(fn, calleeMem, parm0)

	ctrl := graph.NewFun()
	callMem := graph.NewStartMem()
	fidx := bits.SplitFidx(bits.SplitFidx(1))
	fptr := graph.NewCon(lattice.NewFunPtr(bits.MakeFidx(false, fidx), 1, false, lattice.Any, lattice.Any))
	arg := graph.NewCon(lattice.NewIntCon(9))
	call := graph.NewCall(ctrl, callMem, fptr, arg)
	call.SetFidxs(bits.MakeFidx(false, fidx))

	epi := graph.NewCallEpi(call)
	epi.CheckAndWire(call, func(bit uint) (graph.Callee, bool) {
		if bit != fidx {
			return graph.Callee{}, false
		}
		return graph.Callee{Fidx: bit, Fun: fn, Ret: ret}, true
	}, nil)

	d := driver.New()
	d.Enqueue(epi)
	d.Run()

	fmt.Printf("  inlined    = %v\n", epi.Inlined())
	fmt.Printf("  copy_rez   = %v\n", epi.CopyRez().Val())
	fmt.Printf("  iterations = %d\n\n", d.Iterations())
}

// runS4 builds spec.md §8's "nil-excluded predicate" scenario: an If
// whose predicate has been narrowed to exclude nil, so the false branch
// is dead.
func runS4() {
	fmt.Println("S4: nil-excluded predicate")

	ctrl := graph.NewFun()
	ctrl.SetVal(lattice.Ctrl)
	pred := graph.NewCon(lattice.NewInt(32, false))
	pred.SetVal(lattice.Meet(pred.Val(), lattice.XNil))

	n := graph.NewIf(ctrl, pred)
	fmt.Printf("  if_result  = %v\n", n.IfResult())
	fmt.Printf("  is_copy(1) is ctrl = %v\n", n.IsCopy(1) == ctrl)
	fmt.Printf("  is_copy(0) is nil  = %v\n", n.IsCopy(0) == nil)
}
