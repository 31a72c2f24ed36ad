// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package lattice

import (
	"sync"

	"github.com/flowc-lang/flowc/internal/pool"
)

// arena is a generic hash-consing pool for one flow-type variant,
// grounded on the teacher's per-node free-list (bart's pool.go,
// multipool.go: one pool per node shape) and spec.md §9 ("Hash-consing
// with free-lists... on duplicate-on-insert, return the arena slot to a
// free list").
type arena[T any] struct {
	mu    sync.Mutex
	table map[uint64][]*T
	free  *pool.Pool[T]
	hash  func(*T) uint64
	eq    func(*T, *T) bool
	reset func(*T)
}

func newArena[T any](hash func(*T) uint64, eq func(*T, *T) bool, reset func(*T)) *arena[T] {
	return &arena[T]{
		table: make(map[uint64][]*T),
		free:  pool.New[T](),
		hash:  hash,
		eq:    eq,
		reset: reset,
	}
}

// intern returns the canonical, shared instance equal to v. If v is a
// duplicate of an already-interned value it is returned to the free
// list instead of being kept.
func (a *arena[T]) intern(v *T) *T {
	h := a.hash(v)
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, e := range a.table[h] {
		if a.eq(e, v) {
			a.free.Put(v, a.reset)
			return e
		}
	}
	a.table[h] = append(a.table[h], v)
	return v
}

// alloc draws a scratch value from the free list, for callers that want
// to build into a pooled value before calling intern.
func (a *arena[T]) alloc() *T { return a.free.Get() }

func mixHash(h uint64, parts ...uint64) uint64 {
	for _, p := range parts {
		h ^= p
		h *= 1099511628211
	}
	return h
}

const fnvOffset uint64 = 1469598103934665603
