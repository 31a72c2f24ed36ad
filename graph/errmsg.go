// Copyright (c) 2026 flowc authors
// SPDX-License-Identifier: MIT

package graph

import "fmt"

// ErrKind enumerates spec.md §7's error kinds.
type ErrKind uint8

const (
	ErrTypeMismatch ErrKind = iota
	ErrNilViolation
	ErrForwardRef
	ErrArityMismatch
	ErrArgConversion
)

func (k ErrKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrNilViolation:
		return "NilViolation"
	case ErrForwardRef:
		return "ForwardRef"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrArgConversion:
		return "ArgConversion"
	default:
		return "Err"
	}
}

// ErrMsg is the one Go-level error type at the core (spec.md §6
// "Errors surface as ErrMsg values carrying parse location (opaque
// pointer), code, and text"), following the teacher's plain-struct-
// with-Error()-method convention rather than a wrapping framework.
type ErrMsg struct {
	Kind ErrKind
	Loc  any // opaque parse-location handle, owned by the parser
	Text string
}

func (e *ErrMsg) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

// NewErrMsg constructs an ErrMsg at loc.
func NewErrMsg(kind ErrKind, loc any, text string) *ErrMsg {
	return &ErrMsg{Kind: kind, Loc: loc, Text: text}
}
