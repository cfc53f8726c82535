// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package cursor

import (
	"fmt"
	"strings"
)

// An Op is the kind of a cursor movement.
type Op byte

// Constants defining the valid Op values.
const (
	opInvalid Op = iota

	OpDown   // move to the first child
	OpUp     // move to the parent
	OpRight  // move some number of next siblings
	OpLeft   // move some number of previous siblings
	OpAt     // land on the value of a matched object key
	OpToRank // jump to an arbitrary rank
)

// A Move describes a single attempted cursor movement. It is pure data, used
// for diagnostics: a failed movement carries the Move that was attempted, and
// each successful movement is recorded in the session history.
type Move struct {
	Op    Op
	Count int    // for OpRight and OpLeft, the number of sibling steps
	Key   string // for OpAt, the key that was matched
	Rank  int    // for OpToRank, the requested rank
}

func (m Move) String() string {
	switch m.Op {
	case OpDown:
		return "down"
	case OpUp:
		return "up"
	case OpRight:
		return fmt.Sprintf("right(%d)", m.Count)
	case OpLeft:
		return fmt.Sprintf("left(%d)", m.Count)
	case OpAt:
		return fmt.Sprintf("at(%q)", m.Key)
	case OpToRank:
		return fmt.Sprintf("toRank(%d)", m.Rank)
	}
	return "invalid"
}

// A Step records one successful movement and the rank it arrived at.
type Step struct {
	Move Move
	Rank int
}

func (s Step) String() string { return fmt.Sprintf("%s@%d", s.Move, s.Rank) }

// A History is the append-only log of the successful movements of one decode
// session, in chronological order. All cursors derived from a common origin
// share a single history; a session must not be shared by concurrent decodes.
type History struct {
	steps []Step
}

// Len reports the number of steps recorded in h.
func (h *History) Len() int { return len(h.steps) }

// Steps returns a copy of the recorded steps in order.
func (h *History) Steps() []Step { return append([]Step(nil), h.steps...) }

// Rewind truncates h to its first n steps. It is intended for alternative
// combinators, which use it to drop the moves of a failed branch they have
// caught and discarded; the steps of the surviving branch are unaffected.
// Rewind panics if n exceeds the current length.
func (h *History) Rewind(n int) { h.steps = h.steps[:n] }

func (h *History) add(m Move, rank int) { h.steps = append(h.steps, Step{Move: m, Rank: rank}) }

func (h *History) String() string {
	if len(h.steps) == 0 {
		return "(empty)"
	}
	var sb strings.Builder
	for i, s := range h.steps {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
