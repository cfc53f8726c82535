// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements navigation over a succinctly indexed JSON value.
//
// A Cursor is a position (rank) within a jzip.Index, together with the shared
// history log of its decode session. Cursors are cheap copyable values: every
// movement returns a new cursor and leaves the original usable, so a caller
// can hold a position, attempt a traversal, and resume from the held position
// if the attempt fails. Movements never panic; each edge case is a typed
// *Error (see error.go), and each success appends one entry to the session
// history for diagnostics.
package cursor

import (
	"github.com/creachadair/jzip"
)

// A Cursor is a position within an indexed JSON value. The zero value is not
// usable; construct cursors with New and derive all others by movement.
type Cursor struct {
	in   *jzip.Index
	pos  int
	hist *History
}

// New constructs a cursor positioned at the root of in, beginning a new
// decode session with an empty history.
func New(in *jzip.Index) Cursor {
	return Cursor{in: in, pos: in.Root(), hist: &History{}}
}

// Index returns the index the cursor navigates.
func (c Cursor) Index() *jzip.Index { return c.in }

// Rank reports the rank of the cursor's focus.
func (c Cursor) Rank() int { return c.pos }

// Kind reports the JSON type of the cursor's focus.
func (c Cursor) Kind() jzip.Kind { return c.in.KindAt(c.pos) }

// Text returns the undecoded source text of the cursor's focus.
func (c Cursor) Text() []byte { return c.in.TextAt(c.pos) }

// History returns the history log shared by all cursors of this session.
func (c Cursor) History() *History { return c.hist }

// Down moves to the first child of the focus. It fails with FailedToMove if
// the focus is a scalar or an empty array or object.
func (c Cursor) Down() (Cursor, error) {
	if n, ok := c.in.FirstChild(c.pos); ok {
		return c.moved(Move{Op: OpDown}, n), nil
	}
	return c, c.failMove(Move{Op: OpDown})
}

// Up moves to the parent of the focus. It fails with FailedToMove at the
// document root.
func (c Cursor) Up() (Cursor, error) {
	if n, ok := c.in.Parent(c.pos); ok {
		return c.moved(Move{Op: OpUp}, n), nil
	}
	return c, c.failMove(Move{Op: OpUp})
}

// Right1 moves to the next sibling of the focus. It is shorthand for
// RightN(1).
func (c Cursor) Right1() (Cursor, error) { return c.RightN(1) }

// RightN applies the next-sibling movement n times. The operation is
// all-or-nothing: if any intermediate step has no sibling it fails with
// FailedToMove and no entry is recorded.
func (c Cursor) RightN(n int) (Cursor, error) {
	m := Move{Op: OpRight, Count: n}
	cur := c.pos
	for i := 0; i < n; i++ {
		next, ok := c.in.NextSibling(cur)
		if !ok {
			return c, c.failMove(m)
		}
		cur = next
	}
	return c.moved(m, cur), nil
}

// Left1 moves to the previous sibling of the focus. It is shorthand for
// LeftN(1).
func (c Cursor) Left1() (Cursor, error) { return c.LeftN(1) }

// LeftN walks n previous-sibling steps back through the enclosing container.
// It fails with InputOutOfBounds if fewer than n earlier siblings exist.
func (c Cursor) LeftN(n int) (Cursor, error) {
	m := Move{Op: OpLeft, Count: n}
	cur := c.pos
	for i := 0; i < n; i++ {
		prev, ok := c.in.PrevSibling(cur)
		if !ok {
			return c, &Error{Kind: InputOutOfBounds, Move: m, Rank: cur}
		}
		cur = prev
	}
	return c.moved(m, cur), nil
}

// ToRank jumps directly to the given rank. It fails with InputOutOfBounds
// unless the index confirms rank is a valid node.
func (c Cursor) ToRank(rank int) (Cursor, error) {
	m := Move{Op: OpToRank, Rank: rank}
	if !c.in.IsValid(rank) {
		return c, &Error{Kind: InputOutOfBounds, Move: m, Rank: rank}
	}
	return c.moved(m, rank), nil
}

// ToKey scans rightward for the named object key and lands on its value.
//
// The cursor must already be positioned on a key slot inside an object, i.e.
// after a Down into the object. If the focus decodes to key, ToKey records an
// at(key) step and advances one sibling to the associated value. Otherwise it
// advances two siblings (past the value, onto the next key) and scans again,
// recording a right(2) step for each pair skipped. It fails with KeyNotFound
// when the object is exhausted, or KeyDecodeFailed if a focus in key position
// is not decodable as a string.
//
// On an object with duplicate keys ToKey lands on the first match in
// left-to-right order; later duplicates are not reachable through it.
func (c Cursor) ToKey(key string) (Cursor, error) {
	cur := c
	for {
		if cur.Kind() != jzip.String {
			return c, &Error{Kind: KeyDecodeFailed, Rank: cur.pos}
		}
		got, err := jzip.Unquote(cur.Text())
		if err != nil {
			return c, &Error{Kind: KeyDecodeFailed, Rank: cur.pos}
		}
		if got == key {
			val, ok := cur.in.NextSibling(cur.pos)
			if !ok {
				// A key slot always has a value sibling in a valid index.
				return c, &Error{Kind: InputOutOfBounds, Rank: cur.pos}
			}
			return cur.moved(Move{Op: OpAt, Key: key}, val), nil
		}
		next, err := cur.RightN(2)
		if err != nil {
			return c, &Error{Kind: KeyNotFound, Key: key, Rank: cur.pos}
		}
		cur = next
	}
}

// moved returns a copy of c at rank, recording the movement in the session
// history.
func (c Cursor) moved(m Move, rank int) Cursor {
	c.hist.add(m, rank)
	return Cursor{in: c.in, pos: rank, hist: c.hist}
}

func (c Cursor) failMove(m Move) error {
	return &Error{Kind: FailedToMove, Move: m, Rank: c.pos}
}
