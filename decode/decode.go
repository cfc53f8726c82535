// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package decode implements a combinator library for decoding indexed JSON
// values into typed results.
//
// A Decoder is a reusable rule: given a decode context and a cursor, it
// produces a value or fails with a typed error. Decoders for compound shapes
// are assembled from the primitives in this package by ordinary function
// composition; no decoder mutates shared state other than the session history
// threaded through its cursor.
//
// Evaluate a decoder against an index with Run:
//
//	type point struct{ X, Y int64 }
//
//	pointDec := decode.Bind(decode.AtKey("x", decode.Int64()),
//	   func(x int64) decode.Decoder[point] {
//	      return decode.Map(decode.AtKey("y", decode.Int64()),
//	         func(y int64) point { return point{X: x, Y: y} })
//	   })
//
//	p, err := decode.Run(nil, pointDec, ix)
//
// In case of failure the returned error has concrete type *Failure and
// carries the full movement history of the session, so the caller can
// reconstruct the exact path taken from the document root.
package decode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jzip"
	"github.com/creachadair/jzip/cursor"
)

// A NumberFunc converts the source text of a JSON number to a caller-defined
// representation. It is the injection point for arbitrary-precision or
// otherwise specialized numeric types.
type NumberFunc func(text []byte) (any, error)

// A Context carries the ambient settings of a decode session. A nil *Context
// is ready for use and provides the default values described on its fields.
// Contexts are read-only during a decode and may be shared among sessions.
type Context struct {
	// Number converts number text for the Number decoder.
	// If nil, numbers are converted to float64 via strconv.ParseFloat.
	Number NumberFunc
}

func (c *Context) number(text []byte) (any, error) {
	if c != nil && c.Number != nil {
		return c.Number(text)
	}
	return strconv.ParseFloat(string(text), 64)
}

// A Decoder decodes the focus of a cursor into a value of type A. Decoders
// are stateless and reusable: the same decoder may be applied to any number
// of cursors and sessions, including concurrently.
type Decoder[A any] func(*Context, cursor.Cursor) (A, error)

// Run evaluates d at the root of in within a fresh session. A nil ctx is
// equivalent to new(Context). If decoding fails, the returned error has
// concrete type *Failure and carries the session's movement history.
func Run[A any](ctx *Context, d Decoder[A], in *jzip.Index) (A, error) {
	c := cursor.New(in)
	v, err := d(ctx, c)
	if err != nil {
		var zero A
		return zero, &Failure{Err: err, Trail: c.History().Steps()}
	}
	return v, nil
}

// A Failure is the error reported by Run. It pairs the failure itself with
// the ordered movement history that preceded it.
type Failure struct {
	Err   error         // the underlying *cursor.Error
	Trail []cursor.Step // every successful movement, in order
}

func (f *Failure) Error() string {
	if len(f.Trail) == 0 {
		return f.Err.Error()
	}
	ss := make([]string, len(f.Trail))
	for i, s := range f.Trail {
		ss[i] = s.String()
	}
	return fmt.Sprintf("%s (after %s)", f.Err.Error(), strings.Join(ss, " "))
}

func (f *Failure) Unwrap() error { return f.Err }
