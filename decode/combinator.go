// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"slices"

	"github.com/creachadair/jzip"
	"github.com/creachadair/jzip/cursor"
)

// Map returns a decoder that applies f to the result of d.
func Map[A, B any](d Decoder[A], f func(A) B) Decoder[B] {
	return func(ctx *Context, c cursor.Cursor) (B, error) {
		v, err := d(ctx, c)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(v), nil
	}
}

// Bind returns a decoder that sequences d with the decoder chosen by f from
// its result. The chosen decoder resumes from the same cursor.
func Bind[A, B any](d Decoder[A], f func(A) Decoder[B]) Decoder[B] {
	return func(ctx *Context, c cursor.Cursor) (B, error) {
		v, err := d(ctx, c)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(v)(ctx, c)
	}
}

// Value returns a decoder that ignores its focus and yields v.
func Value[A any](v A) Decoder[A] {
	return func(*Context, cursor.Cursor) (A, error) { return v, nil }
}

// Fail returns a decoder that always fails with ConversionFailure carrying
// the given description.
func Fail[A any](desc string) Decoder[A] {
	return func(_ *Context, c cursor.Cursor) (A, error) {
		var zero A
		return zero, &cursor.Error{Kind: cursor.ConversionFailure, Rank: c.Rank(), Desc: desc}
	}
}

// WithKind returns a decoder that runs d only if the focus has the given JSON
// type, and otherwise fails with TypeMismatch.
func WithKind[A any](want jzip.Kind, d Decoder[A]) Decoder[A] {
	return func(ctx *Context, c cursor.Cursor) (A, error) {
		if got := c.Kind(); got != want {
			var zero A
			return zero, &cursor.Error{Kind: cursor.TypeMismatch, Rank: c.Rank(), Want: want, Got: got}
		}
		return d(ctx, c)
	}
}

// FromKey scans for key from the cursor's current position, which must be a
// key slot inside an object (see Cursor.ToKey), and decodes the associated
// value with d.
func FromKey[A any](key string, d Decoder[A]) Decoder[A] {
	return func(ctx *Context, c cursor.Cursor) (A, error) {
		vc, err := c.ToKey(key)
		if err != nil {
			var zero A
			return zero, err
		}
		return d(ctx, vc)
	}
}

// AtKey is as FromKey, but first moves down into the object under the focus.
// It is the usual entry point for record decoders positioned on an object.
func AtKey[A any](key string, d Decoder[A]) Decoder[A] {
	return func(ctx *Context, c cursor.Cursor) (A, error) {
		kc, err := c.Down()
		if err != nil {
			var zero A
			return zero, err
		}
		return FromKey(key, d)(ctx, kc)
	}
}

// FromKeyMaybe is as FromKey, but yields nil instead of failing when the key
// is not present. Errors other than KeyNotFound still propagate. The moves of
// an absent-key scan are discarded from the session history.
func FromKeyMaybe[A any](key string, d Decoder[A]) Decoder[*A] {
	return catchKeyNotFound(FromKey(key, d))
}

// AtKeyMaybe is as AtKey, but yields nil instead of failing when the key is
// not present. Errors other than KeyNotFound still propagate.
func AtKeyMaybe[A any](key string, d Decoder[A]) Decoder[*A] {
	return catchKeyNotFound(AtKey(key, d))
}

func catchKeyNotFound[A any](d Decoder[A]) Decoder[*A] {
	return func(ctx *Context, c cursor.Cursor) (*A, error) {
		mark := c.History().Len()
		v, err := d(ctx, c)
		if err == nil {
			return &v, nil
		}
		if cursor.IsKind(err, cursor.KeyNotFound) {
			c.History().Rewind(mark)
			return nil, nil
		}
		return nil, err
	}
}

// Fold returns a decoder that repeatedly decodes the focus with elem,
// combines each result into an accumulator seeded with seed, and then applies
// move to reach the next focus. Folding stops, without error, the first time
// move fails; the accumulator built so far is returned. An error from elem
// aborts the fold.
func Fold[A, B any](seed B, combine func(B, A) B, move func(cursor.Cursor) (cursor.Cursor, error), elem Decoder[A]) Decoder[B] {
	return func(ctx *Context, c cursor.Cursor) (B, error) {
		acc := seed
		cur := c
		for {
			v, err := elem(ctx, cur)
			if err != nil {
				var zero B
				return zero, err
			}
			acc = combine(acc, v)
			next, err := move(cur)
			if err != nil {
				return acc, nil
			}
			cur = next
		}
	}
}

// Rightward decodes the focus and each of its rightward siblings with elem,
// collecting the results in visit order.
func Rightward[A any](elem Decoder[A]) Decoder[[]A] {
	return Fold([]A{}, appendTo[A], cursor.Cursor.Right1, elem)
}

// Leftward decodes the focus and each of its leftward siblings with elem,
// collecting the results so that the leftmost sibling comes first.
func Leftward[A any](elem Decoder[A]) Decoder[[]A] {
	return Map(Fold([]A{}, appendTo[A], cursor.Cursor.Left1, elem),
		func(vs []A) []A { slices.Reverse(vs); return vs })
}

func appendTo[A any](vs []A, v A) []A { return append(vs, v) }

// List decodes an array focus by applying elem to each element in order. An
// empty array yields an empty (non-nil) slice; a non-array focus fails with
// TypeMismatch.
func List[A any](elem Decoder[A]) Decoder[[]A] {
	return WithKind(jzip.Array, func(ctx *Context, c cursor.Cursor) ([]A, error) {
		first, err := c.Down()
		if err != nil {
			return []A{}, nil // empty array
		}
		return Rightward(elem)(ctx, first)
	})
}

// NonEmpty decodes an array focus that must contain at least one element,
// decoding the first explicitly and folding the remainder rightward. An empty
// array fails with FailedToMove.
func NonEmpty[A any](elem Decoder[A]) Decoder[[]A] {
	return WithKind(jzip.Array, func(ctx *Context, c cursor.Cursor) ([]A, error) {
		first, err := c.Down()
		if err != nil {
			return nil, err
		}
		head, err := elem(ctx, first)
		if err != nil {
			return nil, err
		}
		next, err := first.Right1()
		if err != nil {
			return []A{head}, nil
		}
		tail, err := Rightward(elem)(ctx, next)
		if err != nil {
			return nil, err
		}
		return append([]A{head}, tail...), nil
	})
}

// An Entry is a single decoded key-value pair of an object.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Object decodes an object focus into its sequence of key-value pairs in
// document order, decoding each key with kd and each value with vd. An empty
// object yields an empty (non-nil) slice.
func Object[K, V any](kd Decoder[K], vd Decoder[V]) Decoder[[]Entry[K, V]] {
	return KeyedValues(kd, func(K) Decoder[V] { return vd })
}

// KeyedValues decodes a flat object whose keys are themselves meaningful
// values: each key is decoded with kd, and the associated value is decoded
// with the decoder vd chooses for that key.
func KeyedValues[K, V any](kd Decoder[K], vd func(K) Decoder[V]) Decoder[[]Entry[K, V]] {
	return WithKind(jzip.Object, func(ctx *Context, c cursor.Cursor) ([]Entry[K, V], error) {
		out := []Entry[K, V]{}
		kc, err := c.Down()
		if err != nil {
			return out, nil // empty object
		}
		for {
			k, err := kd(ctx, kc)
			if err != nil {
				return nil, err
			}
			vc, err := kc.Right1()
			if err != nil {
				return nil, err // a key slot always has a value sibling
			}
			v, err := vd(k)(ctx, vc)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry[K, V]{Key: k, Value: v})

			kc, err = vc.Right1()
			if err != nil {
				return out, nil // end of object
			}
		}
	})
}

// A Case associates a tag value with the result it selects in OneOf.
type Case[T comparable, A any] struct {
	Tag   T
	Value A
}

// OneOf decodes a tag from the focus with tag and scans cases in order for
// the first whose Tag equals the decoded value, yielding its Value. If no
// case matches, it fails with ConversionFailure carrying label. OneOf is the
// usual way to decode closed enumerations.
func OneOf[T comparable, A any](tag Decoder[T], label string, cases ...Case[T, A]) Decoder[A] {
	return func(ctx *Context, c cursor.Cursor) (A, error) {
		var zero A
		got, err := tag(ctx, c)
		if err != nil {
			return zero, err
		}
		for _, cs := range cases {
			if cs.Tag == got {
				return cs.Value, nil
			}
		}
		return zero, &cursor.Error{Kind: cursor.ConversionFailure, Rank: c.Rank(), Desc: label}
	}
}

// Alt returns a decoder that yields the result of the first of ds to succeed,
// each alternative starting from the same cursor. The moves of a failed
// alternative are discarded from the session history. If every alternative
// fails, the error of the last is reported; an empty Alt fails on all inputs.
func Alt[A any](ds ...Decoder[A]) Decoder[A] {
	return func(ctx *Context, c cursor.Cursor) (A, error) {
		h := c.History()
		var last error
		for _, d := range ds {
			mark := h.Len()
			v, err := d(ctx, c)
			if err == nil {
				return v, nil
			}
			h.Rewind(mark)
			last = err
		}
		var zero A
		if last == nil {
			last = &cursor.Error{Kind: cursor.ConversionFailure, Rank: c.Rank(), Desc: "no matching alternatives"}
		}
		return zero, last
	}
}

// OrNull decodes the focus with d, or accepts a JSON null yielding nil. Any
// failure of d on a non-null focus is reported as d's own error.
func OrNull[A any](d Decoder[A]) Decoder[*A] {
	return func(ctx *Context, c cursor.Cursor) (*A, error) {
		mark := c.History().Len()
		v, err := d(ctx, c)
		if err == nil {
			return &v, nil
		}
		c.History().Rewind(mark)
		if c.Kind() == jzip.Null {
			return nil, nil
		}
		return nil, err
	}
}

// A Prism is a partial, reversible classification between a base type A and a
// refined type B. Embed injects a refined value back into the base type;
// Match classifies a base value, reporting false when it has no refinement.
type Prism[A, B any] struct {
	Embed func(B) A
	Match func(A) (B, bool)
}

// Refine decodes the focus with d and classifies the result through p,
// yielding nil when the classification does not match.
func Refine[A, B any](p Prism[A, B], d Decoder[A]) Decoder[*B] {
	return func(ctx *Context, c cursor.Cursor) (*B, error) {
		v, err := d(ctx, c)
		if err != nil {
			return nil, err
		}
		if w, ok := p.Match(v); ok {
			return &w, nil
		}
		return nil, nil
	}
}

// RefineOrFail is as Refine, but a non-matching classification fails with
// ConversionFailure carrying desc.
func RefineOrFail[A, B any](p Prism[A, B], d Decoder[A], desc string) Decoder[B] {
	return func(ctx *Context, c cursor.Cursor) (B, error) {
		var zero B
		v, err := d(ctx, c)
		if err != nil {
			return zero, err
		}
		if w, ok := p.Match(v); ok {
			return w, nil
		}
		return zero, &cursor.Error{Kind: cursor.ConversionFailure, Rank: c.Rank(), Desc: desc}
	}
}
