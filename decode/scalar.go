// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"strconv"

	"github.com/creachadair/jzip"
	"github.com/creachadair/jzip/cursor"
	"github.com/creachadair/jzip/jstr"
)

// Scalar returns a decoder that slices the source text of the focus and
// applies conv to it. It fails with InputOutOfBounds if the focus is not an
// indexed node, or ConversionFailure if conv rejects the text. Scalar imposes
// no type check of its own; combine it with WithKind to require one.
func Scalar[A any](conv func(text []byte) (A, error)) Decoder[A] {
	return func(_ *Context, c cursor.Cursor) (A, error) {
		var zero A
		if !c.Index().IsValid(c.Rank()) {
			return zero, &cursor.Error{Kind: cursor.InputOutOfBounds, Rank: c.Rank()}
		}
		v, err := conv(c.Text())
		if err != nil {
			return zero, &cursor.Error{Kind: cursor.ConversionFailure, Rank: c.Rank(), Desc: err.Error()}
		}
		return v, nil
	}
}

// Text decodes the undecoded source text of any focus.
func Text() Decoder[[]byte] {
	return Scalar(func(text []byte) ([]byte, error) { return text, nil })
}

// String decodes a string focus to its plain (unescaped) content.
func String() Decoder[string] {
	return WithKind(jzip.String, Scalar(func(text []byte) (string, error) {
		return jzip.Unquote(text)
	}))
}

// JString decodes a string focus to its logical character sequence,
// preserving the escapes exactly as written in the source.
func JString() Decoder[jstr.String] {
	return WithKind(jzip.String, Scalar(jstr.Decode))
}

// Bool decodes a boolean focus.
func Bool() Decoder[bool] {
	return WithKind(jzip.Bool, Scalar(func(text []byte) (bool, error) {
		return string(text) == "true", nil
	}))
}

// Null decodes a null focus, yielding nil.
func Null() Decoder[any] {
	return WithKind(jzip.Null, Scalar(func([]byte) (any, error) { return nil, nil }))
}

// Int64 decodes a number focus as an int64. Numbers with fractional or
// exponent parts fail with ConversionFailure.
func Int64() Decoder[int64] {
	return WithKind(jzip.Number, Scalar(func(text []byte) (int64, error) {
		return strconv.ParseInt(string(text), 10, 64)
	}))
}

// Float64 decodes a number focus as a float64.
func Float64() Decoder[float64] {
	return WithKind(jzip.Number, Scalar(func(text []byte) (float64, error) {
		return strconv.ParseFloat(string(text), 64)
	}))
}

// Number decodes a number focus using the conversion hook of the session
// context (see Context.Number).
func Number() Decoder[any] {
	return WithKind(jzip.Number, func(ctx *Context, c cursor.Cursor) (any, error) {
		return Scalar(ctx.number)(ctx, c)
	})
}
