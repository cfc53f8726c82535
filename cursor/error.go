// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package cursor

import (
	"errors"
	"fmt"

	"github.com/creachadair/jzip"
)

// An ErrKind distinguishes the failure cases of cursor movement and decoding.
// The set is closed; every failure reported by this module and by the decode
// package is an *Error with one of these kinds.
type ErrKind byte

// Constants defining the valid ErrKind values.
const (
	FailedToMove      ErrKind = iota + 1 // a structural movement had no valid target
	InputOutOfBounds                     // a computed or requested rank is not indexed
	KeyNotFound                          // an object scan exhausted its keys without a match
	KeyDecodeFailed                      // an expected object key could not be decoded as text
	TypeMismatch                         // the focus has the wrong JSON type
	ConversionFailure                    // scalar text was rejected by a conversion
)

// An Error is a movement or decode failure. Kind selects which of the other
// fields are meaningful.
type Error struct {
	Kind ErrKind
	Move Move      // for FailedToMove, the movement that was attempted
	Rank int       // the rank at (or target of) the failure
	Key  string    // for KeyNotFound, the key that was sought
	Want jzip.Kind // for TypeMismatch, the required JSON type
	Got  jzip.Kind // for TypeMismatch, the JSON type found
	Desc string    // for ConversionFailure, a description of the rejection
}

func (e *Error) Error() string {
	switch e.Kind {
	case FailedToMove:
		return fmt.Sprintf("failed to move %s from rank %d", e.Move, e.Rank)
	case InputOutOfBounds:
		return fmt.Sprintf("rank %d out of bounds", e.Rank)
	case KeyNotFound:
		return fmt.Sprintf("key %q not found", e.Key)
	case KeyDecodeFailed:
		return fmt.Sprintf("cannot decode key at rank %d", e.Rank)
	case TypeMismatch:
		return fmt.Sprintf("got %v, want %v at rank %d", e.Got, e.Want, e.Rank)
	case ConversionFailure:
		return fmt.Sprintf("conversion failed at rank %d: %s", e.Rank, e.Desc)
	}
	return "invalid error"
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
