// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jzip implements a JSON codec core built on a succinct structural
// index.
//
// # Indexing
//
// The Index type records the structure of a single JSON value as a
// balanced-parentheses sequence over the raw input text: each node of the
// value contributes an open and a close position, and a node is identified by
// the integer rank of its open position. The index answers structural queries
// (first child, parent, next sibling) and maps each node to its byte span in
// the input, without building a tree of live nodes.
//
// Construct an Index by parsing source text:
//
//	ix, err := jzip.Parse(data, nil)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The input must comprise exactly one JSON value. Parse validates the full
// grammar; errors report the byte offset at which parsing stopped.
//
// # Navigation and decoding
//
// The cursor subpackage provides a Cursor, a cheap copyable position within an
// Index supporting local movement (down, up, left, right, to a key, to an
// arbitrary rank). Every movement either produces a new cursor or fails with a
// typed error; successful movements are recorded in a history log that a
// failed decode reports back to the caller.
//
// The decode subpackage builds a combinator library on top of the cursor:
// reusable Decoder values for scalars, object keys, arrays, alternatives, and
// refinements, composed by ordinary function application.
//
// # Strings
//
// The jstr subpackage models JSON strings as sequences of logical characters
// that track exactly which characters are escaped, and renders them back to
// source text under the escaping rules of RFC 8259 §7. The Quote and Unquote
// functions in this package are convenience wrappers over that model.
package jzip
