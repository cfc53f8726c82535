// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jstr models JSON strings as sequences of logical characters.
//
// A Char records a single character of a JSON string together with how it is
// written in source text: either literally (Unescaped) or as one of the escape
// sequences of RFC 8259 §7 (Escaped, Hex). A String is an ordered sequence of
// Char values. Rendering a String always yields a syntactically valid quoted
// string literal, and decoding that literal yields the same sequence back, so
// the representation is round-trip exact including the choice of escapes and
// the case of hex digits.
package jstr

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// A Char is one logical character of a JSON string. The concrete types of a
// Char are Unescaped, Escaped, and Hex.
type Char interface {
	append([]byte) []byte
	isChar()
}

// An Unescaped is a character that appears literally in the source text.
// Per the grammar it must not be a control character (below U+0020), a
// quotation mark, or a reverse solidus; use NewUnescaped, FromString, or
// Decode to construct values that respect this invariant. A value conversion
// bypassing that check still renders as a valid literal: characters the
// grammar forbids in source text are emitted as their minimal escapes.
type Unescaped rune

// NewUnescaped returns r as an Unescaped character. It reports an error if r
// is not valid in source text unescaped: a control character, a quotation
// mark, a reverse solidus, or not a valid Unicode code point.
func NewUnescaped(r rune) (Unescaped, error) {
	switch {
	case r == '"', r == '\\':
		return 0, fmt.Errorf("%q must be escaped", r)
	case r >= 0 && r < ' ':
		return 0, fmt.Errorf("unescaped control %q", r)
	case !utf8.ValidRune(r):
		return 0, fmt.Errorf("invalid rune %#x", r)
	}
	return Unescaped(r), nil
}

// An Escaped is a two-character escape sequence, recorded as the byte
// following the reverse solidus. The valid values are enumerated below.
type Escaped byte

// Constants defining the valid Escaped values.
const (
	Quote     Escaped = '"'  // \"  quotation mark
	Backslash Escaped = '\\' // \\  reverse solidus
	Solidus   Escaped = '/'  // \/  solidus
	Backspace Escaped = 'b'  // \b  backspace
	FormFeed  Escaped = 'f'  // \f  form feed
	Newline   Escaped = 'n'  // \n  line feed
	Return    Escaped = 'r'  // \r  carriage return
	Tab       Escaped = 't'  // \t  horizontal tab
)

// A Hex is a six-character escape sequence \uXXXX, recorded as its four hex
// digits. Digit case is preserved exactly as written.
type Hex [4]byte

func (u Unescaped) isChar() {}
func (e Escaped) isChar()   {}
func (h Hex) isChar()       {}

func (u Unescaped) append(buf []byte) []byte {
	// A value conversion can smuggle in a character the grammar requires to
	// be escaped; emit its escape so the output stays a valid literal.
	switch r := rune(u); {
	case r == '"', r == '\\':
		return append(buf, '\\', byte(r))
	case r >= 0 && r < ' ':
		return controlEscape(r).append(buf)
	default:
		return utf8.AppendRune(buf, r)
	}
}
func (e Escaped) append(buf []byte) []byte   { return append(buf, '\\', byte(e)) }
func (h Hex) append(buf []byte) []byte {
	return append(buf, '\\', 'u', h[0], h[1], h[2], h[3])
}

// Rune returns the character value h denotes. A Hex encoding a UTF-16
// surrogate half does not denote a character by itself; Rune reports false
// for such values (see String.Unescape for pair handling).
func (h Hex) Rune() (rune, bool) {
	v := hexVal(h[0])<<12 | hexVal(h[1])<<8 | hexVal(h[2])<<4 | hexVal(h[3])
	if utf16.IsSurrogate(rune(v)) {
		return rune(v), false
	}
	return rune(v), true
}

var hexDigit = []byte("0123456789abcdef")

func hexVal(b byte) rune {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0')
	case b >= 'a' && b <= 'f':
		return rune(b-'a') + 10
	default:
		return rune(b-'A') + 10
	}
}

// A String is an ordered sequence of logical characters.
type String []Char

// FromString converts a plain string to its logical character sequence,
// choosing the minimal escape for each character: characters legal in source
// text are left unescaped, control characters use their short escapes where
// the grammar defines one and \u00XX otherwise, and quotation marks and
// reverse solidi use their two-character escapes.
//
// As a special case the replacement rune U+FFFD and the line and paragraph
// separators U+2028 and U+2029 are hex-escaped, so that rendered output is
// safe to embed in JavaScript source and survives re-encoding of malformed
// UTF-8 input.
func FromString(s string) String {
	out := make(String, 0, len(s))
	src := mem.S(s)
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)
		switch {
		case r == '"':
			out = append(out, Quote)
		case r == '\\':
			out = append(out, Backslash)
		case r < ' ':
			out = append(out, controlEscape(r))
		case r == '\ufffd', r == '\u2028', r == '\u2029':
			out = append(out, Hex{
				hexDigit[r>>12&15], hexDigit[r>>8&15], hexDigit[r>>4&15], hexDigit[r&15],
			})
		default:
			out = append(out, Unescaped(r))
		}
	}
	return out
}

// controlEscape returns the minimal escape for a control character below
// U+0020: the short escape where the grammar defines one, \u00XX otherwise.
func controlEscape(r rune) Char {
	switch r {
	case '\b':
		return Backspace
	case '\f':
		return FormFeed
	case '\n':
		return Newline
	case '\r':
		return Return
	case '\t':
		return Tab
	}
	return Hex{'0', '0', hexDigit[r>>4], hexDigit[r&15]}
}

// Unescape returns the plain text content of s, with escape sequences
// replaced by the characters they denote. Adjacent Hex characters encoding a
// UTF-16 surrogate pair are combined; an unpaired surrogate half is replaced
// by the Unicode replacement rune.
func (s String) Unescape() string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i].(type) {
		case Unescaped:
			buf = utf8.AppendRune(buf, rune(c))
		case Escaped:
			buf = append(buf, escByte(c))
		case Hex:
			r, ok := c.Rune()
			if ok {
				buf = utf8.AppendRune(buf, r)
				continue
			}
			if next, pair := pairRune(r, s, i+1); pair {
				buf = utf8.AppendRune(buf, next)
				i++
				continue
			}
			buf = utf8.AppendRune(buf, utf8.RuneError)
		}
	}
	return string(buf)
}

// pairRune combines the surrogate half r with a following Hex at s[i], if one
// exists and completes the pair.
func pairRune(r rune, s String, i int) (rune, bool) {
	if i >= len(s) {
		return 0, false
	}
	h, ok := s[i].(Hex)
	if !ok {
		return 0, false
	}
	lo, valid := h.Rune()
	if valid {
		return 0, false // not a surrogate half
	}
	if c := utf16.DecodeRune(r, lo); c != utf8.RuneError {
		return c, true
	}
	return 0, false
}

func escByte(e Escaped) byte {
	switch e {
	case Backspace:
		return '\b'
	case FormFeed:
		return '\f'
	case Newline:
		return '\n'
	case Return:
		return '\r'
	case Tab:
		return '\t'
	default:
		return byte(e) // quote, backslash, solidus
	}
}
