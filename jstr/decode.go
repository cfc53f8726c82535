// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstr

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// Decode parses text, which must be a complete quoted JSON string literal
// including its quotation marks, into its logical character sequence. The
// sequence records each character exactly as written: escape sequences are
// preserved as Escaped or Hex values with hex digit case intact, so that
// Append(nil, s) reproduces text byte for byte.
func Decode(text []byte) (String, error) {
	src := mem.B(text)
	if src.Len() < 2 || src.At(0) != '"' || src.At(src.Len()-1) != '"' {
		return nil, errors.New("missing quotations")
	}
	return decode(src.SliceTo(src.Len() - 1).SliceFrom(1))
}

func decode(src mem.RO) (String, error) {
	out := make(String, 0, src.Len())
	for src.Len() != 0 {
		if b := src.At(0); b == '\\' {
			c, n, err := decodeEscape(src)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
			src = src.SliceFrom(n)
			continue
		} else if b == '"' {
			return nil, errors.New("unescaped quotation mark")
		} else if b < ' ' {
			return nil, fmt.Errorf("unescaped control %q", b)
		}
		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n == 1 {
			// A genuine replacement rune decodes with width 3.
			return nil, errors.New("invalid UTF-8 encoding")
		}
		out = append(out, Unescaped(r))
		src = src.SliceFrom(n)
	}
	return out, nil
}

// decodeEscape decodes the escape sequence at the front of src, whose first
// byte is known to be a reverse solidus, and reports its length in bytes.
func decodeEscape(src mem.RO) (Char, int, error) {
	if src.Len() < 2 {
		return nil, 0, errors.New("incomplete escape sequence")
	}
	switch b := src.At(1); b {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return Escaped(b), 2, nil
	case 'u':
		if src.Len() < 6 {
			return nil, 0, errors.New("incomplete Unicode escape")
		}
		var h Hex
		for i := 0; i < 4; i++ {
			d := src.At(2 + i)
			if !isHexDigit(d) {
				return nil, 0, fmt.Errorf("invalid hex digit %q", d)
			}
			h[i] = d
		}
		return h, 6, nil
	default:
		return nil, 0, fmt.Errorf("invalid %q after escape", b)
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
