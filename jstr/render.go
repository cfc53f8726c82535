// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstr

import (
	"io"
	"unicode/utf8"
)

// A Sink accumulates rendered output. It is satisfied by *bytes.Buffer,
// *strings.Builder, and *bufio.Writer among others.
type Sink interface {
	io.Writer
	io.ByteWriter
}

// Render writes the quoted string literal denoted by s to w, including the
// enclosing quotation marks. Each character is written in a single pass with
// no intermediate per-character strings, so rendering is linear in the length
// of s regardless of the sink.
func Render(w Sink, s String) error {
	if err := w.WriteByte('"'); err != nil {
		return err
	}
	var rbuf [utf8.UTFMax + 2]byte
	for _, c := range s {
		var err error
		switch t := c.(type) {
		case Unescaped:
			if r := rune(t); r < utf8.RuneSelf {
				err = w.WriteByte(byte(r))
			} else {
				n := utf8.EncodeRune(rbuf[:], r)
				_, err = w.Write(rbuf[:n])
			}
		case Escaped:
			rbuf[0], rbuf[1] = '\\', byte(t)
			_, err = w.Write(rbuf[:2])
		case Hex:
			rbuf[0], rbuf[1] = '\\', 'u'
			copy(rbuf[2:], t[:])
			_, err = w.Write(rbuf[:6])
		}
		if err != nil {
			return err
		}
	}
	return w.WriteByte('"')
}

// Append appends the quoted string literal denoted by s to buf and returns
// the extended slice.
func Append(buf []byte, s String) []byte {
	buf = append(buf, '"')
	for _, c := range s {
		buf = c.append(buf)
	}
	return append(buf, '"')
}

// JSON returns the quoted string literal denoted by s.
func (s String) JSON() string { return string(Append(nil, s)) }
