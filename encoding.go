// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jzip

import (
	"github.com/creachadair/jzip/jstr"
)

// Quote encodes src as a JSON string literal. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return jstr.FromString(src).JSON() }

// Unquote decodes a JSON string literal, such as the text of a string node
// returned by Index.TextAt. Double quotation marks are removed and escape
// sequences are replaced with their unescaped equivalents.
func Unquote(src []byte) (string, error) {
	dec, err := jstr.Decode(src)
	if err != nil {
		return "", err
	}
	return dec.Unescape(), nil
}
