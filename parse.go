// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jzip

import (
	"fmt"

	"github.com/tailscale/hujson"
)

// Options are optional settings for constructing an Index. A nil *Options is
// ready for use and provides default values as described.
type Options struct {
	// If true, the input is standardized before indexing so that JWCC input
	// (JSON with comments and trailing commas) is accepted. The byte offsets
	// reported by the resulting Index refer to the standardized text, which is
	// available from its Text method.
	AllowJWCC bool
}

func (o *Options) allowJWCC() bool { return o != nil && o.AllowJWCC }

// Parse constructs an Index over data, which must comprise exactly one JSON
// value, optionally surrounded by whitespace. The input is fully validated
// against the JSON grammar; in case of error the returned error includes the
// byte offset at which parsing stopped.
//
// The index retains data (or, if opts enables JWCC, its standardized form);
// the caller must not modify it afterward.
func Parse(data []byte, opts *Options) (*Index, error) {
	if opts.allowJWCC() {
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("standardize: %w", err)
		}
		data = std
	}
	p := &parser{in: data, ix: &Index{text: data}}
	p.skipSpace()
	if p.cur >= len(p.in) {
		return nil, p.failf("empty input")
	}
	if err := p.parseValue(-1); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.cur != len(p.in) {
		return nil, p.failf("unexpected data after value")
	}
	return p.ix, nil
}

// MustParse is as Parse with default options, but panics in case of error.
// It is intended for static well-formed inputs such as tests and examples.
func MustParse(data []byte) *Index {
	ix, err := Parse(data, nil)
	if err != nil {
		panic("jzip: " + err.Error())
	}
	return ix
}

type parser struct {
	in  []byte
	cur int
	ix  *Index
}

// parseValue consumes one JSON value and indexes it as a child of the node at
// rank parent (-1 for the root). The caller must have skipped whitespace.
func (p *parser) parseValue(parent int) error {
	switch ch := p.in[p.cur]; {
	case ch == '{':
		return p.parseObject(parent)
	case ch == '[':
		return p.parseArray(parent)
	case ch == '"':
		return p.parseString(parent)
	case isNumStart(ch):
		return p.parseNumber(parent)
	case ch == 't':
		return p.parseLiteral(parent, "true", Bool)
	case ch == 'f':
		return p.parseLiteral(parent, "false", Bool)
	case ch == 'n':
		return p.parseLiteral(parent, "null", Null)
	default:
		return p.failf("unexpected %q", ch)
	}
}

func (p *parser) parseObject(parent int) error {
	rank := p.ix.open(Object, p.cur, parent)
	p.cur++ // consume "{"
	p.skipSpace()
	if p.eof() {
		return p.failf("unclosed object")
	}
	if p.in[p.cur] == '}' {
		p.cur++
		p.ix.close(rank, p.cur)
		return nil
	}
	for {
		// Each member contributes two children: the key, then the value.
		if p.eof() || p.in[p.cur] != '"' {
			return p.failf("want object key")
		}
		if err := p.parseString(rank); err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() || p.in[p.cur] != ':' {
			return p.failf(`want ":" after object key`)
		}
		p.cur++
		p.skipSpace()
		if p.eof() {
			return p.failf("want object value")
		}
		if err := p.parseValue(rank); err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() {
			return p.failf("unclosed object")
		}
		switch p.in[p.cur] {
		case ',':
			p.cur++
			p.skipSpace()
		case '}':
			p.cur++
			p.ix.close(rank, p.cur)
			return nil
		default:
			return p.failf(`want "," or "}" in object`)
		}
	}
}

func (p *parser) parseArray(parent int) error {
	rank := p.ix.open(Array, p.cur, parent)
	p.cur++ // consume "["
	p.skipSpace()
	if p.eof() {
		return p.failf("unclosed array")
	}
	if p.in[p.cur] == ']' {
		p.cur++
		p.ix.close(rank, p.cur)
		return nil
	}
	for {
		if err := p.parseValue(rank); err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() {
			return p.failf("unclosed array")
		}
		switch p.in[p.cur] {
		case ',':
			p.cur++
			p.skipSpace()
			if p.eof() {
				return p.failf("want array value")
			}
		case ']':
			p.cur++
			p.ix.close(rank, p.cur)
			return nil
		default:
			return p.failf(`want "," or "]" in array`)
		}
	}
}

func (p *parser) parseString(parent int) error {
	rank := p.ix.open(String, p.cur, parent)
	p.cur++ // consume opening quote
	for {
		if p.eof() {
			return p.failf("unclosed string")
		}
		switch ch := p.in[p.cur]; {
		case ch == '"':
			p.cur++
			p.ix.close(rank, p.cur)
			return nil
		case ch == '\\':
			p.cur++
			if p.eof() {
				return p.failf("incomplete escape sequence")
			}
			switch p.in[p.cur] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				p.cur++
			case 'u':
				p.cur++
				for i := 0; i < 4; i++ {
					if p.eof() || !isHexDigit(p.in[p.cur]) {
						return p.failf("invalid Unicode escape")
					}
					p.cur++
				}
			default:
				return p.failf("invalid %q after escape", p.in[p.cur])
			}
		case ch < ' ':
			return p.failf("unescaped control %q", ch)
		default:
			p.cur++
		}
	}
}

func (p *parser) parseNumber(parent int) error {
	rank := p.ix.open(Number, p.cur, parent)
	if p.in[p.cur] == '-' {
		p.cur++
	}
	// Integer part: a single zero, or a nonzero digit followed by any digits.
	// Extra leading zeroes are disallowed by RFC 8259: 0.12 is OK, 01.2 is not.
	switch {
	case p.eof() || !isDigit(p.in[p.cur]):
		return p.failf("want digit")
	case p.in[p.cur] == '0':
		p.cur++
		if !p.eof() && isDigit(p.in[p.cur]) {
			return p.failf("extra leading zeroes")
		}
	default:
		p.readDigits()
	}

	// If a decimal point follows, consume a fractional part.
	if !p.eof() && p.in[p.cur] == '.' {
		p.cur++
		if p.readDigits() == 0 {
			return p.failf("no digits after decimal point")
		}
	}

	// If an exponent follows, consume it.
	if !p.eof() && (p.in[p.cur] == 'e' || p.in[p.cur] == 'E') {
		p.cur++
		if !p.eof() && (p.in[p.cur] == '-' || p.in[p.cur] == '+') {
			p.cur++
		}
		if p.readDigits() == 0 {
			return p.failf("missing exponent digits")
		}
	}
	p.ix.close(rank, p.cur)
	return nil
}

func (p *parser) parseLiteral(parent int, want string, kind Kind) error {
	if len(p.in)-p.cur < len(want) || string(p.in[p.cur:p.cur+len(want)]) != want {
		return p.failf("unknown constant")
	}
	rank := p.ix.open(kind, p.cur, parent)
	p.cur += len(want)
	p.ix.close(rank, p.cur)
	return nil
}

func (p *parser) readDigits() (nd int) {
	for !p.eof() && isDigit(p.in[p.cur]) {
		p.cur++
		nd++
	}
	return
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.in[p.cur]) {
		p.cur++
	}
}

func (p *parser) eof() bool { return p.cur >= len(p.in) }

func (p *parser) failf(msg string, args ...any) error {
	return posError{pos: p.cur, err: fmt.Errorf(msg, args...)}
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
