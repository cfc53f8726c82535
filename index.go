// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jzip

// A Kind denotes the JSON type of an indexed node.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // invalid or unindexed position

	Null   // constant: null
	Bool   // constant: true or false
	Number // number literal
	String // quoted string
	Array  // array: [ ... ]
	Object // object: { ... }
)

var kindStr = [...]string{
	Invalid: "invalid",
	Null:    "null",
	Bool:    "bool",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// An Index is a succinct structural index over the text of a single JSON
// value. The structure is stored as a balanced-parentheses sequence: each node
// contributes an open position and a close position, and a node is identified
// by the rank (position) of its open parenthesis within the sequence. The
// children of an object are its keys and values interleaved in document order;
// the children of an array are its elements in document order; scalars have no
// children.
//
// An Index is immutable once constructed, and may be shared freely among
// concurrent readers. All references into the index are plain integer ranks;
// no query returns a live node object.
type Index struct {
	text []byte   // the raw input text
	bits []uint64 // the parenthesis sequence, 1 bit per position, 1 = open
	n    int      // number of positions in the sequence
	meta []meta   // per-position node data, meaningful only at open positions
}

// meta records the node data for an open position. Close positions leave
// their slot zero.
type meta struct {
	kind     Kind
	pos, end int // byte span of the node's text
	close    int // position of the matching close parenthesis
	parent   int // rank of the enclosing node, -1 at the root
}

func (ix *Index) isOpen(r int) bool { return ix.bits[r>>6]&(1<<(r&63)) != 0 }

// Text returns the raw input text underlying ix.
func (ix *Index) Text() []byte { return ix.text }

// Len reports the number of positions in the parenthesis sequence of ix,
// which is twice the number of indexed nodes.
func (ix *Index) Len() int { return ix.n }

// Root returns the rank of the document root. The root of a non-empty index
// is always rank 0.
func (ix *Index) Root() int { return 0 }

// IsValid reports whether rank identifies an indexed node, i.e., whether it is
// the open position of some node in the sequence.
func (ix *Index) IsValid(rank int) bool {
	return rank >= 0 && rank < ix.n && ix.isOpen(rank)
}

// KindAt returns the JSON type of the node at rank, or Invalid if rank does
// not identify a node.
func (ix *Index) KindAt(rank int) Kind {
	if !ix.IsValid(rank) {
		return Invalid
	}
	return ix.meta[rank].kind
}

// Span returns the byte range of the node at rank within the input text.
// The span of an invalid rank is empty.
func (ix *Index) Span(rank int) Span {
	if !ix.IsValid(rank) {
		return Span{}
	}
	return Span{Pos: ix.meta[rank].pos, End: ix.meta[rank].end}
}

// TextAt returns the undecoded source text of the node at rank. Leading and
// trailing whitespace are excluded; string values include their quotes. The
// returned slice is a view into the input text and must not be modified.
func (ix *Index) TextAt(rank int) []byte {
	if !ix.IsValid(rank) {
		return nil
	}
	return ix.text[ix.meta[rank].pos:ix.meta[rank].end]
}

// FirstChild returns the rank of the first child of the node at rank. It
// reports false if rank is not a node, or is a scalar or empty container.
func (ix *Index) FirstChild(rank int) (int, bool) {
	if !ix.IsValid(rank) {
		return 0, false
	}
	// A node has a child exactly when another open position occurs before its
	// matching close.
	if c := rank + 1; c < ix.meta[rank].close {
		return c, true
	}
	return 0, false
}

// Parent returns the rank of the node enclosing the node at rank. It reports
// false if rank is not a node or is the document root.
func (ix *Index) Parent(rank int) (int, bool) {
	if !ix.IsValid(rank) || ix.meta[rank].parent < 0 {
		return 0, false
	}
	return ix.meta[rank].parent, true
}

// NextSibling returns the rank of the next sibling of the node at rank, the
// node whose open position immediately follows this node's close. It reports
// false if rank is not a node or has no later sibling.
func (ix *Index) NextSibling(rank int) (int, bool) {
	if !ix.IsValid(rank) {
		return 0, false
	}
	if s := ix.meta[rank].close + 1; s < ix.n && ix.isOpen(s) {
		return s, true
	}
	return 0, false
}

// PrevSibling returns the rank of the sibling immediately preceding the node
// at rank. It reports false if rank is not a node or is the first child of
// its parent (or the root). The query walks the parent's children, so its
// cost is linear in the number of earlier siblings.
func (ix *Index) PrevSibling(rank int) (int, bool) {
	p, ok := ix.Parent(rank)
	if !ok {
		return 0, false
	}
	cur, _ := ix.FirstChild(p)
	if cur == rank {
		return 0, false
	}
	for {
		next, ok := ix.NextSibling(cur)
		if !ok {
			return 0, false // unreachable if rank is a child of p
		}
		if next == rank {
			return cur, true
		}
		cur = next
	}
}

// open appends an open parenthesis for a node of the given kind starting at
// byte offset pos, and returns its rank. The parent is the most recently
// opened node not yet closed, or -1.
func (ix *Index) open(kind Kind, pos, parent int) int {
	rank := ix.append(true)
	ix.meta = append(ix.meta, meta{kind: kind, pos: pos, parent: parent})
	return rank
}

// close appends the matching close parenthesis for the node at rank and
// records its end offset.
func (ix *Index) close(rank, end int) {
	c := ix.append(false)
	ix.meta = append(ix.meta, meta{})
	ix.meta[rank].close = c
	ix.meta[rank].end = end
}

func (ix *Index) append(open bool) int {
	r := ix.n
	if r>>6 == len(ix.bits) {
		ix.bits = append(ix.bits, 0)
	}
	if open {
		ix.bits[r>>6] |= 1 << (r & 63)
	}
	ix.n++
	return r
}
