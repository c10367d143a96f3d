package ir

import "slices"

// Node is a sealed interface over the shapes a query document can contain.
// Only Tag, String, Int, Float, Bool, Null, Seq, and Map implement it.
// The marker method keeps the union closed so type switches stay exhaustive.
type Node interface {
	node() // Sealed - only types in this package implement it
}

// Tag is a canonicalized clause operator identifier (lowercase,
// hyphen-separated). Construct tags with NormalizeTag; a Tag built any
// other way may not be in canonical form.
type Tag string

func (Tag) node() {}

// String represents a string scalar.
type String string

func (String) node() {}

// Int represents an integer scalar. Integral JSON numbers decode to Int,
// never Float, so equality on integer-valued trees is exact.
type Int int64

func (Int) node() {}

// Float represents a non-integral numeric scalar.
type Float float64

func (Float) node() {}

// Bool represents a boolean scalar.
type Bool bool

func (Bool) node() {}

// Null represents an explicit null. Using a concrete type (rather than a
// nil Node) keeps the sealed union total: every decoded value has a shape.
type Null struct{}

func (Null) node() {}

// Seq represents an ordered heterogeneous sequence. Clauses are Seqs whose
// first element is tag-shaped; see the clause package.
type Seq []Node

func (Seq) node() {}

// Map represents a string-keyed mapping, such as a query document level.
type Map map[string]Node

func (Map) node() {}

// NewSeq builds a Seq from nodes.
func NewSeq(nodes ...Node) Seq {
	return Seq(nodes)
}

// Clause builds a clause: a Seq whose head is the normalized tag.
// Example: Clause("field-id", Int(10)).
func Clause(tag string, args ...Node) Seq {
	s := make(Seq, 0, len(args)+1)
	s = append(s, NormalizeTag(tag))
	return append(s, args...)
}

// SortedKeys returns the map's keys in UTF-16 code unit order, the ordering
// canonical JSON requires (RFC 8785). All deterministic iteration over Maps
// in this module goes through SortedKeys.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}
