package filter

import (
	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/ir"
)

// Boolean combinator tags.
const (
	TagAnd ir.Tag = "and"
	TagOr  ir.Tag = "or"
	TagNot ir.Tag = "not"
)

var compoundTags = clause.Tags(TagAnd, TagOr, TagNot)

// IsCompound reports whether node is a boolean compound clause.
func IsCompound(n ir.Node) bool {
	return clause.Matches(compoundTags, n)
}

// Filter is a sealed interface over the boolean skeleton of a filter
// clause. Only And, Or, Not, and Leaf implement it, so type switches in
// the simplifier are exhaustive.
type Filter interface {
	filterNode() // Marker method - seals interface to this package
}

// And is a conjunction of zero or more filters. Zero arguments means
// "always true".
type And struct {
	Args []Filter
}

func (And) filterNode() {}

// Or is a disjunction of zero or more filters.
type Or struct {
	Args []Filter
}

func (Or) filterNode() {}

// Not negates a single filter.
type Not struct {
	Arg Filter
}

func (Not) filterNode() {}

// Leaf wraps a clause the simplifier treats as opaque: any non-compound
// clause, or a malformed compound (a "not" without exactly one argument)
// that is preserved untouched rather than rewritten.
type Leaf struct {
	Clause ir.Node
}

func (Leaf) filterNode() {}

// FromNode converts a generic tree into the typed boolean skeleton.
// Compound clauses become And/Or/Not with converted arguments; everything
// else becomes a Leaf. Total: any node has a typed form.
func FromNode(n ir.Node) Filter {
	tag, ok := clause.TagOf(n)
	if !ok {
		return Leaf{Clause: n}
	}

	args := clause.Args(n)
	switch tag {
	case TagAnd:
		return And{Args: fromNodes(args)}
	case TagOr:
		return Or{Args: fromNodes(args)}
	case TagNot:
		// "not" takes exactly one argument; anything else is preserved
		// opaquely rather than guessed at.
		if len(args) != 1 {
			return Leaf{Clause: n}
		}
		return Not{Arg: FromNode(args[0])}
	default:
		return Leaf{Clause: n}
	}
}

func fromNodes(nodes []ir.Node) []Filter {
	filters := make([]Filter, len(nodes))
	for i, n := range nodes {
		filters[i] = FromNode(n)
	}
	return filters
}

// ToNode converts the typed boolean skeleton back to the generic tree.
// Compound heads come out as canonical ir.Tag values.
func ToNode(f Filter) ir.Node {
	switch v := f.(type) {
	case And:
		return compoundNode(TagAnd, v.Args)
	case Or:
		return compoundNode(TagOr, v.Args)
	case Not:
		return ir.Seq{TagNot, ToNode(v.Arg)}
	case Leaf:
		return v.Clause
	default:
		// Unreachable: Filter is sealed.
		return nil
	}
}

func compoundNode(tag ir.Tag, args []Filter) ir.Seq {
	seq := make(ir.Seq, 0, len(args)+1)
	seq = append(seq, tag)
	for _, arg := range args {
		seq = append(seq, ToNode(arg))
	}
	return seq
}
