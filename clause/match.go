package clause

import "github.com/tangram-data/mql/ir"

// TagSet is a set of canonical tags to match against. Build one with Tags;
// a one-element set matches a single tag, so callers match one tag or any
// of several without changing call shape.
type TagSet map[ir.Tag]struct{}

// Tags builds a TagSet, normalizing each spelling.
func Tags[T ~string](tags ...T) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[ir.NormalizeTag(t)] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the tag's canonical form.
func (s TagSet) Contains(t ir.Tag) bool {
	_, ok := s[ir.NormalizeTag(t)]
	return ok
}

// IsClause reports whether node is a clause: a sequence of length >= 1
// whose first element is tag-shaped. Anything that is not a sequence is
// simply not a clause, not an error.
func IsClause(node ir.Node) bool {
	_, ok := TagOf(node)
	return ok
}

// TagOf returns the canonical tag of a clause, or false if node is not a
// clause. Heads are normalized here, so matching works on both raw and
// canonicalized trees.
func TagOf(node ir.Node) (ir.Tag, bool) {
	seq, ok := node.(ir.Seq)
	if !ok || len(seq) == 0 {
		return "", false
	}
	switch head := seq[0].(type) {
	case ir.Tag:
		return ir.NormalizeTag(head), true
	case ir.String:
		return ir.NormalizeTag(head), true
	default:
		return "", false
	}
}

// Matches reports whether node is a clause whose tag is in the set.
func Matches(set TagSet, node ir.Node) bool {
	tag, ok := TagOf(node)
	if !ok {
		return false
	}
	_, ok = set[tag]
	return ok
}

// Args returns a clause's arguments (everything after the tag).
// Returns nil when node is not a clause.
func Args(node ir.Node) []ir.Node {
	if !IsClause(node) {
		return nil
	}
	return node.(ir.Seq)[1:]
}
