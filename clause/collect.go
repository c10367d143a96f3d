package clause

import "github.com/tangram-data/mql/ir"

// Collect returns every clause in root whose tag is in the set, in
// depth-first post-order: children before ancestors, left to right among
// siblings, mapping values in sorted key order. Traversal descends into
// every sequence and mapping value regardless of tag, so matches nested
// inside another match's own arguments are collected too.
//
// Returns an empty slice (never nil, never an error) when nothing matches.
func Collect(set TagSet, root ir.Node) []ir.Seq {
	out := []ir.Seq{}
	collectInto(set, root, &out)
	return out
}

func collectInto(set TagSet, node ir.Node, out *[]ir.Seq) {
	switch v := node.(type) {
	case ir.Seq:
		for _, elem := range v {
			collectInto(set, elem, out)
		}
	case ir.Map:
		for _, k := range v.SortedKeys() {
			collectInto(set, v[k], out)
		}
	}

	if Matches(set, node) {
		*out = append(*out, node.(ir.Seq))
	}
}
