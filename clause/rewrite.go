package clause

import (
	"fmt"

	"github.com/tangram-data/mql/ir"
)

// RewriteFunc transforms a matched clause. It receives the clause with its
// descendants already rewritten and returns the replacement node.
type RewriteFunc func(ir.Seq) ir.Node

// Rewrite returns a new tree in which every clause matching the set has
// been replaced by f's result. The pass is bottom-up and post-order: a
// node's descendants are fully reconstructed before the node itself is
// examined, and the match is checked against the already-rewritten node.
//
// This is a single substitution pass, not a fixed-point rewrite: f's return
// value is not re-examined or re-descended into. If f produces a node that
// itself matches, a second Rewrite call is required to rewrite it. Callers
// needing a fixed point loop explicitly, the way filter.Simplify does.
//
// The input tree is never mutated; unmatched subtrees are shared
// structurally where possible.
func Rewrite(set TagSet, root ir.Node, f RewriteFunc) ir.Node {
	switch v := root.(type) {
	case ir.Seq:
		rebuilt := make(ir.Seq, len(v))
		for i, elem := range v {
			rebuilt[i] = Rewrite(set, elem, f)
		}
		if Matches(set, rebuilt) {
			return f(rebuilt)
		}
		return rebuilt
	case ir.Map:
		rebuilt := make(ir.Map, len(v))
		for k, val := range v {
			rebuilt[k] = Rewrite(set, val, f)
		}
		return rebuilt
	default:
		return root
	}
}

// RewriteAt applies Rewrite only to the subtree at keypath, leaving the
// rest of the document structurally untouched. The keypath must resolve:
// a missing or non-addressable location is a lookup error, never silently
// fabricated.
func RewriteAt(path Keypath, set TagSet, root ir.Node, f RewriteFunc) (ir.Node, error) {
	subtree, ok := GetAt(root, path)
	if !ok {
		return nil, fmt.Errorf("keypath %v does not resolve in document", path)
	}
	return WithAt(root, path, Rewrite(set, subtree, f))
}
