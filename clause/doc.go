// Package clause recognizes and transforms tagged clauses inside generic
// query trees.
//
// A clause is an ir.Seq of length >= 1 whose first element is tag-shaped
// (an ir.Tag or ir.String, never a compound value). The matcher normalizes
// heads before comparison, so trees decoded from JSON (heads are strings,
// possibly in legacy upper-snake spelling) and trees built with ir.Clause
// (heads already canonical tags) match identically.
//
// Collect and Rewrite walk the whole tree, descending into every sequence
// and mapping value regardless of tag. Both visit in post-order; Rewrite is
// a single bottom-up substitution pass, not a fixed-point rewrite; see the
// Rewrite doc comment.
package clause
