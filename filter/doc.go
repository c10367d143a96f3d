// Package filter canonicalizes boolean compound clauses (and/or/not) by
// term rewriting to a fixed point.
//
// The simplifier operates on a typed, sealed representation of the boolean
// skeleton (And, Or, Not, Leaf) converted from the generic tree at the
// boundary. Exhaustive type switches over the sealed union keep the rewrite
// rules total; the generic tree stays the interchange form the rest of the
// module uses.
//
// Leaf clauses (comparisons, field references, anything whose tag is not a
// boolean combinator) are opaque payloads. The simplifier never looks
// inside them.
package filter
