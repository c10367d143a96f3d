package filter

import (
	"bytes"

	"github.com/tangram-data/mql/ir"
)

// Simplify canonicalizes the boolean compound skeleton of a clause by
// rewriting to a fixed point. At each step the first applicable rule wins
// and evaluation restarts from the top on the new term:
//
//  1. Singleton unwrap: and/or of exactly one argument becomes that
//     argument.
//  2. Flatten: an and (resp. or) whose direct arguments include and (resp.
//     or) clauses has those arguments spliced into its own list in place.
//  3. Deduplicate: structurally equal duplicate arguments of an and/or are
//     dropped, preserving first-occurrence order.
//  4. Double negation: not of not becomes the inner argument.
//
// Arguments are simplified bottom-up before the rules run on their parent,
// so the whole compound skeleton reaches canonical form in one call. Leaf
// clauses are never entered. Simplify never fails; Simplify(nil) is nil.
//
// Idempotent: Simplify(Simplify(c)) equals Simplify(c).
func Simplify(n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	return ToNode(SimplifyFilter(FromNode(n)))
}

// SimplifyFilter is Simplify on the typed representation.
func SimplifyFilter(f Filter) Filter {
	switch v := f.(type) {
	case And:
		f = And{Args: simplifyAll(v.Args)}
	case Or:
		f = Or{Args: simplifyAll(v.Args)}
	case Not:
		f = Not{Arg: SimplifyFilter(v.Arg)}
	case Leaf:
		return v
	}

	// Every rule strictly shrinks the term, so the term's size bounds how
	// many times a rule can fire. The explicit cap guards against a future
	// rule breaking that property.
	for n := termSize(f) + 1; n > 0; n-- {
		next, fired := applyFirstRule(f)
		if !fired {
			return f
		}
		f = next
	}
	return f
}

func simplifyAll(args []Filter) []Filter {
	out := make([]Filter, len(args))
	for i, arg := range args {
		out[i] = SimplifyFilter(arg)
	}
	return out
}

// applyFirstRule applies the highest-precedence applicable rule and reports
// whether one fired.
func applyFirstRule(f Filter) (Filter, bool) {
	switch v := f.(type) {
	case And:
		if len(v.Args) == 1 {
			return v.Args[0], true
		}
		if flat, fired := flattenSameOp(v.Args, asAnd); fired {
			return And{Args: flat}, true
		}
		if deduped, fired := dedup(v.Args); fired {
			return And{Args: deduped}, true
		}
	case Or:
		if len(v.Args) == 1 {
			return v.Args[0], true
		}
		if flat, fired := flattenSameOp(v.Args, asOr); fired {
			return Or{Args: flat}, true
		}
		if deduped, fired := dedup(v.Args); fired {
			return Or{Args: deduped}, true
		}
	case Not:
		if inner, ok := v.Arg.(Not); ok {
			return inner.Arg, true
		}
	}
	return f, false
}

func asAnd(f Filter) ([]Filter, bool) {
	v, ok := f.(And)
	if !ok {
		return nil, false
	}
	return v.Args, true
}

func asOr(f Filter) ([]Filter, bool) {
	v, ok := f.(Or)
	if !ok {
		return nil, false
	}
	return v.Args, true
}

// flattenSameOp splices the arguments of direct same-operator children into
// the parent's argument list in place; other arguments pass through
// unchanged. Reports whether any child was spliced.
func flattenSameOp(args []Filter, sameOp func(Filter) ([]Filter, bool)) ([]Filter, bool) {
	fired := false
	flat := make([]Filter, 0, len(args))
	for _, arg := range args {
		if inner, ok := sameOp(arg); ok {
			flat = append(flat, inner...)
			fired = true
			continue
		}
		flat = append(flat, arg)
	}
	return flat, fired
}

// dedup drops structurally equal duplicates, preserving first-occurrence
// order. Reports whether any duplicate was dropped.
func dedup(args []Filter) ([]Filter, bool) {
	fired := false
	kept := make([]Filter, 0, len(args))
	for _, arg := range args {
		if containsFilter(kept, arg) {
			fired = true
			continue
		}
		kept = append(kept, arg)
	}
	return kept, fired
}

func containsFilter(filters []Filter, f Filter) bool {
	node := ToNode(f)
	for _, other := range filters {
		if equalClauses(ToNode(other), node) {
			return true
		}
	}
	return false
}

// equalClauses compares clauses by canonical JSON bytes. Canonical form
// erases the tag/string head distinction at every depth, so a clause
// decoded from JSON and the same clause built with ir.Clause count as
// duplicates. Falls back to structural equality when a side cannot be
// canonically marshaled (a nil buried in a sequence).
func equalClauses(a, b ir.Node) bool {
	ab, errA := ir.MarshalCanonical(a)
	bb, errB := ir.MarshalCanonical(b)
	if errA != nil || errB != nil {
		return ir.Equal(a, b)
	}
	return bytes.Equal(ab, bb)
}

// termSize counts the nodes of the boolean skeleton. Leaves count as one
// regardless of their internal shape.
func termSize(f Filter) int {
	switch v := f.(type) {
	case And:
		return sumSizes(v.Args)
	case Or:
		return sumSizes(v.Args)
	case Not:
		return 1 + termSize(v.Arg)
	default:
		return 1
	}
}

func sumSizes(args []Filter) int {
	size := 1
	for _, arg := range args {
		size += termSize(arg)
	}
	return size
}
