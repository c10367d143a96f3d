package filter

import (
	"fmt"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/ir"
)

// Combine merges any number of filter clauses into one simplified clause.
// Nil and null arguments (absent filters) are dropped; the survivors are
// wrapped in a single "and" and run through Simplify, so one survivor
// collapses to itself and duplicates are removed. Zero survivors yield the
// bare ["and"] clause, the vacuously true filter.
func Combine(clauses ...ir.Node) ir.Node {
	args := make([]Filter, 0, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if _, absent := c.(ir.Null); absent {
			continue
		}
		args = append(args, FromNode(c))
	}
	return ToNode(SimplifyFilter(And{Args: args}))
}

// AddFilterClause merges newClause into the filter stored at keypath in the
// query document and returns a fresh document; the input document is never
// modified. A nil or null newClause is a no-op returning the input
// unchanged. An absent filter at keypath is treated as no existing filter;
// the final key is created if needed, but missing intermediate structure is
// a lookup error, never fabricated.
func AddFilterClause(query ir.Map, path clause.Keypath, newClause ir.Node) (ir.Map, error) {
	if newClause == nil {
		return query, nil
	}
	if _, absent := newClause.(ir.Null); absent {
		return query, nil
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("empty keypath: a filter location is required")
	}

	existing, _ := clause.GetAt(query, path)
	combined := Combine(existing, newClause)

	updated, err := clause.WithAt(query, path, combined)
	if err != nil {
		return nil, fmt.Errorf("add filter clause: %w", err)
	}
	return updated.(ir.Map), nil
}
