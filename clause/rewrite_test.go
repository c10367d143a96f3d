package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangram-data/mql/ir"
)

func TestRewriteReplacesMatches(t *testing.T) {
	tree := ir.Map{
		"filter": ir.Clause("=", ir.Clause("field-id", ir.Int(10)), ir.Int(20)),
	}

	// Swap field-id references for named field references.
	out := Rewrite(Tags("field-id"), tree, func(c ir.Seq) ir.Node {
		return ir.Clause("field", ir.String("total"))
	})

	expected := ir.Map{
		"filter": ir.Clause("=", ir.Clause("field", ir.String("total")), ir.Int(20)),
	}
	assert.True(t, ir.Equal(expected, out), "got %#v", out)
}

func TestRewriteDoesNotMutateInput(t *testing.T) {
	tree := ir.Map{
		"filter": ir.Clause("=", ir.Clause("field-id", ir.Int(10)), ir.Int(20)),
	}
	snapshot := ir.MustQueryHash(tree)

	Rewrite(Tags("field-id"), tree, func(c ir.Seq) ir.Node {
		return ir.Clause("field", ir.String("total"))
	})

	assert.Equal(t, snapshot, ir.MustQueryHash(tree), "input tree must be unchanged")
}

func TestRewriteBottomUpSeesRewrittenChildren(t *testing.T) {
	// The outer clause must observe its argument already rewritten.
	tree := ir.Clause("wrap", ir.Clause("inner", ir.Int(1)))

	var sawInner ir.Node
	Rewrite(Tags("wrap", "inner"), tree, func(c ir.Seq) ir.Node {
		tag, _ := TagOf(c)
		if tag == "inner" {
			return ir.Clause("rewritten")
		}
		sawInner = c[1]
		return c
	})

	assert.True(t, ir.Equal(ir.Clause("rewritten"), sawInner))
}

func TestRewriteSinglePass(t *testing.T) {
	// f rewrites a matching clause into another matching clause. The
	// result must not be rewritten again in the same pass; convergence
	// requires a second call.
	set := Tags("legacy-field")
	f := func(c ir.Seq) ir.Node {
		return ir.Clause("legacy-field", ir.Clause("modern"), c[1])
	}

	tree := ir.Clause("legacy-field", ir.Int(1))

	once := Rewrite(set, tree, f)
	expected := ir.Clause("legacy-field", ir.Clause("modern"), ir.Int(1))
	assert.True(t, ir.Equal(expected, once), "f's result must not be re-entered, got %#v", once)

	// A second pass rewrites the clause f produced.
	twice := Rewrite(set, once, f)
	assert.False(t, ir.Equal(once, twice))
}

func TestRewriteAtScopesToSubtree(t *testing.T) {
	doc := ir.Map{
		"query": ir.Map{
			"filter":   ir.Clause("field-id", ir.Int(10)),
			"breakout": ir.Seq{ir.Clause("field-id", ir.Int(11))},
		},
	}

	out, err := RewriteAt(Path("query", "filter"), Tags("field-id"), doc, func(c ir.Seq) ir.Node {
		return ir.Clause("field", ir.String("total"))
	})
	require.NoError(t, err)

	outDoc := out.(ir.Map)
	query := outDoc["query"].(ir.Map)

	assert.True(t, ir.Equal(ir.Clause("field", ir.String("total")), query["filter"]))
	// Outside the keypath the document is untouched.
	assert.True(t, ir.Equal(ir.Seq{ir.Clause("field-id", ir.Int(11))}, query["breakout"]))
}

func TestRewriteAtInvalidKeypath(t *testing.T) {
	doc := ir.Map{"query": ir.Map{}}

	_, err := RewriteAt(Path("query", "filter"), Tags("field-id"), doc, func(c ir.Seq) ir.Node {
		return c
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not resolve")
}
