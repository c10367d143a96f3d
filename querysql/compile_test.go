package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangram-data/mql/ir"
)

func testCompiler() *Compiler {
	return NewCompiler(map[int64]string{
		10: "total",
		11: "status",
		12: "discount",
	})
}

func fieldID(id int64) ir.Seq {
	return ir.Clause("field-id", ir.Int(id))
}

func TestCompileComparisons(t *testing.T) {
	tests := []struct {
		name           string
		input          ir.Node
		expectedSQL    string
		expectedParams []any
	}{
		{
			"equals",
			ir.Clause("=", fieldID(10), ir.Int(20)),
			`"total" = ?`,
			[]any{int64(20)},
		},
		{
			"not equals",
			ir.Clause("!=", fieldID(11), ir.String("open")),
			`"status" <> ?`,
			[]any{"open"},
		},
		{
			"less than float",
			ir.Clause("<", fieldID(12), ir.Float(0.5)),
			`"discount" < ?`,
			[]any{0.5},
		},
		{
			"greater or equal",
			ir.Clause(">=", fieldID(10), ir.Int(100)),
			`"total" >= ?`,
			[]any{int64(100)},
		},
		{
			"named field",
			ir.Clause("=", ir.Clause("field", ir.String("state")), ir.String("CA")),
			`"state" = ?`,
			[]any{"CA"},
		},
		{
			"field to field",
			ir.Clause("=", fieldID(10), fieldID(12)),
			`"total" = "discount"`,
			nil,
		},
		{
			"between",
			ir.Clause("between", fieldID(10), ir.Int(1), ir.Int(100)),
			`"total" BETWEEN ? AND ?`,
			[]any{int64(1), int64(100)},
		},
		{
			"is null",
			ir.Clause("is-null", fieldID(12)),
			`"discount" IS NULL`,
			nil,
		},
		{
			"not null",
			ir.Clause("not-null", fieldID(12)),
			`"discount" IS NOT NULL`,
			nil,
		},
		{
			"in",
			ir.Clause("in", fieldID(11), ir.String("open"), ir.String("paid")),
			`"status" IN (?, ?)`,
			[]any{"open", "paid"},
		},
		{
			"in with no values",
			ir.Clause("in", fieldID(11)),
			"1 = 0",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := testCompiler().CompileFilter(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedParams, params)
		})
	}
}

func TestCompileCompound(t *testing.T) {
	input := ir.Clause("and",
		ir.Clause("=", fieldID(11), ir.String("open")),
		ir.Clause("or",
			ir.Clause(">", fieldID(10), ir.Int(100)),
			ir.Clause("not", ir.Clause("is-null", fieldID(12))),
		),
	)

	sql, params, err := testCompiler().CompileFilter(input)
	require.NoError(t, err)

	assert.Equal(t, `"status" = ? AND ("total" > ? OR (NOT ("discount" IS NULL)))`, sql)
	assert.Equal(t, []any{"open", int64(100)}, params)
}

func TestCompileSimplifiesFirst(t *testing.T) {
	// ["and", X] collapses before compilation: no junction wrapper.
	input := ir.Clause("and", ir.Clause("=", fieldID(10), ir.Int(20)))

	sql, params, err := testCompiler().CompileFilter(input)
	require.NoError(t, err)
	assert.Equal(t, `"total" = ?`, sql)
	assert.Equal(t, []any{int64(20)}, params)

	// Duplicates produce one predicate and one parameter.
	dup := ir.Clause("and",
		ir.Clause("=", fieldID(10), ir.Int(20)),
		ir.Clause("=", fieldID(10), ir.Int(20)),
	)
	sql, params, err = testCompiler().CompileFilter(dup)
	require.NoError(t, err)
	assert.Equal(t, `"total" = ?`, sql)
	assert.Equal(t, []any{int64(20)}, params)
}

func TestCompileEmptyFilters(t *testing.T) {
	sql, params, err := testCompiler().CompileFilter(nil)
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)

	// An explicit null at the filter path is the same absence as nil.
	sql, params, err = testCompiler().CompileFilter(ir.Null{})
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)

	sql, _, err = testCompiler().CompileFilter(ir.Clause("and"))
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)

	sql, _, err = testCompiler().CompileFilter(ir.Clause("or"))
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", sql)
}

func TestCompileQuotesIdentifiers(t *testing.T) {
	input := ir.Clause("=", ir.Clause("field", ir.String(`weird"name`)), ir.Int(1))

	sql, _, err := testCompiler().CompileFilter(input)
	require.NoError(t, err)
	assert.Equal(t, `"weird""name" = ?`, sql)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		input ir.Node
	}{
		{"unknown field id", ir.Clause("=", fieldID(99), ir.Int(1))},
		{"unknown operator", ir.Clause("starts-with", fieldID(11), ir.String("a"))},
		{"comparison arity", ir.Clause("=", fieldID(10))},
		{"between arity", ir.Clause("between", fieldID(10), ir.Int(1))},
		{"non-field lhs", ir.Clause("=", ir.Int(1), ir.Int(2))},
		{"compound parameter", ir.Clause("=", fieldID(10), ir.Seq{ir.Int(1)})},
		{"non-clause leaf", ir.Clause("and", ir.Clause("=", fieldID(10), ir.Int(1)), ir.Clause("or", ir.Int(5), ir.Int(6)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := testCompiler().CompileFilter(tt.input)
			require.Error(t, err)
		})
	}
}
