// Package querysql compiles simplified filter clauses to parameterized SQL
// for SQLite.
//
// Values are always parameterized, never interpolated. Output is
// deterministic: the same clause with the same compiler always produces the
// same SQL text and parameter order.
package querysql

import (
	"fmt"
	"strings"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/filter"
	"github.com/tangram-data/mql/ir"
)

// Compiler compiles filter clauses against a known set of fields.
type Compiler struct {
	// Fields maps ["field-id", n] references to column names.
	// Must be populated before compilation.
	Fields map[int64]string
}

// NewCompiler creates a Compiler with the given field-id to column mapping.
func NewCompiler(fields map[int64]string) *Compiler {
	if fields == nil {
		fields = make(map[int64]string)
	}
	return &Compiler{Fields: fields}
}

// CompileFilter compiles a filter clause to a SQL WHERE fragment.
// The clause is simplified first, so the emitted SQL reflects the canonical
// form of the filter. An absent filter, either Go nil or an explicit JSON
// null, compiles to the always-true identity. Returns (sql, params, error).
func (c *Compiler) CompileFilter(n ir.Node) (string, []any, error) {
	if n == nil {
		return "1 = 1", nil, nil
	}
	if _, absent := n.(ir.Null); absent {
		return "1 = 1", nil, nil
	}
	return c.compile(filter.FromNode(filter.Simplify(n)))
}

func (c *Compiler) compile(f filter.Filter) (string, []any, error) {
	switch v := f.(type) {
	case filter.And:
		return c.compileJunction(v.Args, " AND ", "1 = 1")
	case filter.Or:
		return c.compileJunction(v.Args, " OR ", "1 = 0")
	case filter.Not:
		inner, params, err := c.compile(v.Arg)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", inner), params, nil
	case filter.Leaf:
		return c.compileLeaf(v.Clause)
	default:
		// Unreachable: Filter is sealed.
		return "", nil, fmt.Errorf("unsupported filter type: %T", f)
	}
}

// compileJunction joins compiled sub-filters with the operator. The empty
// junction compiles to its identity: true for AND, false for OR.
func (c *Compiler) compileJunction(args []filter.Filter, op, identity string) (string, []any, error) {
	if len(args) == 0 {
		return identity, nil, nil
	}

	var sqlParts []string
	var allParams []any
	for _, arg := range args {
		sql, params, err := c.compile(arg)
		if err != nil {
			return "", nil, err
		}
		if _, isLeaf := arg.(filter.Leaf); !isLeaf {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, op), allParams, nil
}

// comparisonOps maps comparison clause tags to SQL operators.
var comparisonOps = map[ir.Tag]string{
	"=":  "=",
	"!=": "<>",
	"<":  "<",
	">":  ">",
	"<=": "<=",
	">=": ">=",
}

func (c *Compiler) compileLeaf(n ir.Node) (string, []any, error) {
	tag, ok := clause.TagOf(n)
	if !ok {
		return "", nil, fmt.Errorf("cannot compile non-clause filter leaf: %T", n)
	}
	args := clause.Args(n)

	if op, isComparison := comparisonOps[tag]; isComparison {
		return c.compileComparison(op, args)
	}

	switch tag {
	case "between":
		return c.compileBetween(args)
	case "is-null", "not-null":
		return c.compileNullCheck(tag, args)
	case "in":
		return c.compileIn(args)
	default:
		return "", nil, fmt.Errorf("unsupported filter operator %q", tag)
	}
}

func (c *Compiler) compileComparison(op string, args []ir.Node) (string, []any, error) {
	if len(args) != 2 {
		return "", nil, fmt.Errorf("comparison %q takes 2 arguments, got %d", op, len(args))
	}

	column, err := c.resolveField(args[0])
	if err != nil {
		return "", nil, err
	}

	// A field reference on the right-hand side compares two columns.
	if isFieldRef(args[1]) {
		rhs, err := c.resolveField(args[1])
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s %s", column, op, rhs), nil, nil
	}

	param, err := scalarParam(args[1])
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s %s ?", column, op), []any{param}, nil
}

func (c *Compiler) compileBetween(args []ir.Node) (string, []any, error) {
	if len(args) != 3 {
		return "", nil, fmt.Errorf("between takes 3 arguments, got %d", len(args))
	}

	column, err := c.resolveField(args[0])
	if err != nil {
		return "", nil, err
	}
	lo, err := scalarParam(args[1])
	if err != nil {
		return "", nil, err
	}
	hi, err := scalarParam(args[2])
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("%s BETWEEN ? AND ?", column), []any{lo, hi}, nil
}

func (c *Compiler) compileNullCheck(tag ir.Tag, args []ir.Node) (string, []any, error) {
	if len(args) != 1 {
		return "", nil, fmt.Errorf("%s takes 1 argument, got %d", tag, len(args))
	}

	column, err := c.resolveField(args[0])
	if err != nil {
		return "", nil, err
	}
	if tag == "is-null" {
		return column + " IS NULL", nil, nil
	}
	return column + " IS NOT NULL", nil, nil
}

func (c *Compiler) compileIn(args []ir.Node) (string, []any, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("in takes at least 1 argument")
	}

	column, err := c.resolveField(args[0])
	if err != nil {
		return "", nil, err
	}

	values := args[1:]
	if len(values) == 0 {
		// IN over the empty set matches nothing.
		return "1 = 0", nil, nil
	}

	var params []any
	for _, v := range values {
		param, err := scalarParam(v)
		if err != nil {
			return "", nil, err
		}
		params = append(params, param)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return fmt.Sprintf("%s IN (%s)", column, placeholders), params, nil
}

// fieldTags are the clause tags that reference a field.
var fieldTags = clause.Tags("field", "field-id")

func isFieldRef(n ir.Node) bool {
	return clause.Matches(fieldTags, n)
}

// resolveField resolves a field reference clause to a column name.
// ["field", name] uses the name directly; ["field-id", n] looks the id up
// in the compiler's Fields map.
func (c *Compiler) resolveField(n ir.Node) (string, error) {
	tag, ok := clause.TagOf(n)
	if !ok {
		return "", fmt.Errorf("expected field reference, got %T", n)
	}
	args := clause.Args(n)

	switch tag {
	case "field":
		if len(args) != 1 {
			return "", fmt.Errorf("field reference takes 1 argument, got %d", len(args))
		}
		name, ok := args[0].(ir.String)
		if !ok {
			return "", fmt.Errorf("field name must be a string, got %T", args[0])
		}
		return quoteIdentifier(string(name)), nil

	case "field-id":
		if len(args) != 1 {
			return "", fmt.Errorf("field-id reference takes 1 argument, got %d", len(args))
		}
		id, ok := args[0].(ir.Int)
		if !ok {
			return "", fmt.Errorf("field id must be an integer, got %T", args[0])
		}
		column, known := c.Fields[int64(id)]
		if !known {
			return "", fmt.Errorf("unknown field id %d", int64(id))
		}
		return quoteIdentifier(column), nil

	default:
		return "", fmt.Errorf("expected field reference, got clause %q", tag)
	}
}

// quoteIdentifier quotes a column name for SQLite. Embedded quotes are
// doubled; values still always travel as parameters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scalarParam converts a scalar node to a driver parameter value.
func scalarParam(n ir.Node) (any, error) {
	switch v := n.(type) {
	case ir.String:
		return string(v), nil
	case ir.Int:
		return int64(v), nil
	case ir.Float:
		return float64(v), nil
	case ir.Bool:
		return bool(v), nil
	case ir.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported parameter value type: %T", n)
	}
}
