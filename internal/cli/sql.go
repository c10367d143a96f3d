package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/querysql"
)

// SQLResult holds a compiled filter for output.
type SQLResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	var at string
	var fields []string

	cmd := &cobra.Command{
		Use:   "sql <document>",
		Short: "Compile a document's filter clause to parameterized SQL",
		Long: `Compile the filter clause at a keypath to a SQL WHERE fragment.

Field-id references are resolved through --field mappings, e.g.
--field 10=total maps ["field-id", 10] to the "total" column. The clause
is simplified before compilation, so the SQL reflects canonical form.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, args[0], at, fields, cmd)
		},
	}

	cmd.Flags().StringVar(&at, "at", "query.filter", "dot-separated keypath of the filter clause")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "field-id to column mapping, id=column (repeatable)")

	return cmd
}

func runSQL(opts *RootOptions, docPath, at string, fields []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := ReadDocument(docPath, cmd.InOrStdin())
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeBadInput, err.Error())
	}

	path, err := ParseKeypath(at)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeBadKeypath, err.Error())
	}

	fieldMap, err := parseFieldMappings(fields)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeBadInput, err.Error())
	}

	filterClause, ok := clause.GetAt(doc, path)
	if !ok {
		return fail(formatter, ExitFailure, ErrCodeBadKeypath,
			fmt.Sprintf("keypath %v does not resolve in document", path))
	}

	compiler := querysql.NewCompiler(fieldMap)
	sql, params, err := compiler.CompileFilter(filterClause)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeCompile, err.Error())
	}
	if params == nil {
		params = []any{}
	}

	if opts.Format == "json" {
		return formatter.Success(SQLResult{SQL: sql, Params: params})
	}
	return formatter.Success(fmt.Sprintf("%s\nparams: %v", sql, params))
}

// parseFieldMappings parses repeated id=column flags.
func parseFieldMappings(fields []string) (map[int64]string, error) {
	fieldMap := make(map[int64]string, len(fields))
	for _, f := range fields {
		id, column, ok := strings.Cut(f, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid field mapping %q: expected id=column", f)
		}
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid field id in mapping %q: %w", f, err)
		}
		fieldMap[n] = column
	}
	return fieldMap, nil
}
