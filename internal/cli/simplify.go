package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/filter"
	"github.com/tangram-data/mql/ir"
)

// Error codes for CLI responses.
const (
	ErrCodeBadInput   = "E001" // unreadable or unparseable document
	ErrCodeBadKeypath = "E002" // keypath flag invalid or unresolvable
	ErrCodeCompile    = "E003" // filter does not compile to SQL
	ErrCodeStore      = "E004" // saved-query store failure
)

// NewSimplifyCommand creates the simplify command.
func NewSimplifyCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "simplify <document>",
		Short: "Canonicalize the filter clause of a query document",
		Long: `Simplify the boolean filter clause at a keypath in a query document.

Reads a JSON or YAML query document (use "-" for stdin), rewrites the
filter clause at the given keypath to its canonical form, and prints the
resulting document as JSON. A document with no clause at the keypath is
printed unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(rootOpts, args[0], at, cmd)
		},
	}

	cmd.Flags().StringVar(&at, "at", "query.filter", "dot-separated keypath of the filter clause")

	return cmd
}

func runSimplify(opts *RootOptions, docPath, at string, cmd *cobra.Command) error {
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

	out, err := simplifyAt(doc, path, formatter)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeBadKeypath, err.Error())
	}

	rendered, err := ir.MarshalNode(out)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeBadInput, err.Error())
	}

	if opts.Format == "json" {
		return formatter.Success(json.RawMessage(rendered))
	}
	return formatter.Success(string(rendered))
}

// simplifyAt rewrites the clause at path to canonical form. A document with
// nothing clause-shaped at the path passes through unchanged.
func simplifyAt(doc ir.Map, path clause.Keypath, formatter *OutputFormatter) (ir.Node, error) {
	existing, ok := clause.GetAt(doc, path)
	if !ok || !clause.IsClause(existing) {
		formatter.VerboseLog("no clause at keypath %v; document unchanged", path)
		return doc, nil
	}

	formatter.VerboseLog("simplifying clause at keypath %v", path)
	return clause.WithAt(doc, path, filter.Simplify(existing))
}

// fail emits a formatted error and returns an ExitError carrying the code.
// The returned error's message is already on the formatter's writer, so
// main exits without reprinting it.
func fail(formatter *OutputFormatter, exitCode int, errCode, message string) error {
	_ = formatter.Error(errCode, message)
	return &ExitError{Code: exitCode, Message: message}
}
