package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tangram-data/mql/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved queries in the query library",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "mql.db", "path to the query library database")

	return cmd
}

func runList(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer st.Close()

	queries, err := st.ListQueries(cmd.Context())
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeStore, err.Error())
	}

	if opts.Format == "json" {
		return formatter.Success(queries)
	}

	if len(queries) == 0 {
		return formatter.Success("no saved queries")
	}

	var b strings.Builder
	for i, q := range queries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s  %s", q.ID, q.Hash[:12], q.Name)
	}
	return formatter.Success(b.String())
}
