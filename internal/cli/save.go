package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangram-data/mql/internal/store"
)

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var name string

	cmd := &cobra.Command{
		Use:   "save <document>",
		Short: "Save a query document to the query library",
		Long: `Canonicalize a query document and store it in the library.

The filter clause is simplified before storage and the document is keyed
by its content hash, so saving a structurally equal document is a no-op
that returns the existing record.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], dbPath, name, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "mql.db", "path to the query library database")
	cmd.Flags().StringVar(&name, "name", "", "name for the saved query")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runSave(opts *RootOptions, docPath, dbPath, name string, cmd *cobra.Command) error {
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

	st, err := store.Open(dbPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer st.Close()

	saved, err := st.SaveQuery(cmd.Context(), name, doc)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeStore, err.Error())
	}

	formatter.VerboseLog("saved query %s with hash %s", saved.ID, saved.Hash)

	if opts.Format == "json" {
		return formatter.Success(saved)
	}
	return formatter.Success(fmt.Sprintf("saved %q as %s (hash %s)", saved.Name, saved.ID, saved.Hash))
}
