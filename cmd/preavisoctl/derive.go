package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkus-mindteams/Notary-sub000/internal/app/txtype"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
)

type deriveOptions struct {
	txType string
	model  bool
}

func newDeriveCmd() *cobra.Command {
	opts := &deriveOptions{}
	cmd := &cobra.Command{
		Use:   "derive <context.json|->",
		Short: "Print the stage summary of a context",
		Long: `Derives the stage summary of a context read from a file or stdin.

With --model the context must be ready and the document model handed to the
renderer is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.txType, "type", "", "transaction type (defaults to the context's own)")
	cmd.Flags().BoolVar(&opts.model, "model", false, "print the document model instead of the summary")
	return cmd
}

func runDerive(cmd *cobra.Command, path string, opts *deriveOptions) error {
	tx, err := readContext(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	name := opts.txType
	if name == "" {
		name = tx.TransactionType
	}
	t, err := txtype.Parse(name)
	if err != nil {
		return err
	}
	impl := t.Impl()

	if opts.model {
		if err := impl.Validate(tx); err != nil {
			return fmt.Errorf("context not ready: %w", err)
		}
		model, err := impl.BuildDocumentModel(tx, time.Now())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), model)
	}

	return printJSON(cmd.OutOrStdout(), stage.Derive(impl.Stages(), tx))
}
