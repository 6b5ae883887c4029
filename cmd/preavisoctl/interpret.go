package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	storememory "github.com/arkus-mindteams/Notary-sub000/internal/adapters/store/memory"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/executor"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/workflow"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/handler"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

type interpretOptions struct {
	root        *rootOptions
	contextPath string
	id          string
	out         string
	json        bool
}

func newInterpretCmd(root *rootOptions) *cobra.Command {
	opts := &interpretOptions{root: root}
	cmd := &cobra.Command{
		Use:   "interpret <message>...",
		Short: "Replay user messages as turns on the deterministic rules",
		Long: `Runs each message as one turn, in order, starting from --context or an
empty context. Messages the rules cannot interpret are answered with the
fallback question, as the service does when no model is configured.`,
		Example: `  preavisoctl interpret "es de contado" "el vendedor es Juan Pérez López"
  preavisoctl interpret --context tx.json --out tx.json "sí"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterpret(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.contextPath, "context", "", "starting context file ('-' for stdin)")
	cmd.Flags().StringVar(&opts.id, "id", "", "transaction id (defaults to the context's own, or 'local')")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the final context to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print every turn result as JSON")
	return cmd
}

func runInterpret(cmd *cobra.Command, messages []string, opts *interpretOptions) error {
	var start *transaction.Context
	if opts.contextPath != "" {
		tx, err := readContext(opts.contextPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		start = tx
	}

	id := opts.id
	switch {
	case id != "":
	case start != nil && start.TransactionID != "":
		id = start.TransactionID
	default:
		id = "local"
	}
	if start != nil {
		start.TransactionID = id
	}

	logger := newLogger(cmd, opts.root.logLevel)
	vocab := facts.Default()
	svc := workflow.NewTurnService(workflow.Dependencies{
		Executor: executor.New(handler.New(vocab), nil),
		Store:    storememory.New(),
		Logger:   logger,
		Locks:    workflow.NewKeyedMutex(),
	}, vocab, nil, workflow.Config{})

	var (
		history []ports.Turn
		last    *ports.TurnResult
	)
	w := cmd.OutOrStdout()
	for i, msg := range messages {
		req := ports.TurnRequest{TransactionID: id, UserText: msg, History: history}
		if i == 0 {
			req.Context = start
		}
		res, err := svc.ProcessTurn(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("turn %d: %w", i+1, err)
		}
		last = res
		history = append(history,
			ports.Turn{Role: "user", Text: msg},
			ports.Turn{Role: "assistant", Text: res.Message},
		)

		if opts.json {
			if err := printJSON(w, res); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "> %s\n", msg)
		for _, c := range res.AppliedCommands {
			fmt.Fprintf(w, "  + %s\n", c.Kind())
		}
		for _, f := range res.Diagnostics.Failures {
			fmt.Fprintf(w, "  ! %s: %s\n", f.Kind, f.Message)
		}
		fmt.Fprintf(w, "< %s\n", res.Message)
	}

	if !opts.json {
		fmt.Fprintf(w, "stage: %s\n", last.Summary.CurrentStage)
	}
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.out, err)
		}
		defer f.Close()
		if err := printJSON(f, last.Context); err != nil {
			return fmt.Errorf("writing %s: %w", opts.out, err)
		}
	}
	return nil
}
