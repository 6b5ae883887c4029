// Package main is preavisoctl, an offline tool for inspecting pre-filing
// contexts: derive their stage summary, replay conversational turns on the
// deterministic rules and check capture vocabularies.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "preavisoctl",
		Short: "Inspect pre-filing contexts offline",
		Long: `preavisoctl works on transaction contexts stored as JSON files.

It never calls a model: turns are replayed on the deterministic rules and
document extraction is not available.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDeriveCmd(),
		newInterpretCmd(opts),
		newVocabularyCmd(),
	)
	return cmd
}

// readContext decodes a context from path, or from in when path is "-".
func readContext(path string, in io.Reader) (*transaction.Context, error) {
	var r io.Reader = in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening context: %w", err)
		}
		defer f.Close()
		r = f
	}

	tx := &transaction.Context{}
	if err := json.NewDecoder(r).Decode(tx); err != nil {
		return nil, fmt.Errorf("decoding context: %w", err)
	}
	return tx, nil
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newLogger(cmd *cobra.Command, level string) *slog.Logger {
	return logging.New(level, "text", cmd.ErrOrStderr())
}
