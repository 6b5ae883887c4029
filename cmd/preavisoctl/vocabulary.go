package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
)

func newVocabularyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "Check capture vocabularies and what they recognize",
	}
	cmd.AddCommand(newVocabularyCheckCmd(), newVocabularyMatchCmd())
	return cmd
}

func newVocabularyCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <vocabulary.yaml>",
		Short: "Decode and compile a vocabulary file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading vocabulary: %w", err)
			}
			v, err := facts.Load(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d institutions\n", len(v.Institutions()))
			return nil
		},
	}
}

type matchOptions struct {
	file   string
	prompt string
}

func newVocabularyMatchCmd() *cobra.Command {
	opts := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Show which vocabulary values a text contains",
		Example: `  preavisoctl vocabulary match "crédito Infonavit, soy casado, RFC PELJ800101AB1"
  preavisoctl vocabulary match --prompt "¿El inmueble está libre de gravamen?" "no"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := facts.Default()
			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("reading vocabulary: %w", err)
				}
				if v, err = facts.Load(data); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), matchText(v, args[0], opts.prompt))
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "vocabulary file (defaults to the embedded one)")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "question the text answers, for yes/no polarity")
	return cmd
}

// matches is what a text yields against the vocabulary. Empty fields were
// not found.
type matches struct {
	Institution   string  `json:"institution,omitempty"`
	MaritalStatus string  `json:"marital_status,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	TaxID         string  `json:"tax_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	PartyKind     string  `json:"party_kind"`
	Answer        string  `json:"answer"`
}

func matchText(v *facts.Vocabulary, text, prompt string) matches {
	var m matches
	if inst, ok := v.MatchInstitution(text); ok {
		m.Institution = inst
	}
	if ms, ok := v.FindMaritalStatus(text); ok {
		m.MaritalStatus = string(ms)
	}
	if pm, ok := v.FindPaymentMethod(text); ok {
		m.PaymentMethod = string(pm)
	}
	if id, ok := v.FindTaxID(text); ok {
		m.TaxID = id
	}
	if amount, ok := v.ParseAmount(text); ok {
		m.Amount = amount
	}
	m.PartyKind = string(v.InferPartyKind(strings.TrimSpace(text)))
	m.Answer = v.ReplyTriState(text, prompt).String()
	return m
}
