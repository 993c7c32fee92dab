package main

import (
	"io"

	"github.com/spf13/cobra"

	csvAdapter "github.com/iho/txledger/internal/adapter/csv"
	"github.com/iho/txledger/internal/usecase"
)

func newGenerateCmd(stdout io.Writer) *cobra.Command {
	cfg := usecase.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic transaction file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := csvAdapter.NewTransactionWriter(stdout)
			if err != nil {
				return err
			}
			for _, tx := range usecase.GenerateTransactions(cfg) {
				if err := w.Write(tx); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&cfg.Count, "count", cfg.Count, "Number of records")
	cmd.Flags().Uint16Var(&cfg.Clients, "clients", cfg.Clients, "Number of distinct clients")
	cmd.Flags().Int64Var(&cfg.MaxAmount, "max-amount", cfg.MaxAmount, "Largest deposit amount")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")

	return cmd
}
