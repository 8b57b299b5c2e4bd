package cli

import (
	"fmt"

	"github.com/me/spq/internal/quotes"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the quotes dataset from the external API",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			clientCfg := quotes.DefaultClientConfig()
			if endpoint != "" {
				clientCfg.Endpoint = endpoint
			}
			client := quotes.NewClient(clientCfg, logger)

			if err := st.EnsureSeeded(cmd.Context(), client.FetchFunc()); err != nil {
				return fmt.Errorf("seed dataset: %w", err)
			}

			records, err := st.ReadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			fmt.Printf("Dataset ready: %d quotes in %s store.\n", len(records), cfg.Store)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Override the quote API endpoint")
	return cmd
}
