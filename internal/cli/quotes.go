package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "List the stored quotes dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			records, err := st.ReadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("Dataset is empty. Run 'spq seed' first.")
				return nil
			}

			fmt.Printf("%-20s  %-15s  %s\n", "ID", "CHARACTER", "QUOTE")
			fmt.Printf("%-20s  %-15s  %s\n", "--", "---------", "-----")
			for _, q := range records {
				fmt.Printf("%-20s  %-15s  %s\n", q.ID, q.Character, q.Quote)
			}

			return nil
		},
	}
}
