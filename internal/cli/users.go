package cli

import (
	"fmt"
	"strings"

	"github.com/me/spq/internal/auth"
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts in the credential dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := auth.NewCredentialStore(cfg.UsersPath(), logger)

			accounts, err := creds.Users()
			if err != nil {
				return fmt.Errorf("read credential dataset: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println("No accounts found.")
				return nil
			}

			// Passwords never reach the terminal.
			fmt.Printf("%-20s  %s\n", "USERNAME", "ROLES")
			fmt.Printf("%-20s  %s\n", "--------", "-----")
			for _, account := range accounts {
				fmt.Printf("%-20s  %s\n", account.Username, strings.Join(account.Roles, ", "))
			}

			return nil
		},
	}
}
