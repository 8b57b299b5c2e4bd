package cli

import (
	"fmt"

	"github.com/me/spq/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode and decode auth cookie tokens",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <username> <password>",
			Short: "Encode credentials into a cookie token",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println(auth.EncodeToken(args[0], args[1]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "decode <token>",
			Short: "Decode a cookie token back into credentials",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, password, ok := auth.DecodeToken(args[0])
				if !ok {
					return fmt.Errorf("token does not decode to username:password")
				}
				fmt.Printf("username: %s\npassword: %s\n", username, password)
				return nil
			},
		},
	)

	return cmd
}
