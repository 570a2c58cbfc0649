package cmd

import (
	"fmt"

	"polyglot-booking/pkg/middleware"

	"github.com/spf13/cobra"
)

func hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "hash-token <token>",
		Short:   "Print the bcrypt hash to use as SERVICE_TOKEN_HASH",
		Example: `  polyglot-booking hash-token "$(openssl rand -hex 32)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashServiceToken(args[0])
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
