package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/productivity-engines/website/core/roles"
)

func NewSetAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin <email>",
		Short: "Grant admin privileges to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			msg, err := roles.New(s, nil).SetAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
