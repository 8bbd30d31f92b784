package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/db"
)

// NewRootCmd builds the pectl command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pectl",
		Short:         "Productivity Engines maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("dsn", os.Getenv("DATABASE_URL"), "database DSN (postgres://, mysql:// or a SQLite path)")

	cmd.AddCommand(
		NewMigrateCmd(),
		NewSeedCmd(),
		NewSetAdminCmd(),
	)
	return cmd
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return nil, fmt.Errorf("no database configured: pass --dsn or set DATABASE_URL")
	}
	conn, err := db.Connect(dsn)
	if err != nil {
		return nil, err
	}
	return store.New(conn), nil
}
