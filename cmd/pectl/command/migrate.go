package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/productivity-engines/website/core/seed"
	"github.com/productivity-engines/website/db"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			if err := db.Migrate(s.DB()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
			return nil
		},
	}
}

// NewSeedCmd inserts the default catalog. --extended selects the larger set.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default agent categories and agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defaults, err := seed.LoadDefaults()
			if err != nil {
				return err
			}

			seeder := seed.New(s, defaults)
			run := seeder.InitDB
			if extended, _ := cmd.Flags().GetBool("extended"); extended {
				run = seeder.SeedData
			}
			res, err := run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories and %d agents\n", res.Categories, res.Agents)
			return nil
		},
	}
	cmd.Flags().Bool("extended", false, "seed the extended catalog")
	return cmd
}
