package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/restful-blog/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.InitSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.Database.Driver)
		return nil
	},
}
