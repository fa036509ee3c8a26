package cmd

import (
	"context"
	"fmt"

	"learnhub/server"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every course into the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		integrations, err := server.NewIntegrations(e.cfg, e.log)
		if err != nil {
			return err
		}
		defer integrations.Close()

		services := server.NewServices(e.cfg, server.GormRepos(e.db, e.log), integrations, e.log)
		n, err := services.Courses.Reindex(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d courses\n", n)
		return nil
	},
}
