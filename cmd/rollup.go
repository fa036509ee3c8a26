package cmd

import (
	"context"

	"learnhub/server"
	"learnhub/utils"

	"github.com/spf13/cobra"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Recompute stored course progress for every enrolled user",
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
		return utils.RunProgressRollup(context.Background(), services.Progress, e.log)
	},
}
