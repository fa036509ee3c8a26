package cmd

import (
	"context"
	"fmt"
	"os"

	"learnhub/server"
	"learnhub/utils"

	"github.com/spf13/cobra"
)

var importPricingCmd = &cobra.Command{
	Use:   "import-pricing <file.csv>",
	Short: "Upsert course price sheets from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer file.Close()

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
		res, err := utils.ImportPricing(context.Background(), services.Pricing, file, e.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d, skipped %d, failed %d\n", res.Saved, res.Skipped, res.Failed)
		return nil
	},
}
