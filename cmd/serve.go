package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/database"
	"learnhub/server"
	"learnhub/utils"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "Run migrations before serving")
}

func runServe(cmd *cobra.Command) error {
	e, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if migrate, err := cmd.Flags().GetBool("migrate"); err != nil || migrate {
		if err := database.RunMigrations(e.db, e.log); err != nil {
			return err
		}
	}

	integrations, err := server.NewIntegrations(e.cfg, e.log)
	if err != nil {
		return err
	}
	defer integrations.Close()

	services := server.NewServices(e.cfg, server.GormRepos(e.db, e.log), integrations, e.log)

	if e.cfg.RollupEnabled {
		scheduler, err := utils.InitializeProgressScheduler(e.cfg.RollupCron, services.Progress, e.log)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	app := server.NewApp(services, integrations, e.log, server.AppOptions{AccessLog: true})

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server is running", "port", e.cfg.Port)
		errCh <- app.Listen(":" + e.cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		e.log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}
