package cmd

import (
	"fmt"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "learnhub",
	Short: "E-learning backend",
	Long:  "learnhub serves the course catalog, learning progress, quizzes, discussions and payments API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-mode", "", "Logger mode: production or development (defaults to APP_ENV)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(importPricingCmd)
}

// env is what every command needs before doing real work.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
}

func bootstrap(cmd *cobra.Command) (*env, error) {
	cfg := config.LoadConfig()

	mode, _ := cmd.Flags().GetString("env-mode")
	if mode == "" {
		mode = cfg.AppEnv
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	e.log.Sync()
}
