package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dcrodman/prs/internal/core"
	"github.com/dcrodman/prs/internal/core/store"
)

var configFlagValue string

// configFlag is the config-path flag every subcommand exposes, mirroring the
// original server command's own "config" flag.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to the directory containing the prsctl config file",
		EnvVars:     []string{"PRSCTL_CONFIG"},
		Value:       "./",
		Destination: &configFlagValue,
	}
}

func loadConfigAndLogger() (*core.Config, *zap.SugaredLogger, error) {
	cfg := core.LoadConfig(configFlagValue)

	logger, err := core.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error building logger: %w", err)
	}
	return cfg, logger, nil
}

// openJobStore initializes the audit-log database for cfg, logging (but not
// failing) if it can't be reached. Commands that get back a nil *gorm.DB
// simply skip recording a CompressionJob for the operation.
func openJobStore(cfg *core.Config, logger *zap.SugaredLogger) *gorm.DB {
	if err := store.Initialize(cfg.Database.Engine, cfg.DataSource(), cfg.Debugging.DatabaseLoggingEnabled); err != nil {
		logger.Warnw("continuing without the compression job audit log", "error", err)
		return nil
	}
	return store.DB()
}
