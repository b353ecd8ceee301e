package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dcrodman/prs/internal/core/debug"
)

// serveCommand keeps prsctl running in the foreground with the pprof debug
// server enabled, for operators who want to profile a long paramdata load or
// watch goroutine/heap stats while driving the other commands against the
// same audit database.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "prsctl serve",
		Description: "Runs prsctl's debug pprof server in the foreground until interrupted.",
		Flags:       []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			if cfg.Debugging.PprofEnabled {
				debug.StartPprofServer(cfg, logger)
			} else {
				logger.Info("pprof server disabled (debugging.pprof_enabled is false)")
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			logger.Info("serving; press Ctrl-C to stop")
			<-sig
			logger.Info("shutting down")
			return nil
		},
	}
}
