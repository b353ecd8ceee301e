package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dcrodman/prs/internal/paramdata"
)

func paramDataCommand() *cli.Command {
	return &cli.Command{
		Name:        "paramdata",
		Usage:       "prsctl paramdata <subcommand>",
		Description: "Loads and inspects PRS-compressed parameter files.",
		Subcommands: []*cli.Command{
			paramDataLoadCommand(),
		},
	}
}

func paramDataLoadCommand() *cli.Command {
	return &cli.Command{
		Name:        "load",
		Usage:       "prsctl paramdata load",
		Description: "Loads every parameter file in the configured directory and reports what was found.",
		Flags:       []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			db := openJobStore(cfg, logger)

			ttl := time.Duration(cfg.ParamData.CacheTTLSeconds) * time.Second
			loader := paramdata.NewLoader(cfg.ParamData.Dir, ttl, logger, db)

			loaded, err := loader.LoadAll()
			if err != nil {
				return fmt.Errorf("error loading parameter files: %w", err)
			}

			for _, info := range loaded {
				fmt.Printf("%-30s %-30s %8d bytes  crc32=%08x\n", info.Name, info.DisplayName, info.Size, info.Checksum)
			}
			fmt.Printf("loaded %d parameter files from %s\n", len(loaded), cfg.ParamData.Dir)
			return nil
		},
	}
}
