package main

import (
	"fmt"
	"hash/crc32"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dcrodman/prs/internal/core/prs"
	"github.com/dcrodman/prs/internal/core/store"
)

func compressCommand() *cli.Command {
	var outputPath string

	return &cli.Command{
		Name:        "compress",
		Usage:       "prsctl compress <input file>",
		Description: "Compresses a file into a PRS stream.",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path to write the compressed output to (defaults to <input>.prs)",
				Destination: &outputPath,
			},
		},
		Action: func(c *cli.Context) error {
			inputPath := c.Args().First()
			if inputPath == "" {
				return fmt.Errorf("an input file is required")
			}
			if outputPath == "" {
				outputPath = inputPath + ".prs"
			}

			cfg, logger, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", inputPath, err)
			}

			compressed, err := prs.Compress(raw)
			if err != nil {
				return fmt.Errorf("error compressing %s: %w", inputPath, err)
			}

			if err := os.WriteFile(outputPath, compressed, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", outputPath, err)
			}
			logger.Infof("%s: %d -> %d bytes (%s)", inputPath, len(raw), len(compressed), outputPath)

			if db := openJobStore(cfg, logger); db != nil {
				job := &store.CompressionJob{
					Operation:  store.OperationCompress,
					SourcePath: inputPath,
					OutputPath: outputPath,
					InputSize:  len(raw),
					OutputSize: len(compressed),
					Checksum:   crc32.ChecksumIEEE(raw),
				}
				if err := store.CreateCompressionJob(db, job); err != nil {
					logger.Warnw("failed to record compression job", "error", err)
				}
			}
			return nil
		},
	}
}
