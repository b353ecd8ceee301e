package main

import (
	"fmt"
	"hash/crc32"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dcrodman/prs/internal/core/prs"
	"github.com/dcrodman/prs/internal/core/store"
)

func decompressCommand() *cli.Command {
	var outputPath string
	var targetSize int

	return &cli.Command{
		Name:        "decompress",
		Usage:       "prsctl decompress <input file>",
		Description: "Decompresses a PRS stream back into its original bytes.",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path to write the decompressed output to (defaults to <input> with .prs stripped)",
				Destination: &outputPath,
			},
			&cli.IntFlag{
				Name:        "size",
				Aliases:     []string{"s"},
				Usage:       "Expected decompressed size in bytes (auto-detected via DecompressSize if omitted)",
				Destination: &targetSize,
			},
		},
		Action: func(c *cli.Context) error {
			inputPath := c.Args().First()
			if inputPath == "" {
				return fmt.Errorf("an input file is required")
			}
			if outputPath == "" {
				outputPath = trimPrsSuffix(inputPath)
			}

			cfg, logger, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			compressed, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", inputPath, err)
			}

			size := targetSize
			if size == 0 {
				size, err = prs.DecompressSize(compressed)
				if err != nil {
					return fmt.Errorf("error determining decompressed size of %s: %w", inputPath, err)
				}
			}

			decompressed, err := prs.Decompress(compressed, size)
			if err != nil {
				return fmt.Errorf("error decompressing %s: %w", inputPath, err)
			}

			if err := os.WriteFile(outputPath, decompressed, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", outputPath, err)
			}
			logger.Infof("%s: %d -> %d bytes (%s)", inputPath, len(compressed), len(decompressed), outputPath)

			if db := openJobStore(cfg, logger); db != nil {
				job := &store.CompressionJob{
					Operation:  store.OperationDecompress,
					SourcePath: inputPath,
					OutputPath: outputPath,
					InputSize:  len(compressed),
					OutputSize: len(decompressed),
					Checksum:   crc32.ChecksumIEEE(decompressed),
				}
				if err := store.CreateCompressionJob(db, job); err != nil {
					logger.Warnw("failed to record decompression job", "error", err)
				}
			}
			return nil
		},
	}
}

func trimPrsSuffix(path string) string {
	const suffix = ".prs"
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)]
	}
	return path + ".out"
}
