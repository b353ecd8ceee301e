package main

import (
	"fmt"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/urfave/cli/v2"

	"github.com/dcrodman/prs/internal/paramdata"
)

// statsCommand renders a bar chart of the decompressed size of every
// parameter file in the configured directory, to give an operator a quick
// visual read on which parameter tables dominate the data set.
func statsCommand() *cli.Command {
	var outputPath string

	return &cli.Command{
		Name:        "stats",
		Usage:       "prsctl stats",
		Description: "Charts the decompressed size of every loaded parameter file.",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path to write the SVG chart to",
				Value:       "paramdata-ratios.svg",
				Destination: &outputPath,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			ttl := time.Duration(cfg.ParamData.CacheTTLSeconds) * time.Second
			loader := paramdata.NewLoader(cfg.ParamData.Dir, ttl, logger, nil)

			loaded, err := loader.LoadAll()
			if err != nil {
				return fmt.Errorf("error loading parameter files: %w", err)
			}
			if len(loaded) == 0 {
				return fmt.Errorf("no parameter files found in %s", cfg.ParamData.Dir)
			}

			bars := make([]chart.Value, len(loaded))
			for i, info := range loaded {
				bars[i] = chart.Value{
					Label: info.DisplayName,
					Value: float64(info.Size),
				}
			}

			graph := chart.BarChart{
				Title:    "Decompressed parameter file sizes",
				Height:   512,
				BarWidth: 40,
				Bars:     bars,
			}

			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", outputPath, err)
			}
			defer f.Close()

			if err := graph.Render(chart.SVG, f); err != nil {
				return fmt.Errorf("error rendering chart: %w", err)
			}

			logger.Infof("wrote chart for %d files to %s", len(loaded), outputPath)
			return nil
		},
	}
}
