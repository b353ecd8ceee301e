// Command prsctl is a small toolkit for working with PRS-compressed PSO/PSO2
// game data: compressing and decompressing files directly, loading a
// directory of parameter files and inspecting what was found, or unpacking
// an ICE container archive.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "prsctl",
		Usage: "compress, decompress, and inspect PRS-encoded game data",
		Commands: []*cli.Command{
			compressCommand(),
			decompressCommand(),
			paramDataCommand(),
			statsCommand(),
			icearchiveCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
