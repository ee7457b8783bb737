// Package main provides the kcl CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "kcl",
		Version: version,
		Usage:   "KCL CAD modeling language toolchain",
		Commands: []*cli.Command{
			fmtCommand(),
			checkCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
