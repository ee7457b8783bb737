package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kclang/kcl-go"
)

var errNoKCLFiles = errors.New("no .kcl files found")

const filePermissions = 0o600

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Aliases:   []string{"format"},
		Usage:     "Format kcl files",
		ArgsUsage: "[patterns...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "check",
				Aliases: []string{"c"},
				Usage:   "check if files are formatted (exit 1 if not)",
			},
			&cli.BoolFlag{
				Name:  "no-write",
				Usage: "print formatted output instead of rewriting files",
			},
		},
		Action: runFmt,
	}
}

func runFmt(_ context.Context, cmd *cli.Command) error {
	check := cmd.Bool("check")
	noWrite := cmd.Bool("no-write")

	files, err := collectFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errNoKCLFiles
	}

	var unformatted []string

	failed := false

	for _, file := range files {
		changed, err := formatFile(file, check, noWrite)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)

			failed = true

			continue
		}

		if changed {
			unformatted = append(unformatted, file)
		}
	}

	if failed {
		return cli.Exit("", 1)
	}

	if check && len(unformatted) > 0 {
		fmt.Fprintf(os.Stderr, "The following files are not formatted:\n")

		for _, file := range unformatted {
			fmt.Fprintf(os.Stderr, "  %s\n", file)
		}

		return cli.Exit("", 1)
	}

	return nil
}

// collectFiles expands glob patterns and walks directories for .kcl files.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}

		if matches == nil {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}

			if !info.IsDir() {
				files = append(files, match)

				continue
			}

			err = filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if !d.IsDir() && strings.HasSuffix(path, ".kcl") {
					files = append(files, path)
				}

				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func formatFile(path string, check, noWrite bool) (bool, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- paths come from user args
	if err != nil {
		return false, err
	}

	prog, err := kcl.Parse(string(data))
	if err != nil {
		return false, err
	}

	formatted := kcl.Format(prog)

	changed := string(data) != formatted
	if !changed || check {
		return changed, nil
	}

	if noWrite {
		_, err = os.Stdout.WriteString(formatted)

		return true, err
	}

	err = os.WriteFile(path, []byte(formatted), filePermissions)
	if err != nil {
		return true, err
	}

	fmt.Println(path)

	return true, nil
}
