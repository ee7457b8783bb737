package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Type-check kcl files",
		ArgsUsage: "[patterns...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "also rewrite files that parse clean",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output diagnostics as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose logging to stderr",
			},
		},
		Action: runCheck,
	}
}

// fileReport is the per-file JSON output shape. Line and column are
// 1-based.
type fileReport struct {
	File        string           `json:"file"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type diagnosticJSON struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Code     string `json:"code,omitempty"`
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	asJSON := cmd.Bool("json")
	rewrite := cmd.Bool("format")

	logger := zap.NewNop()

	if cmd.Bool("verbose") {
		config := zap.NewDevelopmentConfig()
		config.OutputPaths = []string{"stderr"}
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

		built, err := config.Build()
		if err == nil {
			logger = built
		}
	}

	defer func() { _ = logger.Sync() }()

	files, err := collectFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errNoKCLFiles
	}

	st := newStyles()

	reports := []fileReport{}
	hasErrors := false

	for _, file := range files {
		logger.Debug("checking", zap.String("file", file))

		data, err := os.ReadFile(file) //#nosec G304 -- paths come from user args
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)

			hasErrors = true

			continue
		}

		result := analysis.Analyze(string(data))

		for _, diag := range result.Diagnostics {
			if diag.Severity == analysis.SeverityError {
				hasErrors = true
			}
		}

		if asJSON {
			reports = append(reports, reportFor(file, result))
		} else {
			printDiagnostics(st, file, result)
		}

		if rewrite && result.Program != nil {
			formatted := kcl.Format(result.Program)
			if formatted != string(data) {
				if err := os.WriteFile(file, []byte(formatted), filePermissions); err != nil {
					return err
				}
			}
		}
	}

	if asJSON {
		out, err := json.Marshal(reports)
		if err != nil {
			return err
		}

		fmt.Println(string(out))
	}

	if hasErrors {
		return cli.Exit("", 1)
	}

	return nil
}

func reportFor(file string, result *analysis.AnalyzedFile) fileReport {
	report := fileReport{File: file, Diagnostics: []diagnosticJSON{}}

	for _, diag := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, diagnosticJSON{
			Line:     diag.Span.Start.Line,
			Column:   diag.Span.Start.Column,
			Severity: severityName(diag.Severity),
			Message:  diag.Message,
			Source:   diag.Source,
			Code:     diag.Code,
		})
	}

	return report
}

func printDiagnostics(st *styles, file string, result *analysis.AnalyzedFile) {
	for _, diag := range result.Diagnostics {
		level := st.Info.Render(severityName(diag.Severity))

		switch diag.Severity {
		case analysis.SeverityError:
			level = st.Error.Render("error")
		case analysis.SeverityWarning:
			level = st.Warn.Render("warning")
		}

		fmt.Printf("%s:%d:%d %s %s %s\n",
			st.Path.Render(file),
			diag.Span.Start.Line,
			diag.Span.Start.Column,
			level,
			diag.Message,
			st.Dim.Render("["+diag.Source+"]"))
	}
}

func severityName(sev analysis.DiagnosticSeverity) string {
	switch sev {
	case analysis.SeverityError:
		return "error"
	case analysis.SeverityWarning:
		return "warning"
	case analysis.SeverityInformation:
		return "information"
	default:
		return "hint"
	}
}
