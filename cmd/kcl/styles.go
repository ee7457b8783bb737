package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Diagnostic colors.
var (
	colorError = lipgloss.Color("#ef4444") // red-500
	colorWarn  = lipgloss.Color("#eab308") // yellow-500
	colorInfo  = lipgloss.Color("#06b6d4") // cyan-500
	colorDim   = lipgloss.Color("#6b7280") // gray-500
)

// styles holds the lipgloss styles for CLI output.
type styles struct {
	Error lipgloss.Style
	Warn  lipgloss.Style
	Info  lipgloss.Style
	Dim   lipgloss.Style
	Path  lipgloss.Style
}

// newStyles builds the style set, dropping color when stdout is not a TTY.
func newStyles() *styles {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		plain := lipgloss.NewStyle()

		return &styles{Error: plain, Warn: plain, Info: plain, Dim: plain, Path: plain}
	}

	return &styles{
		Error: lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Warn:  lipgloss.NewStyle().Foreground(colorWarn),
		Info:  lipgloss.NewStyle().Foreground(colorInfo),
		Dim:   lipgloss.NewStyle().Foreground(colorDim),
		Path:  lipgloss.NewStyle().Bold(true),
	}
}
