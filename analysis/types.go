// Package analysis performs semantic analysis of KCL documents: the kind
// checker, the per-URI document store, and position utilities shared by the
// LSP services.
package analysis

import (
	"github.com/kclang/kcl-go"
)

// DiagnosticSeverity mirrors the LSP severity levels.
type DiagnosticSeverity int

// Severity levels, most severe first.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is a single issue found in a document.
type Diagnostic struct {
	Span     kcl.Span
	Severity DiagnosticSeverity
	Message  string
	// Source identifies the producing stage: parser, typecheck or
	// deprecated.
	Source string
	Code   string
}

// Symbol is a name defined at the top level of a document.
type Symbol struct {
	Name string
	// Kind is "function" for fn definitions, "variable" for let/assign.
	Kind string
	// Span covers the defining identifier token.
	Span kcl.Span
	// Detail is the outline detail, e.g. fn(a, b).
	Detail string
	// Exported is true for export-wrapped definitions.
	Exported bool
}
