package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go/analysis"
)

// publishDiagnostics converts analysis diagnostics to LSP format and sends
// them as a fire-and-forget notification.
func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI, doc *analysis.Document) {
	diagnostics := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))

	for _, d := range doc.Diagnostics {
		diagnostics = append(diagnostics, convertDiagnostic(d))
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     uint32(doc.Version), //nolint:gosec // LSP versions are non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// convertDiagnostic converts an analysis.Diagnostic to its LSP shape.
func convertDiagnostic(d analysis.Diagnostic) protocol.Diagnostic {
	diag := protocol.Diagnostic{
		Range:    spanToRange(d.Span),
		Severity: convertSeverity(d.Severity),
		Source:   d.Source,
		Message:  d.Message,
	}

	if d.Code != "" {
		diag.Code = d.Code
	}

	return diag
}

// convertSeverity converts analysis severity to LSP severity.
func convertSeverity(sev analysis.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.SeverityError:
		return protocol.DiagnosticSeverityError
	case analysis.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case analysis.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
