package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// CodeAction handles textDocument/codeAction requests: quick fixes mapped
// from parser/typecheck/deprecated diagnostics plus the document-level
// source actions.
func (s *Server) CodeAction(_ context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	s.logger.Debug("CodeAction",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int("diagnosticCount", len(params.Context.Diagnostics)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	var actions []protocol.CodeAction

	for _, diag := range params.Context.Diagnostics {
		actions = append(actions, s.actionsForDiagnostic(params.TextDocument.URI, diag)...)
	}

	// Document diagnostics overlapping the requested range that the client
	// did not echo back.
	for _, d := range doc.Diagnostics {
		diag := convertDiagnostic(d)
		if !rangesOverlap(diag.Range, params.Range) {
			continue
		}

		echoed := false

		for _, reqDiag := range params.Context.Diagnostics {
			if reqDiag.Message == diag.Message && reqDiag.Range == diag.Range {
				echoed = true

				break
			}
		}

		if !echoed {
			actions = append(actions, s.actionsForDiagnostic(params.TextDocument.URI, diag)...)
		}
	}

	actions = append(actions, sourceActions()...)

	return actions, nil
}

func (s *Server) actionsForDiagnostic(uri protocol.DocumentURI, diag protocol.Diagnostic) []protocol.CodeAction {
	switch diag.Source {
	case "deprecated":
		return deprecatedLetActions(uri, diag)
	case "parser":
		return parserActions(uri, diag)
	case "typecheck":
		return typecheckActions(uri, diag)
	default:
		return nil
	}
}

// deprecatedLetActions removes the let keyword together with its trailing
// space (four characters from the keyword's start).
func deprecatedLetActions(uri protocol.DocumentURI, diag protocol.Diagnostic) []protocol.CodeAction {
	if diag.Code != "deprecated-let-keyword" {
		return nil
	}

	edit := protocol.TextEdit{
		Range: protocol.Range{
			Start: diag.Range.Start,
			End: protocol.Position{
				Line:      diag.Range.End.Line,
				Character: diag.Range.End.Character + 1,
			},
		},
		NewText: "",
	}

	return []protocol.CodeAction{{
		Title:       "Remove deprecated 'let' keyword",
		Kind:        protocol.QuickFix,
		Diagnostics: []protocol.Diagnostic{diag},
		IsPreferred: true,
		Edit:        singleEdit(uri, edit),
	}}
}

func parserActions(uri protocol.DocumentURI, diag protocol.Diagnostic) []protocol.CodeAction {
	if !strings.Contains(diag.Message, `expected "}"`) && !strings.Contains(diag.Message, "Expected '}'") {
		return nil
	}

	edit := protocol.TextEdit{
		Range: protocol.Range{
			Start: diag.Range.End,
			End:   diag.Range.End,
		},
		NewText: "}",
	}

	return []protocol.CodeAction{{
		Title:       "Insert missing '}'",
		Kind:        protocol.QuickFix,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit:        singleEdit(uri, edit),
	}}
}

func typecheckActions(uri protocol.DocumentURI, diag protocol.Diagnostic) []protocol.CodeAction {
	const prefix = "Unknown operation: "

	if !strings.HasPrefix(diag.Message, prefix) {
		return nil
	}

	name := strings.TrimPrefix(diag.Message, prefix)
	if strings.Contains(name, "::") {
		return nil
	}

	stub := fmt.Sprintf("fn %s() {\n  return 0\n}\n\n", name)
	edit := protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
		NewText: stub,
	}

	return []protocol.CodeAction{{
		Title:       fmt.Sprintf("Create function '%s'", name),
		Kind:        protocol.QuickFix,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit:        singleEdit(uri, edit),
	}}
}

// sourceActions are always offered regardless of diagnostics.
func sourceActions() []protocol.CodeAction {
	return []protocol.CodeAction{
		{
			Title: "Organize imports",
			Kind:  protocol.SourceOrganizeImports,
		},
		{
			Title: "Add let",
			Kind:  protocol.Refactor,
		},
	}
}

func singleEdit(uri protocol.DocumentURI, edit protocol.TextEdit) *protocol.WorkspaceEdit {
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			uri: {edit},
		},
	}
}
