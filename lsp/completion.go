package lsp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/stdlib"
)

// Completion handles textDocument/completion requests. The result merges
// stdlib operations, constants, keywords, and - when the document parses -
// program-defined names.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	var items []protocol.CompletionItem

	noStd := doc.Program != nil && doc.Program.Settings.NoStd

	if !noStd {
		items = append(items, stdlibCompletions()...)
		items = append(items, constantCompletions()...)
	}

	items = append(items, keywordCompletions()...)

	if doc.Program != nil {
		items = append(items, programCompletions(doc.Program)...)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func stdlibCompletions() []protocol.CompletionItem {
	names := stdlib.Names()
	items := make([]protocol.CompletionItem, 0, len(names))

	for _, name := range names {
		sig, _ := stdlib.Lookup(name)
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   protocol.CompletionItemKindFunction,
			Detail: signatureLabel(name, sig),
		})
	}

	return items
}

func constantCompletions() []protocol.CompletionItem {
	var items []protocol.CompletionItem

	planes, mathNames, unitNames, tagNames := stdlib.ConstantNames()

	add := func(names []string, detail string) {
		sort.Strings(names)

		for _, name := range names {
			items = append(items, protocol.CompletionItem{
				Label:  name,
				Kind:   protocol.CompletionItemKindConstant,
				Detail: detail,
			})
		}
	}

	add(planes, "plane")
	add(mathNames, "constant")
	add(unitNames, "unit")
	add(tagNames, "edge")

	return items
}

func keywordCompletions() []protocol.CompletionItem {
	kws := kcl.Keywords()
	items := make([]protocol.CompletionItem, 0, len(kws))

	for _, kw := range kws {
		items = append(items, protocol.CompletionItem{
			Label: kw,
			Kind:  protocol.CompletionItemKindKeyword,
		})
	}

	return items
}

// programCompletions lists let/fn names defined at the top level.
func programCompletions(prog *kcl.Program) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	var add func(stmt kcl.Stmt)

	add = func(stmt kcl.Stmt) {
		switch s := stmt.(type) {
		case *kcl.LetStmt:
			items = append(items, protocol.CompletionItem{
				Label: s.Name,
				Kind:  protocol.CompletionItemKindVariable,
			})
		case *kcl.AssignStmt:
			items = append(items, protocol.CompletionItem{
				Label: s.Name,
				Kind:  protocol.CompletionItemKindVariable,
			})
		case *kcl.FnDefStmt:
			items = append(items, protocol.CompletionItem{
				Label:  s.Name,
				Kind:   protocol.CompletionItemKindFunction,
				Detail: fnDetail(s.Params),
			})
		case *kcl.ExportStmt:
			add(s.Inner)
		}
	}

	for _, stmt := range prog.Statements {
		add(stmt)
	}

	return items
}

func fnDetail(params []kcl.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	return "fn(" + strings.Join(names, ", ") + ")"
}

// signatureLabel renders a stdlib signature as name(param: Kind, ...) Kind.
func signatureLabel(name string, sig stdlib.Signature) string {
	parts := make([]string, len(sig.Params))

	for i, p := range sig.Params {
		parts[i] = p.Name + ": " + p.Kind.String()
		if p.Optional {
			parts[i] = p.Name + "?: " + p.Kind.String()
		}
	}

	return fmt.Sprintf("%s(%s) %s", name, strings.Join(parts, ", "), sig.Returns)
}
