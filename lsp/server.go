// Package lsp implements a Language Server Protocol server for KCL.
package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go/analysis"
	"github.com/kclang/kcl-go/module"
	"github.com/kclang/kcl-go/vfs"
)

// Server implements the LSP Server interface for KCL.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// store holds the per-URI cached parse results.
	store *analysis.Store

	// resolver handles import paths for the open workspace.
	resolver *module.Resolver

	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// NewServer creates a new LSP server over the given filesystem.
func NewServer(client protocol.Client, logger *zap.Logger, fs vfs.FS) *Server {
	return &Server{
		client:   client,
		logger:   logger,
		store:    analysis.NewStore(),
		resolver: module.NewResolver(fs),
	}
}

// Store exposes the document store for testing.
func (s *Server) Store() *analysis.Store { return s.store }

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize")

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	s.resolver.WorkspaceRoot = s.workspaceRoot

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{".", "|"},
				ResolveProvider:   false,
			},
			DocumentSymbolProvider:     true,
			DocumentFormattingProvider: true,
			RenameProvider: &protocol.RenameOptions{
				PrepareProvider: true,
			},
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.QuickFix,
					protocol.Refactor,
					protocol.Source,
				},
			},
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters:   []string{"(", ","},
				RetriggerCharacters: []string{","},
			},
			FoldingRangeProvider: true,
			// protocol v0.12.0 has no typed options for semantic tokens;
			// advertise the legend as a raw capability map.
			SemanticTokensProvider: map[string]any{
				"legend": map[string]any{
					"tokenTypes":     semanticTokenTypes,
					"tokenModifiers": semanticTokenModifiers,
				},
				"full": true,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "kcl-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification. The transport loop exits after this.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")

	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := s.store.Open(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)

	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications. Only full sync is
// supported; the last content change carries the whole document.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}

	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc := s.store.Update(string(params.TextDocument.URI), text, params.TextDocument.Version)

	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.store.Close(string(params.TextDocument.URI))

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, _ *protocol.DidSaveTextDocumentParams) error {
	return nil
}

// getDocument returns a cached document by URI.
func (s *Server) getDocument(uri protocol.DocumentURI) (*analysis.Document, bool) {
	return s.store.Get(string(uri))
}

// Handler wraps the standard protocol dispatcher to serve methods the
// protocol package predates, currently textDocument/inlayHint. Cancellation
// is accepted and discarded by the inner dispatcher.
func (s *Server) Handler(next jsonrpc2.Handler) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == methodInlayHint {
			var params InlayHintParams

			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}

			hints, err := s.InlayHint(ctx, &params)

			return reply(ctx, hints, err)
		}

		return next(ctx, reply, req)
	}
}
