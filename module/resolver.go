// Package module resolves import paths to documents and extracts their
// exported symbols.
package module

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/vfs"
)

// ErrUnsupportedImport is wrapped into resolution errors for bare package
// imports, which are not supported yet.
var ErrUnsupportedImport = errors.New("Package imports not yet supported")

const fileExt = ".kcl"

// ResolutionError records a failed import resolution. Errors accumulate on
// the resolver and are surfaced via Errors(); resolution never panics or
// throws past its caller.
type ResolutionError struct {
	Path string
	From string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s (imported from %s): %v", e.Path, e.From, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ExportedSymbol is one name exported by a module.
type ExportedSymbol struct {
	Name string
	// Kind is "function" or "variable".
	Kind string
	Span kcl.Span
}

// Resolver maps import paths to URIs and extracts exported symbols.
// Results are memoised per URI; the cache is monotone until ClearCache.
type Resolver struct {
	fs vfs.FS

	mu      sync.Mutex
	exports map[string]map[string]ExportedSymbol
	errs    []*ResolutionError

	// WorkspaceRoot anchors @std/ probing; may be empty.
	WorkspaceRoot string
}

// NewResolver creates a resolver over the given filesystem.
func NewResolver(fs vfs.FS) *Resolver {
	return &Resolver{
		fs:      fs,
		exports: make(map[string]map[string]ExportedSymbol),
	}
}

// Resolve maps an import path to a document URI. Relative paths resolve
// against the importing document's directory with .kcl appended when
// missing; @std/ paths probe a fixed list of well-known locations; anything
// else fails. Failures are recorded and returned.
func (r *Resolver) Resolve(importPath, fromURI string) (string, error) {
	switch {
	case strings.HasPrefix(importPath, "./"), strings.HasPrefix(importPath, "../"):
		candidate := r.fs.Resolve(r.fs.Dirname(fromURI), importPath)
		if !strings.HasSuffix(candidate, fileExt) {
			candidate += fileExt
		}

		if r.fs.Exists(candidate) {
			return candidate, nil
		}

		return "", r.record(importPath, fromURI, vfs.ErrNotFound)

	case strings.HasPrefix(importPath, "@std/"):
		name := strings.TrimPrefix(importPath, "@std/")
		if !strings.HasSuffix(name, fileExt) {
			name += fileExt
		}

		candidates := []string{
			r.fs.Join(r.fs.Dirname(fromURI), "std", name),
		}
		if r.WorkspaceRoot != "" {
			candidates = append(candidates, r.fs.Join(r.WorkspaceRoot, "std", name))
		}

		for _, candidate := range candidates {
			if r.fs.Exists(candidate) {
				return candidate, nil
			}
		}

		return "", r.record(importPath, fromURI, vfs.ErrNotFound)

	default:
		return "", r.record(importPath, fromURI, ErrUnsupportedImport)
	}
}

// Exports parses the module at uri and returns its exported symbols,
// memoised per URI.
func (r *Resolver) Exports(uri string) (map[string]ExportedSymbol, error) {
	r.mu.Lock()

	if cached, ok := r.exports[uri]; ok {
		r.mu.Unlock()

		return cached, nil
	}

	r.mu.Unlock()

	data, err := r.fs.ReadFile(uri)
	if err != nil {
		return nil, r.record(uri, "", err)
	}

	prog, err := kcl.Parse(string(data))
	if err != nil {
		return nil, r.record(uri, "", err)
	}

	symbols := extractExports(prog)

	r.mu.Lock()
	r.exports[uri] = symbols
	r.mu.Unlock()

	return symbols, nil
}

// Errors returns the accumulated resolution errors.
func (r *Resolver) Errors() []*ResolutionError {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*ResolutionError(nil), r.errs...)
}

// ClearCache drops memoised exports and accumulated errors.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.exports = make(map[string]map[string]ExportedSymbol)
	r.errs = nil
	r.mu.Unlock()
}

func (r *Resolver) record(path, from string, err error) *ResolutionError {
	resErr := &ResolutionError{Path: path, From: from, Err: err}

	r.mu.Lock()
	r.errs = append(r.errs, resErr)
	r.mu.Unlock()

	return resErr
}

// extractExports collects every export-wrapped fn and binding.
func extractExports(prog *kcl.Program) map[string]ExportedSymbol {
	symbols := make(map[string]ExportedSymbol)

	for _, stmt := range prog.Statements {
		export, ok := stmt.(*kcl.ExportStmt)
		if !ok {
			continue
		}

		switch inner := export.Inner.(type) {
		case *kcl.FnDefStmt:
			symbols[inner.Name] = ExportedSymbol{Name: inner.Name, Kind: "function", Span: inner.Span()}
		case *kcl.LetStmt:
			symbols[inner.Name] = ExportedSymbol{Name: inner.Name, Kind: "variable", Span: inner.Span()}
		case *kcl.AssignStmt:
			symbols[inner.Name] = ExportedSymbol{Name: inner.Name, Kind: "variable", Span: inner.Span()}
		}
	}

	return symbols
}
