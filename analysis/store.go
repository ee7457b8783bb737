package analysis

import (
	"sync"
)

// Document is one store entry: the text and everything derived from it.
type Document struct {
	URI     string
	Version int32
	Hash    uint64
	*AnalyzedFile
}

// Store caches analysis results per URI, keyed by a content hash so that
// updates with identical text reuse the cached result without re-parsing.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Document)}
}

// Open parses text and caches the result under uri.
func (s *Store) Open(uri, text string, version int32) *Document {
	doc := &Document{
		URI:          uri,
		Version:      version,
		Hash:         contentHash(text),
		AnalyzedFile: Analyze(text),
	}

	s.mu.Lock()
	s.entries[uri] = doc
	s.mu.Unlock()

	return doc
}

// Update replaces the entry for uri. When the content hash matches the
// cached entry the existing analysis is returned untouched (only the
// version advances).
func (s *Store) Update(uri, text string, version int32) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := contentHash(text)

	if prev, ok := s.entries[uri]; ok && prev.Hash == hash {
		prev.Version = version

		return prev
	}

	doc := &Document{
		URI:          uri,
		Version:      version,
		Hash:         hash,
		AnalyzedFile: Analyze(text),
	}

	s.entries[uri] = doc

	return doc
}

// Close evicts the entry for uri.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	delete(s.entries, uri)
	s.mu.Unlock()
}

// Get returns the cached entry for uri.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.entries[uri]

	return doc, ok
}

// contentHash is a cheap rolling hash over the text's code units.
func contentHash(text string) uint64 {
	var h uint64

	for i := 0; i < len(text); i++ {
		h = h*31 + uint64(text[i])
	}

	return h
}
