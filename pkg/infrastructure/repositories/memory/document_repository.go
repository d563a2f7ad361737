package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/infrastructure/xmlstream"
)

// ErrDuplicateDocument is returned when a document name is added twice
var ErrDuplicateDocument = errors.New("duplicate document name")

// DocumentRepository provides in-memory shipping document storage
type DocumentRepository struct {
	names     []string
	documents map[string][]byte
	mutex     sync.RWMutex
}

// NewDocumentRepository creates a new in-memory document repository
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		names:     []string{},
		documents: make(map[string][]byte),
	}
}

// Verify interface compliance
var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

// AddDocument stores a document. A name can only be added once.
func (r *DocumentRepository) AddDocument(name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("document name cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.documents[name]; exists {
		return fmt.Errorf("document %q: %w", name, ErrDuplicateDocument)
	}
	r.names = append(r.names, name)
	r.documents[name] = content
	return nil
}

// Len returns the number of stored documents
func (r *DocumentRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.names)
}

// ListDocuments returns the document names in insertion order
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names, nil
}

// OpenDocument opens the named document as a tag stream
func (r *DocumentRepository) OpenDocument(ctx context.Context, name string) (repositories.TagStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	content, exists := r.documents[name]
	r.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("document %q: %w", name, repositories.ErrDocumentNotFound)
	}
	return xmlstream.NewBytes(content), nil
}
