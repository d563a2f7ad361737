package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/infrastructure/xmlstream"
)

// DefaultPattern selects the shipping documents of a data directory
const DefaultPattern = "*.xml"

// DocumentRepository reads shipping documents from a directory
type DocumentRepository struct {
	root    string
	pattern string
}

// Verify interface compliance
var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a repository over the files of root that
// match pattern (case-insensitive). An empty pattern selects DefaultPattern.
func NewDocumentRepository(root, pattern string) (*DocumentRepository, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid document pattern %q: %w", pattern, err)
	}

	return &DocumentRepository{
		root:    root,
		pattern: strings.ToLower(pattern),
	}, nil
}

// Root returns the scanned directory
func (r *DocumentRepository) Root() string {
	return r.root
}

// ListDocuments returns the matching regular files of the directory in lexical order
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", r.root, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		// Pattern was validated by the constructor
		if ok, _ := filepath.Match(r.pattern, strings.ToLower(entry.Name())); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// OpenDocument opens the named file as a tag stream
func (r *DocumentRepository) OpenDocument(ctx context.Context, name string) (repositories.TagStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("document %q: %w", name, repositories.ErrDocumentNotFound)
	}

	file, err := os.Open(filepath.Join(r.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("document %q: %w", name, repositories.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", name, err)
	}

	return xmlstream.New(file), nil
}
