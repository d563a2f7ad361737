package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/rateio/pkg/domain/entities"
)

// ErrDocumentNotFound is returned when a named document does not exist in a repository
var ErrDocumentNotFound = errors.New("document not found")

// TagStream yields the tag events of one document. Next returns io.EOF once
// the stream is exhausted.
type TagStream interface {
	Next() (entities.TagEvent, error)
	Close() error
}

// DocumentRepository provides access to the shipping documents of a run
type DocumentRepository interface {
	// ListDocuments returns the document names in processing order
	ListDocuments(ctx context.Context) ([]string, error)
	// OpenDocument opens the named document as a tag stream
	OpenDocument(ctx context.Context, name string) (TagStream, error)
}

// ErrTextDecoding marks a failure to decode document text. Unlike lexical
// errors it aborts the whole run.
var ErrTextDecoding = errors.New("text decoding failed")
