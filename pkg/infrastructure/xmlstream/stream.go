// Package xmlstream turns XML documents into the tag events consumed by the
// field extractor.
package xmlstream

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
)

// invalidUTF8 is the syntax error message encoding/xml reports for text
// that does not decode
const invalidUTF8 = "invalid UTF-8"

// Stream is a repositories.TagStream over an XML document
type Stream struct {
	decoder    *xml.Decoder
	closer     io.Closer
	charsetErr error
	done       bool
}

// Verify interface compliance
var _ repositories.TagStream = (*Stream)(nil)

// New creates a stream reading from r. When r is an io.Closer it is closed
// by Close. Documents declaring a non UTF-8 encoding in their prolog are
// converted on the fly.
func New(r io.Reader) *Stream {
	s := &Stream{}
	if closer, ok := r.(io.Closer); ok {
		s.closer = closer
	}

	s.decoder = xml.NewDecoder(r)
	s.decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		reader, err := charset.NewReaderLabel(label, input)
		if err != nil {
			s.charsetErr = fmt.Errorf("%w: encoding %q: %v", repositories.ErrTextDecoding, label, err)
			return nil, s.charsetErr
		}
		return reader, nil
	}
	return s
}

// NewBytes creates a stream over an in-memory document
func NewBytes(content []byte) *Stream {
	return New(bytes.NewReader(content))
}

// Next returns the next tag event. Whitespace-only text, comments,
// processing instructions and directives are skipped.
func (s *Stream) Next() (entities.TagEvent, error) {
	if s.done {
		return entities.TagEvent{}, io.EOF
	}

	for {
		token, err := s.decoder.Token()
		if err != nil {
			s.done = true
			return entities.TagEvent{}, s.classify(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			return entities.Enter(t.Name.Local), nil
		case xml.EndElement:
			return entities.Exit(t.Name.Local), nil
		case xml.CharData:
			text := bytes.TrimSpace(t)
			if len(text) == 0 {
				continue
			}
			return entities.TagEvent{Kind: entities.TextContent, Text: bytes.Clone(text)}, nil
		}
	}
}

func (s *Stream) classify(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if s.charsetErr != nil {
		return s.charsetErr
	}

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Msg == invalidUTF8 {
		return fmt.Errorf("%w: line %d: %s", repositories.ErrTextDecoding, syntaxErr.Line, syntaxErr.Msg)
	}
	return err
}

// Close releases the underlying reader
func (s *Stream) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
