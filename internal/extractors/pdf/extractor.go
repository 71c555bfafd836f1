// Package pdf extracts text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF files using the ledongthuc/pdf reader.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format tag.
func (e *Extractor) Format() string {
	return "pdf"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads the plain text of every page.
func (e *Extractor) Extract(_ context.Context, path string, data []byte) (*driven.Extraction, error) {
	text, err := extractText(data)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	return &driven.Extraction{
		Title: titleFromPath(path),
		Text:  text,
	}, nil
}

// extractText pulls the plain text stream out of the PDF bytes.
// The pdf library panics on some malformed inputs, so the panic is
// converted into an error to keep one bad file from aborting a scan.
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

// titleFromPath derives a human-readable title from a file path.
func titleFromPath(path string) string {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
