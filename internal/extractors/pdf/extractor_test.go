package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensions(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".pdf"}, e.Extensions())
	assert.Equal(t, "pdf", e.Format())
}

func TestExtract_CorruptData(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "broken.pdf", []byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestExtract_TruncatedHeader(t *testing.T) {
	e := New()

	// A bare header with no xref table must fail, not panic.
	_, err := e.Extract(context.Background(), "truncated.pdf", []byte("%PDF-1.7\n"))
	assert.Error(t, err)
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "annual report", titleFromPath("docs/annual_report.pdf"))
}
