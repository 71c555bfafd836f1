package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	e := New()
	assert.Contains(t, e.Extensions(), ".txt")
	assert.Equal(t, "text", e.Format())
}

func TestExtract(t *testing.T) {
	e := New()

	result, err := e.Extract(context.Background(), "notes/sky_facts.txt", []byte("The sky is blue."))
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue.", result.Text)
	assert.Equal(t, "sky facts", result.Title)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "binary.txt", []byte{0xff, 0xfe, 0x00, 0x80})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"doc1.txt", "doc1"},
		{"my_notes.txt", "my notes"},
		{"project-plan.txt", "project plan"},
		{"nested/dir/report.txt", "report"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, titleFromPath(tt.path))
		})
	}
}
