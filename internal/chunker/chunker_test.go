package chunker

import (
	"strings"
	"testing"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.Size() != DefaultSize {
			t.Errorf("expected size %d, got %d", DefaultSize, c.Size())
		}
		if c.Overlap() != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.Overlap())
		}
	})

	t.Run("custom size", func(t *testing.T) {
		c := New(WithSize(500))
		if c.Size() != 500 {
			t.Errorf("expected size 500, got %d", c.Size())
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		c := New(WithOverlap(100))
		if c.Overlap() != 100 {
			t.Errorf("expected overlap 100, got %d", c.Overlap())
		}
	})

	t.Run("overlap exceeds size", func(t *testing.T) {
		c := New(WithSize(100), WithOverlap(150))
		if c.Overlap() >= c.Size() {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithSize(0), WithOverlap(-1))
		if c.Size() != DefaultSize {
			t.Errorf("expected default size, got %d", c.Size())
		}
		if c.Overlap() != DefaultOverlap {
			t.Errorf("expected default overlap, got %d", c.Overlap())
		}
	})
}

func testDoc(content string) *domain.Document {
	return &domain.Document{
		ID:          "doc1.txt",
		Fingerprint: domain.FingerprintBytes([]byte(content)),
		Content:     content,
	}
}

func TestSplit_EmptyContent(t *testing.T) {
	c := New()
	chunks := c.Split(testDoc(""))
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestSplit_ShortContent(t *testing.T) {
	c := New(WithSize(100), WithOverlap(20))
	doc := testDoc("This is a small piece of content.")

	chunks := c.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk for short content, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Content != doc.Content {
		t.Error("expected single chunk to contain the full content")
	}
	if chunk.Position != 0 {
		t.Errorf("expected position 0, got %d", chunk.Position)
	}
	if chunk.Start != 0 || chunk.End != len(doc.Content) {
		t.Errorf("expected offsets [0, %d), got [%d, %d)", len(doc.Content), chunk.Start, chunk.End)
	}
	if chunk.DocumentID != doc.ID {
		t.Errorf("expected DocumentID %q, got %q", doc.ID, chunk.DocumentID)
	}
}

func TestSplit_ExactChunkSize(t *testing.T) {
	// Content exactly one chunk long must not emit a tail chunk.
	c := New(WithSize(100), WithOverlap(20))
	chunks := c.Split(testDoc(strings.Repeat("x", 100)))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplit_TrailingRemainder(t *testing.T) {
	// 250 chars, size 100, overlap 20: chunks at [0,100) [80,180) [160,250).
	c := New(WithSize(100), WithOverlap(20))
	chunks := c.Split(testDoc(strings.Repeat("x", 250)))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	last := chunks[2]
	if last.Start != 160 || last.End != 250 {
		t.Errorf("expected trailing chunk [160, 250), got [%d, %d)", last.Start, last.End)
	}
	if len(last.Content) != 90 {
		t.Errorf("expected trailing remainder of 90 chars, got %d", len(last.Content))
	}
}

func TestSplit_ChunkCountFormula(t *testing.T) {
	// count = ceil((len - overlap) / (size - overlap)) for len > size.
	tests := []struct {
		name    string
		length  int
		size    int
		overlap int
	}{
		{"short", 50, 100, 20},
		{"exact", 100, 100, 20},
		{"two chunks", 150, 100, 20},
		{"many chunks", 1000, 100, 20},
		{"no overlap", 1000, 100, 0},
		{"default config", 5000, DefaultSize, DefaultOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithSize(tt.size), WithOverlap(tt.overlap))
			chunks := c.Split(testDoc(strings.Repeat("a", tt.length)))

			step := tt.size - tt.overlap
			expected := 1
			if tt.length > tt.size {
				expected = (tt.length - tt.overlap + step - 1) / step
			}
			if len(chunks) != expected {
				t.Errorf("length %d: expected %d chunks, got %d", tt.length, expected, len(chunks))
			}
		})
	}
}

func TestSplit_ReconstructsContent(t *testing.T) {
	// Concatenating chunk spans minus their overlap reproduces the text.
	content := "The quick brown fox jumps over the lazy dog. " +
		strings.Repeat("Pack my box with five dozen liquor jugs. ", 20)
	c := New(WithSize(100), WithOverlap(30))
	chunks := c.Split(testDoc(content))

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			rebuilt.WriteString(chunk.Content)
			continue
		}
		rebuilt.WriteString(chunk.Content[c.Overlap():])
	}

	if rebuilt.String() != content {
		t.Error("concatenated chunk spans do not reconstruct the original content")
	}
}

func TestSplit_OffsetsAdvanceByStep(t *testing.T) {
	c := New(WithSize(100), WithOverlap(20))
	chunks := c.Split(testDoc(strings.Repeat("y", 500)))

	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
		if chunk.Start != i*80 {
			t.Errorf("chunk %d: expected start %d, got %d", i, i*80, chunk.Start)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	doc := testDoc(strings.Repeat("determinism matters. ", 50))
	c := New(WithSize(128), WithOverlap(32))

	first := c.Split(doc)
	second := c.Split(doc)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d: IDs differ (%s vs %s)", i, first[i].ID, second[i].ID)
		}
		if first[i].Content != second[i].Content {
			t.Errorf("chunk %d: contents differ", i)
		}
	}
}
