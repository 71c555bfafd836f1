package driven

import "context"

// Extractor turns raw file bytes into plain text. Each extractor
// handles specific file extensions (e.g. ".pdf", ".md").
type Extractor interface {
	// Format returns the format tag stored on documents (e.g. "pdf").
	Format() string

	// Extensions returns the lowercase file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract produces the text content and a title for the file.
	// Corrupt or undecodable input returns an error; the caller isolates
	// the failure to that file.
	Extract(ctx context.Context, path string, data []byte) (*Extraction, error)
}

// Extraction is the output of text extraction.
type Extraction struct {
	// Title is a human-readable title derived from content or filename.
	Title string

	// Text is the full extracted plain text.
	Text string
}

// ExtractorRegistry selects an extractor for a file path.
// Selection is a static lookup by file extension.
type ExtractorRegistry interface {
	// ForPath returns the extractor for the path's extension, or false
	// when the extension is unsupported.
	ForPath(path string) (Extractor, bool)

	// Extensions returns all supported extensions.
	Extensions() []string
}
