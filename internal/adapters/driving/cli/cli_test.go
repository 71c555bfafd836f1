package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// mockIndexer returns a fixed report.
type mockIndexer struct {
	report *domain.IndexReport
	status *domain.IndexStatus
	err    error
}

func (m *mockIndexer) Reindex(context.Context) (*domain.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexer) Status(context.Context) (*domain.IndexStatus, error) {
	return m.status, nil
}

// mockQuery returns a fixed answer.
type mockQuery struct {
	answer *domain.Answer
	err    error
}

func (m *mockQuery) Ask(context.Context, string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockStore implements only the Counts call the status command uses.
type mockStore struct {
	docs, chunks int
}

func (m *mockStore) Upsert(context.Context, domain.Document, []domain.Chunk) error { return nil }
func (m *mockStore) Has(context.Context, string, string) (bool, error)             { return false, nil }
func (m *mockStore) Search(context.Context, []float32, int) (*domain.RetrievalResult, error) {
	return &domain.RetrievalResult{}, nil
}
func (m *mockStore) Delete(context.Context, string) error { return nil }
func (m *mockStore) ListDocuments(context.Context) ([]domain.Document, error) {
	return nil, nil
}
func (m *mockStore) Counts(context.Context) (int, int, error) { return m.docs, m.chunks, nil }
func (m *mockStore) Close() error                             { return nil }

func setupTestServices() func() {
	oldIndex, oldQuery, oldStore, oldCorpus := indexService, queryService, vectorStore, corpusDir

	now := time.Now()
	indexService = &mockIndexer{
		report: &domain.IndexReport{
			RunID:      "test-run",
			StartedAt:  now,
			FinishedAt: now.Add(time.Second),
			Results: []domain.DocumentResult{
				{DocumentID: "a.txt", Outcome: domain.OutcomeIndexed},
				{DocumentID: "b.txt", Outcome: domain.OutcomeSkipped},
				{DocumentID: "bad.pdf", Outcome: domain.OutcomeFailed, Err: "malformed pdf"},
			},
		},
		status: &domain.IndexStatus{Running: false, DocumentsProcessed: 3, ErrorCount: 1},
	}
	queryService = &mockQuery{
		answer: &domain.Answer{
			Text:     "The sky is blue because of Rayleigh scattering.",
			Sources:  []string{"physics.md"},
			Grounded: true,
		},
	}
	vectorStore = &mockStore{docs: 2, chunks: 9}
	corpusDir = "/tmp/corpus"

	return func() {
		indexService, queryService, vectorStore, corpusDir = oldIndex, oldQuery, oldStore, oldCorpus
		rootCmd.SetArgs(nil)
		// cobra copies the root context onto a subcommand only when the
		// subcommand's context is nil, so clear contexts left behind by
		// earlier Execute calls to keep tests isolated.
		rootCmd.SetContext(nil)
		for _, c := range rootCmd.Commands() {
			c.SetContext(nil)
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "why is the sky blue?")
	require.NoError(t, err)

	assert.Contains(t, out, "Rayleigh scattering")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "physics.md")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { askJSON = false }()

	out, err := execute(t, "ask", "--json", "why?")
	require.NoError(t, err)

	assert.Contains(t, out, `"Text"`)
	assert.Contains(t, out, `"Sources"`)
	assert.Contains(t, out, `"Grounded"`)
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	queryService = nil

	_, err := execute(t, "ask", "anything")
	assert.Error(t, err)
}

func TestIndexCmd_PrintsSummaryAndFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "index")
	require.NoError(t, err)

	assert.Contains(t, out, "1 indexed, 1 skipped, 0 deleted, 1 failed")
	assert.Contains(t, out, "bad.pdf")
	assert.Contains(t, out, "malformed pdf")
}

func TestStatusCmd_ShowsCounts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "Documents: 2")
	assert.Contains(t, out, "Chunks:    9")
	assert.Contains(t, out, "idle")
}

// ctxEchoQuery surfaces the caller's context state.
type ctxEchoQuery struct{}

func (ctxEchoQuery) Ask(ctx context.Context, _ string) (*domain.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.Answer{Text: "ok"}, nil
}

func TestAskCmd_CancelledContextReachesService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	queryService = ctxEchoQuery{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})

	err := rootCmd.ExecuteContext(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ragdoll version")
}
