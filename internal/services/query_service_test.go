package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niknshinde/Traditional-Rag/internal/models"
)

type stubSearcher struct {
	stubDB
	chunks []models.DocumentChunk
	err    error
	limit  int
}

func (s *stubSearcher) SearchChunks(ctx context.Context, vec []float32, limit int) ([]models.DocumentChunk, error) {
	s.limit = limit
	return s.chunks, s.err
}

type stubEmbedder struct {
	vecs [][]float32
	err  error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.vecs != nil {
		return s.vecs, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type stubLLM struct {
	system string
	user   string
	answer string
	err    error
}

func (s *stubLLM) Generate(ctx context.Context, system, user string) (string, error) {
	s.system, s.user = system, user
	return s.answer, s.err
}

func TestAnswerGroundsPromptInRetrievedChunks(t *testing.T) {
	db := &stubSearcher{chunks: []models.DocumentChunk{
		{Source: "report.pdf", Text: "Revenue grew 12% in Q3."},
		{Source: "notes.txt", Text: "Q4 outlook is flat."},
	}}
	llm := &stubLLM{answer: "Revenue grew 12%."}
	svc := NewQueryService(db, &stubEmbedder{}, llm)

	answer, err := svc.Answer(context.Background(), "How did revenue do?")
	require.NoError(t, err)
	assert.Equal(t, "Revenue grew 12%.", answer)
	assert.Equal(t, topK, db.limit)

	assert.Contains(t, llm.user, "[Source: report.pdf]\nRevenue grew 12% in Q3.")
	assert.Contains(t, llm.user, "[Source: notes.txt]\nQ4 outlook is flat.")
	assert.Contains(t, llm.user, "QUESTION:\nHow did revenue do?")
	assert.Contains(t, llm.system, "helpful assistant")
}

func TestAnswerWithoutContext(t *testing.T) {
	llm := &stubLLM{}
	svc := NewQueryService(&stubSearcher{}, &stubEmbedder{}, llm)

	answer, err := svc.Answer(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, noContextAnswer, answer)
	// The model is never consulted when retrieval is empty.
	assert.Empty(t, llm.user)
}

func TestAnswerEmbedderReturnsNoVector(t *testing.T) {
	// A nil error with zero vectors must produce a clean message, not a
	// wrapped nil.
	svc := NewQueryService(&stubSearcher{}, &stubEmbedder{vecs: [][]float32{}}, &stubLLM{})

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, "embedder returned no vector for the question", err.Error())
	assert.NotContains(t, err.Error(), "%!w")
}

func TestAnswerEmbedFailure(t *testing.T) {
	svc := NewQueryService(&stubSearcher{}, &stubEmbedder{err: errors.New("quota exceeded")}, &stubLLM{})

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed question")
}

func TestAnswerSearchFailure(t *testing.T) {
	db := &stubSearcher{err: errors.New("connection reset")}
	svc := NewQueryService(db, &stubEmbedder{}, &stubLLM{})

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search chunks")
}

func TestBuildPromptSeparatesBlocks(t *testing.T) {
	prompt := buildPrompt("q?", []models.DocumentChunk{
		{Source: "a", Text: "one"},
		{Source: "b", Text: "two"},
	})

	assert.Equal(t, 1, strings.Count(prompt, "\n\n---\n\n"))
	assert.True(t, strings.HasPrefix(prompt, "CONTEXT:\n"))
	assert.True(t, strings.HasSuffix(prompt, "ANSWER:"))
	assert.Contains(t, prompt, "INSTRUCTIONS:")
}
