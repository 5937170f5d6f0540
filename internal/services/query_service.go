package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/niknshinde/Traditional-Rag/internal/core"
	"github.com/niknshinde/Traditional-Rag/internal/models"
)

const (
	// topK is how many chunks are retrieved as context for a question.
	topK = 5

	systemPrompt = "You are a helpful assistant that answers questions based on the provided context."

	// noContextAnswer is returned without calling the LLM when retrieval
	// comes back empty.
	noContextAnswer = "I couldn't find any relevant information to answer your question."
)

// QueryService answers a question over the ingested corpus:
// embed the question, retrieve the nearest chunks, generate a grounded answer.
type QueryService struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
}

func NewQueryService(db core.DbClient, emb core.EmbeddingProvider, llm core.LLMProvider) *QueryService {
	return &QueryService{db: db, embedder: emb, llm: llm}
}

// Answer runs retrieval and generation for one question.
func (s *QueryService) Answer(ctx context.Context, question string) (string, error) {
	vecs, err := s.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return "", errors.New("embedder returned no vector for the question")
	}

	chunks, err := s.db.SearchChunks(ctx, vecs[0], topK)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}
	if len(chunks) == 0 {
		return noContextAnswer, nil
	}

	answer, err := s.llm.Generate(ctx, systemPrompt, buildPrompt(question, chunks))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// buildPrompt assembles the grounded prompt: source-tagged context blocks,
// the question, and the answering constraints.
func buildPrompt(question string, chunks []models.DocumentChunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", ch.Source, ch.Text))
	}

	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	b.WriteString(strings.Join(blocks, "\n\n---\n\n"))
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Answer based ONLY on the context provided above.\n")
	b.WriteString("2. If the context doesn't contain enough information, say so.\n")
	b.WriteString("3. Be concise but thorough.\n")
	b.WriteString("4. Cite which source(s) you used when relevant.\n")
	b.WriteString("\nANSWER:")
	return b.String()
}
