package ingestion_engine

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens builds a fragment that approxTokens counts as exactly n tokens.
func tokens(n int) string {
	return strings.Repeat("x", n*4)
}

func collectChunks(t *testing.T, frags []string, target, overlap int) []chunk {
	t.Helper()

	in := make(chan string, len(frags))
	for _, f := range frags {
		in <- f
	}
	close(in)

	g, ctx := errgroup.WithContext(context.Background())
	ing := &DocumentIngestor{}
	out := ing.streamChunk(ctx, g, in, target, overlap)

	var got []chunk
	for ch := range out {
		got = append(got, ch)
	}
	require.NoError(t, g.Wait())
	return got
}

func TestStreamChunkGroupsToTarget(t *testing.T) {
	got := collectChunks(t, []string{tokens(5), tokens(5), tokens(2)}, 10, 0)

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Pos)
	assert.Equal(t, 10, got[0].TokenCnt)
	assert.Equal(t, tokens(5)+"\n"+tokens(5), got[0].Text)

	// The short tail still comes out as its own chunk.
	assert.Equal(t, 1, got[1].Pos)
	assert.Equal(t, 2, got[1].TokenCnt)
}

func TestStreamChunkOverlapSeedsNextChunk(t *testing.T) {
	a, b, c := "alpha "+tokens(3), "beta "+tokens(3), "gamma "+tokens(3)
	got := collectChunks(t, []string{a, b, c}, 8, 2)

	require.Len(t, got, 2)
	assert.Equal(t, a+"\n"+b, got[0].Text)

	// Chunk 1 starts with the overlap carried from chunk 0's tail.
	assert.True(t, strings.HasPrefix(got[1].Text, b), "chunk: %q", got[1].Text)
	assert.Contains(t, got[1].Text, c)
}

func TestStreamChunkDropsPureOverlapTail(t *testing.T) {
	// The last flush leaves only overlap in the buffer. That residue must
	// not be emitted again as a duplicate final chunk.
	got := collectChunks(t, []string{tokens(4), tokens(4)}, 8, 2)

	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].TokenCnt)
}

func TestStreamChunkEmptyInput(t *testing.T) {
	got := collectChunks(t, nil, 10, 2)
	assert.Empty(t, got)
}

func TestStreamChunkPositionsIncrement(t *testing.T) {
	frags := make([]string, 10)
	for i := range frags {
		frags[i] = tokens(5)
	}
	got := collectChunks(t, frags, 5, 0)

	require.Len(t, got, 10)
	for i, ch := range got {
		assert.Equal(t, i, ch.Pos)
	}
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
	assert.Equal(t, 1, approxTokens("a"))
	assert.Equal(t, 1, approxTokens("abcd"))
	assert.Equal(t, 2, approxTokens("abcde"))
	// Rune-based, not byte-based.
	assert.Equal(t, 1, approxTokens("日本語"))
}

func TestParseS3URL(t *testing.T) {
	bucket, key := parseS3URL("https://my-bucket.s3.us-east-2.amazonaws.com/doc-1/report.pdf")
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "doc-1/report.pdf", key)

	bucket, key = parseS3URL("https://b.s3.amazonaws.com/")
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "", key)
}
