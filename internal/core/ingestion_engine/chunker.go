package ingestion_engine

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// chunk is the internal representation passed through the pipeline.
//
// Pos:      stable, zero-based position of the chunk inside the document.
// Text:     chunk content (built from one or more fragments).
// TokenCnt: approximate token count (used for batching and overlap math).
type chunk struct {
	Pos      int
	Text     string
	TokenCnt int
}

// streamChunk groups incoming fragments into token-bounded chunks with optional overlap.
//
// frags:          upstream fragments channel.
// targetTokens:   approximate tokens per chunk.
// overlapTokens:  tokens retained from the end of a chunk as the seed of the next.
func (i *DocumentIngestor) streamChunk(
	ctx context.Context,
	g *errgroup.Group,
	frags <-chan string,
	targetTokens int,
	overlapTokens int,
) <-chan chunk {
	out := make(chan chunk, 8)

	g.Go(func() error {
		defer close(out)

		var (
			buf    []string
			tokSum int
			pos    int
			fresh  bool // true once the buffer holds content not yet emitted
		)

		// flush emits the current buffer as a chunk and reseeds the buffer,
		// preserving roughly overlapTokens from the tail if configured.
		flush := func() error {
			if tokSum == 0 {
				return nil
			}
			ch := chunk{Pos: pos, Text: strings.Join(buf, "\n"), TokenCnt: tokSum}
			pos++

			select {
			case out <- ch:
			case <-ctx.Done():
				return ctx.Err()
			}

			if overlapTokens > 0 {
				keep := []string{}
				remain := overlapTokens
				for j := len(buf) - 1; j >= 0 && remain > 0; j-- {
					keep = append([]string{buf[j]}, keep...) // prepend to keep original order
					remain -= approxTokens(buf[j])
				}
				buf = keep

				tokSum = 0
				for _, s := range buf {
					tokSum += approxTokens(s)
				}
			} else {
				buf = buf[:0]
				tokSum = 0
			}
			fresh = false
			return nil
		}

		for frag := range frags {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			buf = append(buf, frag)
			tokSum += approxTokens(frag)
			fresh = true

			if tokSum >= targetTokens {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		// Emit the remaining tail. Skip it when it is pure overlap carried
		// over from the last emitted chunk.
		if fresh {
			return flush()
		}
		return nil
	})

	return out
}

// approxTokens is a cheap token estimator (~4 chars per token).
// TODO: swap in a real tokenizer to tighten chunk boundaries.
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
