package ingestion_engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"golang.org/x/sync/errgroup"

	"github.com/niknshinde/Traditional-Rag/internal/core"
)

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv.
type DocconvExtractor struct {
	useReadability bool
}

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

// ExtractText converts the document stream and emits its non-empty lines as fragments.
func (e *DocconvExtractor) ExtractText(ctx context.Context, g *errgroup.Group, r io.Reader, contentType string) <-chan string {
	out := make(chan string, 32)

	g.Go(func() error {
		defer close(out)

		res, err := docconv.Convert(r, contentType, e.useReadability)
		if err != nil {
			return fmt.Errorf("docconv %s: %w", contentType, err)
		}

		text := res.Body
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no text extracted from %s document", contentType)
		}

		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return out
}
