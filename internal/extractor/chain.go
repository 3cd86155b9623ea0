package extractor

import (
	"context"
	"fmt"
	"log"

	"cargoscan/internal/port"
)

// Chain tries extractors in order until one succeeds. It implements
// port.FieldExtractor.
type Chain struct {
	extractors []port.FieldExtractor
	names      []string
}

// NewChain creates a Chain from an ordered list of extractors and their
// names.
func NewChain(extractors []port.FieldExtractor, names []string) *Chain {
	return &Chain{extractors: extractors, names: names}
}

func (c *Chain) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	var lastErr error
	for i, e := range c.extractors {
		out, err := e.Extract(ctx, input)
		if err == nil {
			return out, nil
		}
		log.Printf("extractor.Chain: %s failed: %v", c.names[i], err)
		lastErr = err
	}
	// %w keeps the typed taxonomy of the last failure intact for
	// errors.Is dispatch upstream.
	return nil, fmt.Errorf("all extraction providers failed: %w", lastErr)
}
