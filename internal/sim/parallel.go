package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch runs independent simulators side by side, one goroutine each. The
// worlds share nothing, so every engine stays single-threaded.
type Batch struct {
	names []string
	sims  []*Simulator
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Add(name string, s *Simulator) {
	b.names = append(b.names, name)
	b.sims = append(b.sims, s)
}

func (b *Batch) Len() int { return len(b.sims) }

// Run advances every simulator with the same run configuration. The first
// failure cancels the others.
func (b *Batch) Run(ctx context.Context, cfg RunConfig) (map[string]*Result, error) {
	results := make([]*Result, len(b.sims))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range b.sims {
		g.Go(func() error {
			r, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", b.names[i], err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(results))
	for i, r := range results {
		out[b.names[i]] = r
	}
	return out, nil
}
