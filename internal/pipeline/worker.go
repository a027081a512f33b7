package pipeline

import (
	"context"
	"log"
	"sync"

	"soltab/internal/domain"
)

// Outcome pairs one input table with its processing result. Exactly one of
// Table and Err is set.
type Outcome struct {
	Raw   *domain.RawTable
	Table *domain.Table
	Err   error
}

// RunBatch processes tables over a fixed-size worker pool. Tables share no
// mutable state, so workers need no locking; outcome order is not
// guaranteed. A canceled context stops dispatching new tables; in-flight
// tables still complete, keeping the all-or-nothing per-table contract.
func (p *Processor) RunBatch(ctx context.Context, tables []*domain.RawTable, concurrency int) []Outcome {
	if concurrency < 1 {
		concurrency = 1
	}

	jobs := make(chan *domain.RawTable)
	results := make(chan Outcome, len(tables))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				t, err := p.Process(raw)
				results <- Outcome{Raw: raw, Table: t, Err: err}
			}
		}()
	}

	dispatched := 0
dispatch:
	for _, raw := range tables {
		select {
		case <-ctx.Done():
			log.Printf("pipeline: batch canceled after %d/%d tables dispatched", dispatched, len(tables))
			break dispatch
		case jobs <- raw:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	outcomes := make([]Outcome, 0, dispatched)
	for o := range results {
		outcomes = append(outcomes, o)
	}
	return outcomes
}
