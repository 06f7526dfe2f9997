package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/ZaguanLabs/polyglot"
)

type job struct {
	index int
	path  string
}

// Run processes paths with a pool of cfg.Workers workers. Once ctx is done no
// further documents are dispatched; documents already being processed finish
// or observe the cancellation themselves. Results keep the order of paths.
func (p *Pipeline) Run(ctx context.Context, paths []string) polyglot.BatchSummary {
	start := time.Now()
	results := make([]polyglot.PipelineResult, len(paths))
	dispatched := make([]bool, len(paths))

	workers := p.cfg.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = p.ProcessDocument(ctx, j.path)
			}
		}()
	}

	p.logger.Info().Int("documents", len(paths)).Int("workers", workers).Msg("batch started")

dispatch:
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: i, path: path}:
			dispatched[i] = true
		}
	}
	close(jobs)
	wg.Wait()

	summary := polyglot.BatchSummary{Results: results, Total: len(paths)}
	for i := range results {
		if !dispatched[i] {
			results[i] = polyglot.PipelineResult{
				Path:   paths[i],
				Format: polyglot.FormatForPath(paths[i]),
				Error:  polyglot.ErrCancelled.Error(),
			}
		}
		if results[i].Success {
			summary.Processed++
		} else {
			summary.Failed++
		}
		summary.Fragments += results[i].Fragments
	}
	summary.Duration = time.Since(start)

	p.logger.Info().
		Int("total", summary.Total).
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Int("fragments", summary.Fragments).
		Float64("success_rate", summary.SuccessRate()).
		Dur("duration", summary.Duration).
		Msg("batch finished")

	return summary
}
