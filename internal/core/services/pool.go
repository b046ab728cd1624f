package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
)

// forEach runs work for every index in [0, n) on at most workers goroutines.
// Once ctx is done no further work starts and skipped is called for each
// remaining index instead. Both callbacks write only their own slot.
// progress, when set, is called once per index under a lock.
func forEach(
	ctx context.Context,
	n, workers int,
	work func(i int),
	skipped func(i int, err error),
	progress driving.ProgressFunc,
) {
	if workers < domain.MinWorkers {
		workers = domain.MinWorkers
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(done, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			skipped(i, err)
			report()
			continue
		}
		g.Go(func() error {
			defer report()
			// A slot may free up only after cancellation.
			if err := ctx.Err(); err != nil {
				skipped(i, err)
				return nil
			}
			work(i)
			return nil
		})
	}
	_ = g.Wait()
}
