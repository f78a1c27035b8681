// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"

	"github.com/kkx/mcl/internal/fetch"

	"golang.org/x/sync/errgroup"
)

// task is one unit of a bounded fetch phase.
type task struct {
	name string
	run  func(ctx context.Context) (fetch.Result, error)
}

// runBounded runs tasks with at most limit in flight and returns one result
// per task, in task order. A failed task neither cancels its siblings nor
// fails the phase.
func runBounded(ctx context.Context, phase Phase, limit int, tasks []task) []TaskResult {
	results := make([]TaskResult, len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, t := range tasks {
		g.Go(func() error {
			res, err := t.run(ctx)
			results[i] = TaskResult{Phase: phase, Name: t.name, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors

	return results
}
