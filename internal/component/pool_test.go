// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kkx/mcl/internal/fetch"
)

func TestRunBoundedRespectsLimit(t *testing.T) {
	t.Parallel()

	const limit = 3
	var inFlight, peak atomic.Int32

	tasks := make([]task, 20)
	for i := range tasks {
		tasks[i] = task{
			name: fmt.Sprintf("t%d", i),
			run: func(context.Context) (fetch.Result, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return fetch.Downloaded, nil
			},
		}
	}

	results := runBounded(context.Background(), PhaseAssets, limit, tasks)
	if len(results) != len(tasks) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(tasks))
	}
	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrency = %d, want <= %d", p, limit)
	}
}

func TestRunBoundedCollectsFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var ran atomic.Int32
	tasks := []task{
		{name: "ok", run: func(context.Context) (fetch.Result, error) { ran.Add(1); return fetch.Skipped, nil }},
		{name: "bad", run: func(context.Context) (fetch.Result, error) { ran.Add(1); return 0, boom }},
		{name: "ok2", run: func(context.Context) (fetch.Result, error) { ran.Add(1); return fetch.Downloaded, nil }},
	}

	results := runBounded(context.Background(), PhaseLibraries, 1, tasks)
	if ran.Load() != 3 {
		t.Errorf("tasks run = %d, want 3; a failure must not stop siblings", ran.Load())
	}
	for i, want := range []string{"ok", "bad", "ok2"} {
		if results[i].Name != want || results[i].Phase != PhaseLibraries {
			t.Errorf("results[%d] = %+v, want task %q", i, results[i], want)
		}
	}
	failed := Failures(results)
	if len(failed) != 1 || !errors.Is(failed[0].Err, boom) {
		t.Errorf("Failures() = %+v, want the single boom failure", failed)
	}
}
