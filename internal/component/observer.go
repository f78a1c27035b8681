// SPDX-License-Identifier: MPL-2.0

package component

import (
	"github.com/kkx/mcl/internal/fetch"

	"github.com/charmbracelet/log"
)

const (
	// PhaseLibraries is the bounded library download phase.
	PhaseLibraries Phase = "libraries"
	// PhaseAssets is the bounded asset object download phase.
	PhaseAssets Phase = "assets"
	// PhaseLogging is the client logging configuration download.
	PhaseLogging Phase = "logging"
)

type (
	// Phase names an install phase whose task failures are tolerated.
	Phase string

	// TaskResult is the outcome of one tolerated task.
	TaskResult struct {
		Phase  Phase
		Name   string
		Result fetch.Result
		Err    error
	}

	// Observer receives the results of tolerated tasks after each phase settles.
	// Results are delivered from the installing goroutine, in task order.
	Observer interface {
		PhaseDone(phase Phase, results []TaskResult)
	}

	// ObserverFunc adapts a function to the Observer interface.
	ObserverFunc func(phase Phase, results []TaskResult)

	logObserver struct {
		logger *log.Logger
	}
)

// Failed reports whether the task returned an error.
func (r TaskResult) Failed() bool { return r.Err != nil }

// PhaseDone calls f.
func (f ObserverFunc) PhaseDone(phase Phase, results []TaskResult) { f(phase, results) }

// LogObserver returns an Observer that logs each failure at warn level and a
// per-phase summary at info level.
func LogObserver(logger *log.Logger) Observer {
	return logObserver{logger: logger}
}

func (o logObserver) PhaseDone(phase Phase, results []TaskResult) {
	var downloaded, skipped, failed int
	for _, r := range results {
		switch {
		case r.Failed():
			failed++
			o.logger.Warn("task failed", "phase", phase, "task", r.Name, "err", r.Err)
		case r.Result == fetch.Downloaded:
			downloaded++
		default:
			skipped++
		}
	}
	o.logger.Info("phase done", "phase", phase, "downloaded", downloaded, "cached", skipped, "failed", failed)
}

// Failures returns the failed results.
func Failures(results []TaskResult) []TaskResult {
	var out []TaskResult
	for _, r := range results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}
