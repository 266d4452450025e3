// Package worker defines worker contracts for asynchronous mentor indexing
// and roster updates.
package worker

import (
	"github.com/mentorverse/sensei/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithProcessedHook registers a callback invoked after each successfully
// processed registration. The pool uses it to track throughput.
func WithProcessedHook(hook func()) Option {
	return func(w *InMemoryWorker) {
		if hook != nil {
			w.onProcessed = hook
		}
	}
}
