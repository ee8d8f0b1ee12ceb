package handler

import (
	"io"
	"log/slog"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithPoweredBy overrides the powered_by value reported in every response.
// When not set, the POWERED_BY environment variable is used.
func WithPoweredBy(poweredBy string) Option {
	return func(h *Handler) {
		h.poweredBy = &poweredBy
	}
}

// WithOutput sets the writer receiving the per-invocation EVENT line. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Handler) {
		h.output = w
	}
}
