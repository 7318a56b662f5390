package miditrig

import (
	"fmt"
	"os"
)

// ErrorHandler receives the engine's recoverable failures: skipped spawns,
// unreadable sources, unparseable parameters. Nothing routed here is fatal;
// each failure degrades to "this one trigger did not produce sound".
type ErrorHandler interface {
	HandleError(error)
}

// DefaultErrorHandler writes errors to stderr.
type DefaultErrorHandler struct{}

// HandleError implements ErrorHandler.
func (h *DefaultErrorHandler) HandleError(err error) {
	fmt.Fprintf(os.Stderr, "miditrig: %v\n", err)
}

// LoggingErrorHandler forwards errors to a logger function before passing
// them to an underlying handler. Either part may be nil.
type LoggingErrorHandler struct {
	underlying ErrorHandler
	logger     func(error)
}

// NewLoggingErrorHandler creates a new logging error handler.
func NewLoggingErrorHandler(underlying ErrorHandler, logger func(error)) *LoggingErrorHandler {
	return &LoggingErrorHandler{
		underlying: underlying,
		logger:     logger,
	}
}

// HandleError implements ErrorHandler.
func (h *LoggingErrorHandler) HandleError(err error) {
	if h.logger != nil {
		h.logger(err)
	}
	if h.underlying != nil {
		h.underlying.HandleError(err)
	}
}

// PanicErrorHandler panics on any error (useful for development and tests
// that must not swallow failures).
type PanicErrorHandler struct{}

// HandleError implements ErrorHandler.
func (h *PanicErrorHandler) HandleError(err error) {
	panic(fmt.Sprintf("miditrig: %v", err))
}
