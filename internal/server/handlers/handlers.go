// Package handlers provides HTTP request handlers for the attendmerge API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge"
)

// maxMemory is how much of a multipart body is buffered in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	options   func() []attendmerge.Option
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance. options is called once per request
// so no option state is shared between requests.
func New(options func() []attendmerge.Option, logger *zerolog.Logger, startTime time.Time) *Handlers {
	if options == nil {
		options = func() []attendmerge.Option { return nil }
	}
	return &Handlers{
		options:   options,
		logger:    logger,
		startTime: startTime,
	}
}
