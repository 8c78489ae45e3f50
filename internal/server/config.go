package server

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/agentstation/attendmerge/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Host string `validate:"required"`
	Port int    `validate:"min=0,max=65535"`

	// PathPrefix is prepended to every API route.
	PathPrefix string `validate:"omitempty,startswith=/"`

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// APIKey enables authentication when non-empty.
	APIKey     string
	AuthHeader string

	// RateLimit is requests per minute per IP (0 to disable).
	RateLimit int `validate:"min=0"`

	// MaxUploadMB caps the combined size of one request's uploads.
	MaxUploadMB int `validate:"min=1,max=1024"`

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            8080,
		PathPrefix:      "/api/v1",
		AuthHeader:      "X-API-Key",
		RateLimit:       60,
		MaxUploadMB:     constants.MaxUploadMB,
		ReadTimeout:     constants.ReadTimeout,
		WriteTimeout:    constants.WriteTimeout,
		IdleTimeout:     constants.IdleTimeout,
		ShutdownTimeout: constants.ShutdownTimeout,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// String describes the config for logs.
func (c Config) String() string {
	return fmt.Sprintf("addr=%s prefix=%s max_upload_mb=%d", c.Addr(), c.PathPrefix, c.MaxUploadMB)
}
