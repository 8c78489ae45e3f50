package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/pkg/constants"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc         func() *zerolog.Logger
	OutputFormatFunc   func() string
	MergeOptionsFunc   func() []attendmerge.Option
	ServerSettingsFunc func() ServerSettings
	VersionFunc        func() string
	CommitFunc         func() string
	DateFunc           func() string
	BuiltByFunc        func() string
}

var _ Application = (*Mock)(nil)

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// MergeOptions returns merge options using the mock function or none.
func (m *Mock) MergeOptions() []attendmerge.Option {
	if m.MergeOptionsFunc != nil {
		return m.MergeOptionsFunc()
	}
	return nil
}

// ServerSettings returns server settings using the mock function or defaults.
func (m *Mock) ServerSettings() ServerSettings {
	if m.ServerSettingsFunc != nil {
		return m.ServerSettingsFunc()
	}
	return ServerSettings{
		Host:        "localhost",
		Port:        8080,
		MaxUploadMB: constants.MaxUploadMB,
	}
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
