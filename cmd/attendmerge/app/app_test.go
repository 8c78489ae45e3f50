package app

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge/cmd/application"
)

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

func TestApp_WithOptions(t *testing.T) {
	logger := zerolog.Nop()
	config := &Config{
		KeyPolicy:         "name",
		DepartmentPolicy:  "union",
		PresenceHeaderRow: 1,
		IDWidth:           5,
		Host:              "0.0.0.0",
		Port:              9000,
		MaxUploadMB:       10,
		CORSOrigins:       []string{"https://hr.example.com"},
		Format:            "yaml",
	}

	app, err := New("dev", "", "", "", WithConfig(config), WithLogger(&logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if app.Logger() != &logger {
		t.Error("WithLogger not applied")
	}
	if app.OutputFormat() != "yaml" {
		t.Errorf("OutputFormat() = %s, want yaml", app.OutputFormat())
	}

	// logger, id width, drop flag, two header rows and both policies
	if n := len(app.MergeOptions()); n != 7 {
		t.Errorf("MergeOptions() returned %d options, want 7", n)
	}

	settings := app.ServerSettings()
	want := application.ServerSettings{
		Host:        "0.0.0.0",
		Port:        9000,
		MaxUploadMB: 10,
		CORSOrigins: []string{"https://hr.example.com"},
	}
	if settings.Host != want.Host || settings.Port != want.Port || settings.MaxUploadMB != want.MaxUploadMB {
		t.Errorf("ServerSettings() = %+v, want %+v", settings, want)
	}
	settings.CORSOrigins[0] = "changed"
	if config.CORSOrigins[0] != "https://hr.example.com" {
		t.Error("ServerSettings() must copy CORSOrigins")
	}
}

func TestApp_WithInvalidConfig(t *testing.T) {
	_, err := New("dev", "", "", "", WithConfig(&Config{Host: "localhost", MaxUploadMB: 1, IDWidth: 5, KeyPolicy: "email"}))
	if err == nil {
		t.Fatal("expected validation error for unknown key policy")
	}
}

// TestApp_ConfigFlag verifies --config reloads configuration while keeping global flags.
func TestApp_ConfigFlag(t *testing.T) {
	path := writeConfig(t, "key_policy: name\nport: 9090\n")

	app, err := New("1.2.3", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "-o", "json", "version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if app.Config().KeyPolicy != "name" {
		t.Errorf("KeyPolicy = %q, want name", app.Config().KeyPolicy)
	}
	if app.ServerSettings().Port != 9090 {
		t.Errorf("Port = %d, want 9090", app.ServerSettings().Port)
	}
	if app.Config().Format != "json" {
		t.Errorf("Format = %q, want json kept across reload", app.Config().Format)
	}

	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("version output is not JSON: %v\n%s", err, out.String())
	}
	if info["version"] != "1.2.3" || info["commit"] != "abc123" {
		t.Errorf("version info = %v", info)
	}
}

func TestApp_Commands(t *testing.T) {
	app, err := New("dev", "", "", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	root := app.createRootCommand()

	for _, name := range []string{"merge", "inspect", "serve", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
