package serve

import (
	"testing"

	"github.com/agentstation/attendmerge/cmd/application"
)

func TestConfigFromFlags(t *testing.T) {
	settings := application.ServerSettings{
		Host:        "0.0.0.0",
		Port:        9000,
		MaxUploadMB: 20,
		APIKey:      "s3cret",
		RateLimit:   30,
	}
	app := &application.Mock{ServerSettingsFunc: func() application.ServerSettings { return settings }}

	cmd := NewCommand(app)
	if err := cmd.ParseFlags([]string{"--port", "9100", "--cors-origins", "https://a.example.com,https://b.example.com"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := configFromFlags(cmd, settings)
	if err != nil {
		t.Fatalf("configFromFlags() failed: %v", err)
	}
	if cfg.Host != "0.0.0.0" || cfg.MaxUploadMB != 20 || cfg.RateLimit != 30 {
		t.Errorf("configured settings not kept: %+v", cfg)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100 from the flag", cfg.Port)
	}
	if cfg.APIKey != "s3cret" {
		t.Error("API key not taken from settings")
	}
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORS = %v %v, want enabled with two origins", cfg.CORSEnabled, cfg.CORSOrigins)
	}
	if cfg.PathPrefix != "/api/v1" {
		t.Errorf("PathPrefix = %q, want /api/v1", cfg.PathPrefix)
	}
}

func TestConfigFromFlags_Defaults(t *testing.T) {
	settings := (&application.Mock{}).ServerSettings()
	cmd := NewCommand(&application.Mock{})
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := configFromFlags(cmd, settings)
	if err != nil {
		t.Fatalf("configFromFlags() failed: %v", err)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("Addr() = %s, want localhost:8080", cfg.Addr())
	}
	if cfg.CORSEnabled {
		t.Error("CORS should be off without --cors or origins")
	}
}
