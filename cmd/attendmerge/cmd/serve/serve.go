// Package serve provides the serve command.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/server"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the merge over HTTP",
		Long: `Serve starts an HTTP server exposing the merge as an upload endpoint.

Endpoints:
  POST /api/v1/merge     multipart fields "presence" and "ledger"; returns the
                         merged workbook (X-Appended-Rows header), or the JSON
                         result with ?dry_run=true
  POST /api/v1/inspect   multipart field "file", ?source=presence|ledger
  GET  /health           liveness probe

Every request is processed on its own; nothing is cached between requests.`,
		Example: `  attendmerge serve
  attendmerge serve --host 0.0.0.0 --port 9000 --max-upload-mb 50
  ATTENDMERGE_API_KEY=s3cret attendmerge serve --cors-origins https://hr.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, app.ServerSettings())
			if err != nil {
				return err
			}
			srv, err := server.New(app, cfg)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	settings := app.ServerSettings()
	defaults := server.DefaultConfig()
	cmd.Flags().String("host", settings.Host, "bind address")
	cmd.Flags().IntP("port", "p", settings.Port, "listen port")
	cmd.Flags().Int("max-upload-mb", settings.MaxUploadMB, "upload limit per request in MB")
	cmd.Flags().Int("rate-limit", settings.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Bool("cors", false, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", settings.CORSOrigins, "allowed CORS origins (comma-separated)")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")

	return cmd
}

// configFromFlags builds the server config from the configured settings,
// read at run time so --config applies, then the flags set on the command line.
// The API key only comes from configuration so it never shows up in process listings.
func configFromFlags(cmd *cobra.Command, settings application.ServerSettings) (server.Config, error) {
	cfg := server.DefaultConfig()
	cfg.Host = settings.Host
	cfg.Port = settings.Port
	cfg.MaxUploadMB = settings.MaxUploadMB
	cfg.RateLimit = settings.RateLimit
	cfg.APIKey = settings.APIKey
	cfg.CORSOrigins = settings.CORSOrigins

	var err error
	flags := cmd.Flags()
	changed := flags.Changed
	if changed("host") {
		if cfg.Host, err = flags.GetString("host"); err != nil {
			return cfg, err
		}
	}
	if changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return cfg, err
		}
	}
	if changed("max-upload-mb") {
		if cfg.MaxUploadMB, err = flags.GetInt("max-upload-mb"); err != nil {
			return cfg, err
		}
	}
	if changed("rate-limit") {
		if cfg.RateLimit, err = flags.GetInt("rate-limit"); err != nil {
			return cfg, err
		}
	}
	if changed("cors-origins") {
		if cfg.CORSOrigins, err = flags.GetStringSlice("cors-origins"); err != nil {
			return cfg, err
		}
	}
	if cfg.CORSEnabled, err = flags.GetBool("cors"); err != nil {
		return cfg, err
	}
	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}
	if cfg.PathPrefix, err = flags.GetString("prefix"); err != nil {
		return cfg, err
	}
	if cfg.ReadTimeout, err = flags.GetDuration("read-timeout"); err != nil {
		return cfg, err
	}
	if cfg.WriteTimeout, err = flags.GetDuration("write-timeout"); err != nil {
		return cfg, err
	}
	return cfg, nil
}
