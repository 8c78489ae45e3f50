package app

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/errors"
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

// envPrefix namespaces attendmerge environment variables: ATTENDMERGE_KEY_POLICY.
const envPrefix = "ATTENDMERGE"

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Merge policies
	KeyPolicy              string `validate:"omitempty,oneof=employee_id id employee-id name"`
	DepartmentPolicy       string `validate:"omitempty,oneof=ledger union"`
	DropInvalidLedgerDates bool
	PresenceHeaderRow      int `validate:"min=0,max=100"`
	LedgerHeaderRow        int `validate:"min=0,max=100"`
	IDWidth                int `validate:"min=1,max=20"`

	// Server
	Host        string `validate:"required"`
	Port        int    `validate:"min=0,max=65535"`
	MaxUploadMB int    `validate:"min=1,max=1024"`
	APIKey      string
	CORSOrigins []string
	RateLimit   int `validate:"min=0"`

	// Logging configuration
	LogFormat string
	LogOutput string
}

var validate = validator.New()

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (ATTENDMERGE_*, LOG_*)
// 3. .env files
// 4. Config file (~/.attendmerge.yaml or ./.attendmerge.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".attendmerge")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config file must exist; the search path may come up empty
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		KeyPolicy:              v.GetString("key_policy"),
		DepartmentPolicy:       v.GetString("department_policy"),
		DropInvalidLedgerDates: v.GetBool("drop_invalid_ledger_dates"),
		PresenceHeaderRow:      v.GetInt("presence_header_row"),
		LedgerHeaderRow:        v.GetInt("ledger_header_row"),
		IDWidth:                v.GetInt("id_width"),

		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		MaxUploadMB: v.GetInt("max_upload_mb"),
		APIKey:      v.GetString("api_key"),
		CORSOrigins: v.GetStringSlice("cors_origins"),
		RateLimit:   v.GetInt("rate_limit"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("key_policy", string(reconcile.KeyByEmployeeID))
	v.SetDefault("department_policy", string(reconcile.DepartmentFromLedger))
	v.SetDefault("drop_invalid_ledger_dates", false)
	v.SetDefault("presence_header_row", constants.PresenceHeaderRow)
	v.SetDefault("ledger_header_row", constants.LedgerHeaderRow)
	v.SetDefault("id_width", constants.EmployeeIDWidth)
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("max_upload_mb", constants.MaxUploadMB)
	v.SetDefault("rate_limit", 60)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(fe.Field(), fe.Value(), "failed \""+fe.Tag()+"\" constraint")
		}
		return errors.WrapValidation("config", err)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. .env.local is
// loaded first so its values win; godotenv never overrides set variables.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
