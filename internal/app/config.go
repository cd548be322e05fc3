package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from environment
// variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL string        `usage:"Storefront API base URL (STOREFRONT_API_BASE_URL or API_URL)" flag:"api-url"`
	StatePath  string        `usage:"Path to the local state database (default: user state dir)" flag:"state-path"`
	Timeout    time.Duration `default:"15s" usage:"HTTP request timeout"`
	Ephemeral  bool          `default:"false" usage:"Keep session state in memory only (nothing persisted)" flag:"ephemeral"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies defaults that need the user's environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files: []string{
			"storefront.yaml",
			filepath.Join(userConfigDir(), "storefront", "config.yaml"),
		},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
		// Flags are owned by cobra; aconfig only reads env and files.
		SkipFlags: true,
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API base URL is required: set STOREFRONT_API_BASE_URL or API_URL")
	}
	return &cfg, nil
}

// applyDefaults maps the generic API_URL variable and fills in the default
// state database location.
func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		if v := os.Getenv("API_URL"); v != "" {
			c.APIBaseURL = v
		}
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(userStateDir(), "storefront", "state.db")
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

// userStateDir resolves the XDG state directory, falling back to the user
// cache directory on platforms without one.
func userStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return "."
}
