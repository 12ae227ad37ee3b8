// ABOUTME: Configuration loader for the blogctl CLI
// ABOUTME: Layers .env, config.yaml, environment variables, and flag overrides

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:8080/wang/shine1"
	DefaultTimeout = 30 * time.Second
	FileName       = "config.yaml"
	appName        = "blogctl"
)

type Config struct {
	APIURL    string
	Timeout   time.Duration
	LogLevel  string // empty means the caller's default
	ConfigDir string // holds config.yaml, the token, and debug.log
}

// Overrides are values from command-line flags. Empty fields are ignored.
type Overrides struct {
	APIURL    string
	ConfigDir string
	DotEnv    string // path to a .env file, default ".env"
}

// fileConfig is the on-disk shape of config.yaml
type fileConfig struct {
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogLevel       string `yaml:"log_level"`
}

// Load resolves the configuration. Later layers win: .env, then config.yaml,
// then BLOGCTL_* environment variables, then flags. config.yaml is read from
// the resolved config directory.
func Load(o Overrides) (*Config, error) {
	dotenvPath := o.DotEnv
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	env, err := readDotEnv(dotenvPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
	cfg.ConfigDir = firstNonEmpty(o.ConfigDir, os.Getenv("BLOGCTL_CONFIG_DIR"), env["BLOGCTL_CONFIG_DIR"], DefaultConfigDir())

	if err := cfg.applyEnv(func(key string) string { return env[key] }); err != nil {
		return nil, err
	}

	fc, err := readFile(cfg.ConfigDir)
	if err != nil {
		return nil, err
	}
	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.TimeoutSeconds != 0 {
		cfg.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	cfg.LogLevel = fc.LogLevel

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}

	cfg.APIURL = strings.TrimRight(ensureScheme(strings.TrimSpace(cfg.APIURL)), "/")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	if v := lookup("BLOGCTL_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := lookup("BLOGCTL_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BLOGCTL_TIMEOUT must be a number of seconds, got %q", v)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL must use http or https, got %q", u.Scheme)
	}
	if c.Timeout < time.Second || c.Timeout > 300*time.Second {
		return fmt.Errorf("timeout must be between 1 and 300 seconds, got %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/blogctl or ~/.config/blogctl.
// It returns "" when no home directory can be determined.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

func readFile(dir string) (fileConfig, error) {
	var fc fileConfig
	if dir == "" {
		return fc, nil
	}
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

// readDotEnv returns the values in a .env file without exporting them
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
