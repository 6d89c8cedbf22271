package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	License  LicenseConfig  `yaml:"license" envconfig:"LICENSE"`
}

// ServerConfig contains HTTP server configuration for the local API the
// desktop UI talks to.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:"127.0.0.1"`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8275"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pausaler.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LicenseFile string `yaml:"license_file" envconfig:"LICENSE_FILE" default:"license.dat"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// LicenseConfig contains the license subsystem configuration. The public
// key defaults to the embedded build-time constant; a file override
// exists for development against a non-production issuer key.
type LicenseConfig struct {
	PublicKeyFile string `yaml:"public_key_file" envconfig:"PUBLIC_KEY_FILE"`
	// IssuerSeedHex is only read by the issuer CLI, never by the product.
	IssuerSeedHex string `yaml:"-" envconfig:"ISSUER_SEED"`
}

// Load loads configuration from an optional YAML file with environment
// variables taking precedence, then validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PAUSALER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, rateLimitEnabled, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, rateLimitEnabled, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file. The rate-limit
// enabled flag comes back as a pointer: false in the file must be
// distinguishable from the key being absent.
func loadFromFile(filePath string) (*Config, *bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}

	var flags struct {
		Security struct {
			RateLimit struct {
				Enabled *bool `yaml:"enabled"`
			} `yaml:"rate_limit"`
		} `yaml:"security"`
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, nil, err
	}

	return &cfg, flags.Security.RateLimit.Enabled, nil
}

// mergeConfigs merges file config with env config (env takes precedence:
// a field set by envconfig, including by a default tag, only yields to
// the file when the corresponding environment variable is unset and the
// file carries a non-zero value).
func mergeConfigs(fileConfig Config, rateLimitEnabled *bool, envConfig Config) Config {
	if fileConfig.Server.Host != "" && os.Getenv("PAUSALER_SERVER_HOST") == "" {
		envConfig.Server.Host = fileConfig.Server.Host
	}
	if fileConfig.Server.Port != 0 && os.Getenv("PAUSALER_SERVER_PORT") == "" {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && os.Getenv("PAUSALER_SERVER_READ_TIMEOUT") == "" {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && os.Getenv("PAUSALER_SERVER_WRITE_TIMEOUT") == "" {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.IdleTimeout != 0 && os.Getenv("PAUSALER_SERVER_IDLE_TIMEOUT") == "" {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if fileConfig.Server.ShutdownTimeout != 0 && os.Getenv("PAUSALER_SERVER_SHUTDOWN_TIMEOUT") == "" {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if rateLimitEnabled != nil && os.Getenv("PAUSALER_SECURITY_RATE_LIMIT_ENABLED") == "" {
		envConfig.Security.RateLimit.Enabled = *rateLimitEnabled
	}
	if fileConfig.Security.RateLimit.RPS != 0 && os.Getenv("PAUSALER_SECURITY_RATE_LIMIT_RPS") == "" {
		envConfig.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if fileConfig.Security.RateLimit.Burst != 0 && os.Getenv("PAUSALER_SECURITY_RATE_LIMIT_BURST") == "" {
		envConfig.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}
	if fileConfig.Logging.Level != "" && os.Getenv("PAUSALER_LOGGING_LEVEL") == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && os.Getenv("PAUSALER_LOGGING_FORMAT") == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && os.Getenv("PAUSALER_LOGGING_OUTPUT") == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && os.Getenv("PAUSALER_LOGGING_FILE_PATH") == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Paths.DataDir != "" && os.Getenv("PAUSALER_PATHS_DATA_DIR") == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.LicenseFile != "" && os.Getenv("PAUSALER_PATHS_LICENSE_FILE") == "" {
		envConfig.Paths.LicenseFile = fileConfig.Paths.LicenseFile
	}
	if fileConfig.Paths.LogsDir != "" && os.Getenv("PAUSALER_PATHS_LOGS_DIR") == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if fileConfig.License.PublicKeyFile != "" && os.Getenv("PAUSALER_LICENSE_PUBLIC_KEY_FILE") == "" {
		envConfig.License.PublicKeyFile = fileConfig.License.PublicKeyFile
	}
	return envConfig
}

// configFilePath returns the config file location, overridable for tests
// and portable installs.
func configFilePath() string {
	if path := os.Getenv("PAUSALER_CONFIG"); path != "" {
		return path
	}
	return "pausaler.yaml"
}

// GetLicenseFile returns the resolved license file path under the data
// directory.
func (c *Config) GetLicenseFile() string {
	if filepath.IsAbs(c.Paths.LicenseFile) {
		return c.Paths.LicenseFile
	}
	return filepath.Join(c.Paths.DataDir, c.Paths.LicenseFile)
}

// EnsureDirectories creates the data and logs directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PublicKeyPEM returns the verifier public key: the configured override
// file when set, the embedded build-time constant otherwise.
func (c *Config) PublicKeyPEM() (string, error) {
	if c.License.PublicKeyFile == "" {
		return EmbeddedPublicKeyPEM(), nil
	}
	data, err := os.ReadFile(c.License.PublicKeyFile)
	if err != nil {
		return "", fmt.Errorf("read public key file: %w", err)
	}
	return string(data), nil
}

// validate validates the configuration.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Paths.LicenseFile == "" {
		return fmt.Errorf("license file path must not be empty")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		c.Logging.Format = "json"
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "pausaler.log")
	}

	return nil
}

// Default returns a configuration with all defaults applied and no file
// or environment input, for tests and the issuer CLI.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8275,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{Enabled: true, RPS: 20, Burst: 10},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/pausaler.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			LicenseFile: "license.dat",
			LogsDir:     "logs",
		},
	}
}
