package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CASEDIAG_"

// Config holds the collaborator endpoints and client tuning
type Config struct {
	AuthURL       string        `yaml:"auth_url"`
	CaseURL       string        `yaml:"case_url"`
	DiagnosticURL string        `yaml:"diagnostic_url"`
	TokenFile     string        `yaml:"token_file"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	LLMProvider   string        `yaml:"llm_provider"`
	LLMModel      string        `yaml:"llm_model"`
}

// DefaultConfig points at the services on their default local ports
func DefaultConfig() *Config {
	return &Config{
		AuthURL:       "http://localhost:5000",
		CaseURL:       "http://localhost:5001",
		DiagnosticURL: "http://localhost:5002/diagnostic",
		TokenFile:     defaultTokenFile(),
		Timeout:       30 * time.Second,
		MaxRetries:    3,
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".casediag-token"
	}
	return filepath.Join(dir, "casediag", "token")
}

// defaultPaths are searched in order when no path is given
func defaultPaths() []string {
	paths := []string{"casediag.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "casediag", "config.yaml"))
	}
	return paths
}

// Load builds the configuration from defaults, env files, the YAML file and
// CASEDIAG_* variables, later sources winning. An explicit path that cannot
// be read is an error; a missing default file is not.
func Load(path string, logger *logrus.Logger) (*Config, error) {
	LoadEnv(logger)

	cfg := DefaultConfig()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		for _, candidate := range defaultPaths() {
			data, err = os.ReadFile(candidate)
			if err == nil {
				path = candidate
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", candidate, err)
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if logger != nil {
			logger.WithField("path", path).Debug("Loaded config file")
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads .env and .env.local into the process environment
func LoadEnv(logger *logrus.Logger) {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		if logger != nil {
			logger.Debugf("Loaded env file %s", file)
		}
	}
}

func applyEnv(cfg *Config) {
	cfg.AuthURL = GetEnv(EnvPrefix+"AUTH_URL", cfg.AuthURL)
	cfg.CaseURL = GetEnv(EnvPrefix+"CASE_URL", cfg.CaseURL)
	cfg.DiagnosticURL = GetEnv(EnvPrefix+"DIAGNOSTIC_URL", cfg.DiagnosticURL)
	cfg.TokenFile = GetEnv(EnvPrefix+"TOKEN_FILE", cfg.TokenFile)
	cfg.MaxRetries = GetEnvInt(EnvPrefix+"MAX_RETRIES", cfg.MaxRetries)
	cfg.LLMProvider = GetEnv(EnvPrefix+"LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMModel = GetEnv(EnvPrefix+"LLM_MODEL", cfg.LLMModel)
	if value := os.Getenv(EnvPrefix + "TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			cfg.Timeout = d
		}
	}
}

// Validate rejects settings the clients cannot work with
func (c *Config) Validate() error {
	if c.AuthURL == "" || c.CaseURL == "" || c.DiagnosticURL == "" {
		return fmt.Errorf("auth_url, case_url and diagnostic_url must all be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
