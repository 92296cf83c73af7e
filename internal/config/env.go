package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Passwords are never read from the environment - use PromptPassword
type Config struct {
	Addr             string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	StoreType        string `envconfig:"STORE_TYPE" default:"file"`
	StorePath        string `envconfig:"STORE_PATH" default:"vault.json"`
	PBKDF2Iterations int    `envconfig:"PBKDF2_ITERATIONS" default:"100000"`
	ClientEnv        string `envconfig:"CLIENT_ENV" default:"local-vault"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string `envconfig:"LOG_FORMAT" default:"console"`
}

// Prefix is the environment variable prefix, e.g. VAULT_STORE_PATH.
const Prefix = "VAULT"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	if c.PBKDF2Iterations < 1 {
		return errors.New("PBKDF2_ITERATIONS must be positive")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// PromptPassword prompts for a password in the terminal without echoing it.
// Caller must zero the returned slice after use for security.
func PromptPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	password := make([]byte, len(raw))
	copy(password, raw)
	clear(raw)
	return password, nil
}
