// Package config loads server configuration from YAML, TOML, or JSON
// files (or URLs), with environment variable overrides applied on top.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Operator is one set of operator credentials. Both fields are bcrypt
// hashes; plaintext never appears in configuration.
type Operator struct {
	UsernameHash string `yaml:"username_hash" toml:"username_hash" json:"username_hash"`
	PasswordHash string `yaml:"password_hash" toml:"password_hash" json:"password_hash"`
}

// Config represents the server configuration
type Config struct {
	// Server settings
	Server struct {
		Host    string `yaml:"host" toml:"host" json:"host" env:"IRCD_HOST"`
		Port    int    `yaml:"port" toml:"port" json:"port" env:"IRCD_PORT"`
		Created string `yaml:"created" toml:"created" json:"created" env:"IRCD_CREATED"`
	} `yaml:"server" toml:"server" json:"server"`

	// Message of the day, inline lines plus an optional file whose lines
	// are appended after them
	MOTD struct {
		Lines []string `yaml:"lines" toml:"lines" json:"lines"`
		File  string   `yaml:"file" toml:"file" json:"file" env:"IRCD_MOTD_FILE"`
	} `yaml:"motd" toml:"motd" json:"motd"`

	// Operator credentials, inline plus an optional file of
	// "usernamehash:passwordhash" lines
	Operators     []Operator `yaml:"operators" toml:"operators" json:"operators"`
	OperatorsFile string     `yaml:"operators_file" toml:"operators_file" json:"operators_file" env:"IRCD_OPERATORS_FILE"`

	// Feature toggles
	Features struct {
		DisableUsers bool `yaml:"disable_users" toml:"disable_users" json:"disable_users" env:"IRCD_DISABLE_USERS"`
	} `yaml:"features" toml:"features" json:"features"`

	// Status API settings
	API struct {
		Enabled      bool     `yaml:"enabled" toml:"enabled" json:"enabled" env:"IRCD_API_ENABLED"`
		Host         string   `yaml:"host" toml:"host" json:"host" env:"IRCD_API_HOST"`
		Port         int      `yaml:"port" toml:"port" json:"port" env:"IRCD_API_PORT"`
		BearerTokens []string `yaml:"bearer_tokens" toml:"bearer_tokens" json:"bearer_tokens" env:"IRCD_API_TOKENS"`
	} `yaml:"api" toml:"api" json:"api"`

	// Configuration source for rehashing
	Source string
}

// Default returns a configuration with built-in defaults and no source.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 6667
	cfg.API.Host = "localhost"
	cfg.API.Port = 8080
	return cfg
}

// Load loads configuration from a file or URL. An empty source yields the
// defaults with environment overrides applied.
func Load(source string) (*Config, error) {
	cfg := Default()
	cfg.Source = source

	if source != "" {
		if err := cfg.loadFromSource(source); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Server.Created == "" {
		cfg.Server.Created = time.Now().UTC().Format(time.RFC1123)
	}

	if err := cfg.loadMOTDFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadOperatorsFile(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Reload reloads the configuration from the original source or a new source
func (c *Config) Reload(newSource string) error {
	if newSource != "" {
		c.Source = newSource
	}

	newCfg, err := Load(c.Source)
	if err != nil {
		return err
	}

	*c = *newCfg
	return nil
}

// loadFromSource loads configuration from a file or URL
func (c *Config) loadFromSource(source string) error {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return fmt.Errorf("failed to load config from URL: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to load config from URL, status: %s", resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read config from URL: %v", err)
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read config file: %v", err)
		}
	}

	// Determine the format based on file extension
	switch {
	case strings.HasSuffix(source, ".toml"):
		err = toml.Unmarshal(data, c)
	case strings.HasSuffix(source, ".json"):
		err = json.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}

	if err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	c.Source = source
	return nil
}

// loadMOTDFile appends the lines of MOTD.File, if set, to MOTD.Lines.
func (c *Config) loadMOTDFile() error {
	if c.MOTD.File == "" {
		return nil
	}
	data, err := os.ReadFile(c.MOTD.File)
	if err != nil {
		return fmt.Errorf("failed to read MOTD file: %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		c.MOTD.Lines = append(c.MOTD.Lines, line)
	}
	return nil
}

// loadOperatorsFile appends "usernamehash:passwordhash" lines from
// OperatorsFile, if set, to Operators.
func (c *Config) loadOperatorsFile() error {
	if c.OperatorsFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.OperatorsFile)
	if err != nil {
		return fmt.Errorf("failed to read operators file: %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		userHash, passwordHash, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("malformed operators file line: %q", line)
		}
		c.Operators = append(c.Operators, Operator{
			UsernameHash: userHash,
			PasswordHash: passwordHash,
		})
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	applyEnvOverridesRecursive(reflect.ValueOf(cfg).Elem())
}

func applyEnvOverridesRecursive(v reflect.Value) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if field.PkgPath != "" {
			continue
		}

		envTag := field.Tag.Get("env")

		if envTag != "" {
			if envValue, exists := os.LookupEnv(envTag); exists {
				setFieldFromEnv(fieldValue, envValue)
			}
		} else if field.Type.Kind() == reflect.Struct {
			applyEnvOverridesRecursive(fieldValue)
		}
	}
}

// setFieldFromEnv sets a field's value from an environment variable
func setFieldFromEnv(field reflect.Value, envValue string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := parseInt(envValue); err == nil {
			field.SetInt(v)
		}
	case reflect.Bool:
		field.SetBool(parseBool(envValue))
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(envValue, ",")
			slice := reflect.MakeSlice(field.Type(), len(values), len(values))
			for i, v := range values {
				slice.Index(i).SetString(strings.TrimSpace(v))
			}
			field.Set(slice)
		}
	}
}

func parseInt(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "y"
}

// ListenAddress returns the formatted listen address for the server
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// APIListenAddress returns the formatted listen address for the status API
func (c *Config) APIListenAddress() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
