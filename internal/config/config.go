package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/spf13/viper"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds the configuration for the lapinstance CLI and the development server.
type Config struct {
	// URL is the root of the lapinstance REST API, including any path prefix.
	URL string `yaml:"url" mapstructure:"url"`
	// Timeout bounds every request issued by the CLI. Zero disables it.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headers are extra headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// Output selects how the CLI prints results. Options: "text", "json".
	Output OutputFormat `yaml:"output" mapstructure:"output"`
	// DevServer holds the configuration for the development server.
	DevServer *DevServerConfig `yaml:"devserver" mapstructure:"devserver"`
}

// DevServerConfig holds the configuration for the development server.
type DevServerConfig struct {
	// Listen is the address the development server listens on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Session describes the user returned by /session/user.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// RosterEnabled is reported by /applicationSettings.
	RosterEnabled bool `yaml:"roster_enabled" mapstructure:"roster_enabled"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig holds the identity of the logged in user.
type SessionConfig struct {
	UserName  string   `yaml:"user_name" mapstructure:"user_name"`
	DiscordID string   `yaml:"discord_id" mapstructure:"discord_id"`
	Roles     []string `yaml:"roles" mapstructure:"roles"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults and env vars apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("LAPINSTANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lapinstance")
		v.AddConfigPath("/etc/lapinstance")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the LAPINSTANCE_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("user_agent", "lapinstance-cli")
	v.SetDefault("output", string(OutputText))

	// Devserver defaults
	v.SetDefault("devserver.listen", "127.0.0.1:8080")
	v.SetDefault("devserver.database.path", "./data/lapinstance.db")
	v.SetDefault("devserver.session.user_name", "Raidleader")
	v.SetDefault("devserver.session.discord_id", "")
	v.SetDefault("devserver.session.roles", []string{string(lapinstance.UserRoleAdmin), string(lapinstance.UserRoleUser)})
	v.SetDefault("devserver.roster_enabled", true)
}

// bindNestedEnv binds env vars that don't follow the LAPINSTANCE_<KEY> scheme.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("url", "LAPINSTANCE_URL", "LAPINSTANCE_API_URL")
	v.MustBindEnv("devserver.database.path", "LAPINSTANCE_DEVSERVER_DATABASE_PATH", "LAPINSTANCE_DB")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing lapinstance config")
	}

	if c.URL == "" {
		return fmt.Errorf("API URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API URL must be an absolute http(s) URL, got %q", c.URL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q, expected text or json", c.Output)
	}

	if c.DevServer == nil {
		return fmt.Errorf("missing devserver config")
	}
	if c.DevServer.Listen == "" {
		return fmt.Errorf("devserver listen address is required")
	}
	if c.DevServer.Database == nil || c.DevServer.Database.Path == "" {
		return fmt.Errorf("devserver database path is required")
	}
	if c.DevServer.Session == nil || c.DevServer.Session.UserName == "" {
		return fmt.Errorf("devserver session user name is required")
	}
	for _, role := range c.DevServer.Session.Roles {
		if _, err := lapinstance.ParseUserRole(role); err != nil {
			return fmt.Errorf("devserver session: %w", err)
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.URL = urlSanitize(c.URL)
	c.Output = OutputFormat(strings.ToLower(strings.TrimSpace(string(c.Output))))

	if c.DevServer != nil {
		c.DevServer.Listen = strings.TrimSpace(c.DevServer.Listen)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// SessionRoles returns the parsed roles of the configured devserver user.
func (c *DevServerConfig) SessionRoles() []lapinstance.UserRole {
	if c == nil || c.Session == nil {
		return nil
	}
	roles := make([]lapinstance.UserRole, 0, len(c.Session.Roles))
	for _, r := range c.Session.Roles {
		if role, err := lapinstance.ParseUserRole(r); err == nil {
			roles = append(roles, role)
		}
	}
	return roles
}
