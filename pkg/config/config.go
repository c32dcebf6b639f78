package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/kickshop/config"
	ConfigFileName    = "kickshop.yml"

	// DefaultSecretKey is the development fallback signing secret. Using it
	// in production is unsafe; Load keeps working but callers should warn.
	DefaultSecretKey = "dev-secret-change-me"
)

const (
	defaultAccessTokenExpireMinutes = 30
	defaultRefreshTokenExpireDays   = 30

	// maxTokenTTL caps configured token lifetimes so that expiry
	// arithmetic can never overflow.
	maxTokenTTL = 365 * 24 * time.Hour
)

// Config holds all Kick Shopping API configuration settings.
// It is built once at startup and passed by injection; nothing mutates it
// at runtime.
type Config struct {
	// SecretKey signs identity tokens.
	SecretKey string `yaml:"secret_key" json:"-"`

	// Algorithm is the token signing algorithm. Only HS256 is supported.
	Algorithm string `yaml:"algorithm" json:"algorithm"`

	// AccessTokenExpireMinutes is the access token lifetime in minutes.
	AccessTokenExpireMinutes int `yaml:"access_token_expire_minutes" json:"access_token_expire_minutes"`

	// RefreshTokenExpireDays is the refresh token lifetime in days.
	RefreshTokenExpireDays int `yaml:"refresh_token_expire_days" json:"refresh_token_expire_days"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `yaml:"database_url" json:"-"`

	// BindAddress and Port for the HTTP server.
	BindAddress string `yaml:"bind_address" json:"bind_address"`
	Port        string `yaml:"port" json:"port"`

	// CORSOrigins is the list of allowed browser origins.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	// StaticDir is the directory served under /static/.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	return &Config{
		SecretKey:                DefaultSecretKey,
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: defaultAccessTokenExpireMinutes,
		RefreshTokenExpireDays:   defaultRefreshTokenExpireDays,
		BindAddress:              "0.0.0.0",
		Port:                     "8000",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		StaticDir: "static",
		sources:   make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("KICKSHOP_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"secret_key", "algorithm", "access_token_expire_minutes",
		"refresh_token_expire_days", "database_url", "bind_address",
		"port", "cors_origins", "static_dir",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
		c.sources["secret_key"] = "file"
	}
	if file.Algorithm != "" {
		c.Algorithm = file.Algorithm
		c.sources["algorithm"] = "file"
	}
	if file.AccessTokenExpireMinutes != 0 {
		c.AccessTokenExpireMinutes = file.AccessTokenExpireMinutes
		c.sources["access_token_expire_minutes"] = "file"
	}
	if file.RefreshTokenExpireDays != 0 {
		c.RefreshTokenExpireDays = file.RefreshTokenExpireDays
		c.sources["refresh_token_expire_days"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != "" {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
		c.sources["cors_origins"] = "file"
	}
	if file.StaticDir != "" {
		c.StaticDir = file.StaticDir
		c.sources["static_dir"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("SECRET_KEY"); val != "" {
		c.SecretKey = val
		c.sources["secret_key"] = "environment"
	}
	if val := os.Getenv("ALGORITHM"); val != "" {
		c.Algorithm = val
		c.sources["algorithm"] = "environment"
	}
	if val := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenExpireMinutes = i
			c.sources["access_token_expire_minutes"] = "environment"
		}
	}
	if val := os.Getenv("REFRESH_TOKEN_EXPIRE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RefreshTokenExpireDays = i
			c.sources["refresh_token_expire_days"] = "environment"
		}
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		c.Port = val
		c.sources["port"] = "environment"
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitAndTrim(val)
		c.sources["cors_origins"] = "environment"
	}
	if val := os.Getenv("STATIC_DIR"); val != "" {
		c.StaticDir = val
		c.sources["static_dir"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsDevSecret reports whether the signing secret is the development default.
func (c *Config) IsDevSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// AccessTokenTTL returns the access token lifetime. Zero, negative, or
// absurdly large configured values are clamped to the default rather than
// propagated.
func (c *Config) AccessTokenTTL() time.Duration {
	return clampTTL(time.Duration(c.AccessTokenExpireMinutes)*time.Minute,
		defaultAccessTokenExpireMinutes*time.Minute)
}

// RefreshTokenTTL returns the refresh token lifetime, clamped like
// AccessTokenTTL.
func (c *Config) RefreshTokenTTL() time.Duration {
	return clampTTL(time.Duration(c.RefreshTokenExpireDays)*24*time.Hour,
		defaultRefreshTokenExpireDays*24*time.Hour)
}

func clampTTL(ttl, fallback time.Duration) time.Duration {
	if ttl <= 0 || ttl > maxTokenTTL {
		return fallback
	}
	return ttl
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Algorithm != "HS256" {
		return fmt.Errorf("unsupported signing algorithm: %s", c.Algorithm)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are redacted.
func (c *Config) Attributes() []Attribute {
	secret := "(redacted)"
	if c.IsDevSecret() {
		secret = DefaultSecretKey
	}
	dbURL := ""
	if c.DatabaseURL != "" {
		dbURL = "(redacted)"
	}
	return []Attribute{
		{Name: "secret_key", Value: secret, Source: c.Source("secret_key")},
		{Name: "algorithm", Value: c.Algorithm, Source: c.Source("algorithm")},
		{Name: "access_token_expire_minutes", Value: strconv.Itoa(c.AccessTokenExpireMinutes), Source: c.Source("access_token_expire_minutes")},
		{Name: "refresh_token_expire_days", Value: strconv.Itoa(c.RefreshTokenExpireDays), Source: c.Source("refresh_token_expire_days")},
		{Name: "database_url", Value: dbURL, Source: c.Source("database_url")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "cors_origins", Value: strings.Join(c.CORSOrigins, ","), Source: c.Source("cors_origins")},
		{Name: "static_dir", Value: c.StaticDir, Source: c.Source("static_dir")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
