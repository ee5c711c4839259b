// ABOUTME: Configuration loading for the resume service
// ABOUTME: YAML file via viper, RESUMEDECK_* environment overrides and an optional .env file

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/harper/resumedeck/internal/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RESUMEDECK"

type Config struct {
	Server   ServerConfig   `mapstructure:"server" json:"server"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Storage  StorageConfig  `mapstructure:"storage" json:"storage"`
	Uploads  UploadsConfig  `mapstructure:"uploads" json:"uploads"`
	Events   EventsConfig   `mapstructure:"events" json:"events"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
}

type ServerConfig struct {
	HTTPPort       int    `mapstructure:"http_port" json:"http_port"`
	HTTPHost       string `mapstructure:"http_host" json:"http_host"`
	WebSocketPort  int    `mapstructure:"websocket_port" json:"websocket_port"`
	WebSocketHost  string `mapstructure:"websocket_host" json:"websocket_host"`
	ManagementPort int    `mapstructure:"management_port" json:"management_port"`
	ManagementHost string `mapstructure:"management_host" json:"management_host"`
	// PublicURL is the base of every resume FileURL; defaults to the management listener.
	PublicURL string `mapstructure:"public_url" json:"public_url"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" json:"type"` // "local" or "s3"
	LocalDir    string `mapstructure:"local_dir" json:"local_dir"`
	S3Bucket    string `mapstructure:"s3_bucket" json:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region" json:"s3_region"`
	S3Prefix    string `mapstructure:"s3_prefix" json:"s3_prefix"`
	SSEKMSKeyID string `mapstructure:"sse_kms_key_id" json:"sse_kms_key_id"`
}

type UploadsConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" json:"max_bytes"`
}

type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url" json:"amqp_url"`
	Exchange string `mapstructure:"exchange" json:"exchange"`
}

type LoggingConfig struct {
	Verbose bool `mapstructure:"verbose" json:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_host", "127.0.0.1")
	v.SetDefault("server.http_port", 8090)
	v.SetDefault("server.websocket_host", "127.0.0.1")
	v.SetDefault("server.websocket_port", 8091)
	v.SetDefault("server.management_host", "127.0.0.1")
	v.SetDefault("server.management_port", 8092)
	v.SetDefault("server.public_url", "")
	v.SetDefault("database.path", "$XDG_DATA_HOME/"+xdg.AppName+"/resumes.sqlite")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "$XDG_DATA_HOME/"+xdg.AppName+"/files")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_prefix", "resumes/")
	v.SetDefault("storage.sse_kms_key_id", "")
	v.SetDefault("uploads.max_bytes", 10<<20)
	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "resume_events")
	v.SetDefault("logging.verbose", false)
}

// Load reads the config file at path (optional), then applies RESUMEDECK_*
// environment overrides. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Database.Path = xdg.ExpandPath(cfg.Database.Path)
	cfg.Storage.LocalDir = xdg.ExpandPath(cfg.Storage.LocalDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants and fills derived values.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "", "local":
		c.Storage.Type = "local"
	case "s3":
		if strings.TrimSpace(c.Storage.S3Bucket) == "" {
			return errors.New("storage.type=s3 requires storage.s3_bucket")
		}
	default:
		return fmt.Errorf("invalid storage.type: %s (must be 'local' or 's3')", c.Storage.Type)
	}

	for name, port := range map[string]int{
		"server.http_port":       c.Server.HTTPPort,
		"server.websocket_port":  c.Server.WebSocketPort,
		"server.management_port": c.Server.ManagementPort,
	} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s: %d", name, port)
		}
	}

	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 10 << 20
	}

	if c.Server.PublicURL == "" {
		c.Server.PublicURL = fmt.Sprintf("http://%s:%d", c.Server.ManagementHost, c.Server.ManagementPort)
	}
	c.Server.PublicURL = strings.TrimRight(c.Server.PublicURL, "/")
	return nil
}

// Redacted returns a copy safe to expose over the management API.
func (c Config) Redacted() Config {
	if c.Events.AMQPURL != "" {
		if u, err := url.Parse(c.Events.AMQPURL); err == nil && u.User != nil {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			c.Events.AMQPURL = u.String()
		}
	}
	if c.Storage.SSEKMSKeyID != "" {
		c.Storage.SSEKMSKeyID = "redacted"
	}
	return c
}

// EnsureDirs creates the directories the database and local store live in.
func (c *Config) EnsureDirs() (string, error) {
	dirs := []string{dirOf(c.Database.Path)}
	if c.Storage.Type == "local" {
		dirs = append(dirs, c.Storage.LocalDir)
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dir, err
		}
	}
	return "", nil
}

func dirOf(path string) string {
	if path == "" || path == ":memory:" {
		return ""
	}
	idx := strings.LastIndex(path, string(os.PathSeparator))
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
