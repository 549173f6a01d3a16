package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "8000"
	defaultTMDBBaseURL     = "https://api.themoviedb.org/3"
	defaultTMDBLanguage    = "en-US"
	defaultPublicDir       = "public"
	defaultManifestPath    = "manifest.json"
	defaultOpenAPIPath     = "openapi.json"
	defaultStreamHeartbeat = 25 * time.Second
)

type Config struct {
	Port     string `yaml:"port"`
	GRPCAddr string `yaml:"grpc_addr"`

	TMDBAPIKey   string        `yaml:"tmdb_api_key"`
	TMDBBaseURL  string        `yaml:"tmdb_base_url"`
	TMDBLanguage string        `yaml:"tmdb_language"`
	TMDBTimeout  time.Duration `yaml:"tmdb_timeout"` // 0 keeps the transport default

	PublicDir    string `yaml:"public_dir"`
	ManifestPath string `yaml:"manifest_path"`
	OpenAPIPath  string `yaml:"openapi_path"`

	StreamHeartbeat time.Duration `yaml:"stream_heartbeat"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// Addr is the HTTP listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func DefaultConfig() Config {
	return Config{
		Port:            defaultPort,
		TMDBBaseURL:     defaultTMDBBaseURL,
		TMDBLanguage:    defaultTMDBLanguage,
		PublicDir:       defaultPublicDir,
		ManifestPath:    defaultManifestPath,
		OpenAPIPath:     defaultOpenAPIPath,
		StreamHeartbeat: defaultStreamHeartbeat,
		LogLevel:        "info",
	}
}

// LoadConfig reads .env (if present), then the optional YAML file named by
// MOVIEFINDER_CONFIG, then the process environment. Later sources win.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("MOVIEFINDER_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.GRPCAddr, "GRPC_ADDR")
	setString(&cfg.TMDBAPIKey, "TMDB_API_KEY")
	setString(&cfg.TMDBBaseURL, "TMDB_BASE_URL")
	setString(&cfg.TMDBLanguage, "TMDB_LANGUAGE")
	setSeconds(&cfg.TMDBTimeout, "TMDB_TIMEOUT")
	setString(&cfg.PublicDir, "PUBLIC_DIR")
	setString(&cfg.ManifestPath, "MANIFEST_PATH")
	setString(&cfg.OpenAPIPath, "OPENAPI_PATH")
	setSeconds(&cfg.StreamHeartbeat, "STREAM_HEARTBEAT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogJSON = strings.EqualFold(v, "json")
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setSeconds accepts either a bare number of seconds or a Go duration string.
// Unparseable values keep the current setting.
func setSeconds(dst *time.Duration, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
