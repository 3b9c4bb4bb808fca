package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingSetting is returned by Load when a required setting is absent.
var ErrMissingSetting = errors.New("missing required setting")

// Storage providers accepted by storage.provider.
const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// StorageConfig holds object storage credentials and upload settings.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	AccessKey     string `mapstructure:"access_key_id"`
	SecretKey     string `mapstructure:"secret_access_key"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket_name"`
	Endpoint      string `mapstructure:"endpoint"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (s *StorageConfig) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// multipartOverheadBytes leaves room for boundaries, part headers and small
// form fields around the file itself.
const multipartOverheadBytes = 1 << 20

// MaxRequestBytes returns the cap on an upload request body, or 0 when the
// file size ceiling is disabled.
func (s *StorageConfig) MaxRequestBytes() int64 {
	if s.MaxFileSizeBytes() <= 0 {
		return 0
	}
	return s.MaxFileSizeBytes() + multipartOverheadBytes
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the FILESERVICE_
// prefix. The four storage credentials are required; the plain AWS_* names
// are accepted as fallbacks.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FILESERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Storage defaults
	v.SetDefault("storage.provider", ProviderS3)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.max_file_size_mb", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	envBindings := map[string][]string{
		"server.port":              {"FILESERVICE_SERVER_PORT"},
		"server.read_timeout":      {"FILESERVICE_SERVER_READ_TIMEOUT"},
		"server.write_timeout":     {"FILESERVICE_SERVER_WRITE_TIMEOUT"},
		"server.environment":       {"FILESERVICE_SERVER_ENVIRONMENT"},
		"aws.access_key_id":        {"FILESERVICE_AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
		"aws.secret_access_key":    {"FILESERVICE_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
		"aws.region":               {"FILESERVICE_AWS_REGION", "AWS_S3_REGION", "AWS_REGION"},
		"aws.bucket_name":          {"FILESERVICE_AWS_BUCKET_NAME", "AWS_S3_BUCKET_NAME"},
		"storage.provider":         {"FILESERVICE_STORAGE_PROVIDER"},
		"storage.endpoint":         {"FILESERVICE_STORAGE_ENDPOINT"},
		"storage.use_ssl":          {"FILESERVICE_STORAGE_USE_SSL"},
		"storage.public_base_url":  {"FILESERVICE_STORAGE_PUBLIC_BASE_URL"},
		"storage.max_file_size_mb": {"FILESERVICE_STORAGE_MAX_FILE_SIZE_MB"},
		"log.level":                {"FILESERVICE_LOG_LEVEL"},
		"log.format":               {"FILESERVICE_LOG_FORMAT"},
		"cors.allowed_origins":     {"FILESERVICE_CORS_ALLOWED_ORIGINS"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FILESERVICE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FILESERVICE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(strings.TrimSpace(v.GetString("storage.provider"))),
		AccessKey:     v.GetString("aws.access_key_id"),
		SecretKey:     v.GetString("aws.secret_access_key"),
		Region:        v.GetString("aws.region"),
		Bucket:        v.GetString("aws.bucket_name"),
		Endpoint:      v.GetString("storage.endpoint"),
		UseSSL:        v.GetBool("storage.use_ssl"),
		PublicBaseURL: v.GetString("storage.public_base_url"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required storage setting is present and that the
// provider is known. Credentials are not verified here.
func (s *StorageConfig) Validate() error {
	var missing []string
	required := []struct {
		key, value string
	}{
		{"aws.access_key_id", s.AccessKey},
		{"aws.secret_access_key", s.SecretKey},
		{"aws.region", s.Region},
		{"aws.bucket_name", s.Bucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}

	switch s.Provider {
	case ProviderS3:
	case ProviderMinio:
		if s.Endpoint == "" {
			return fmt.Errorf("%w: storage.endpoint (required for provider %q)", ErrMissingSetting, s.Provider)
		}
	default:
		return fmt.Errorf("unknown storage provider %q", s.Provider)
	}
	return nil
}
