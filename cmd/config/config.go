package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is built once at process start and passed by reference into the
// components that need it. Nothing reads configuration ambiently after
// Load returns.
type Config struct {
	Port       string
	CORSOrigin string

	DBDriver string
	DBDSN    string

	JWTSecret string
	TokenTTL  time.Duration

	StoreTimeout time.Duration

	AWSRegion string
	S3Bucket  string
	TempDir   string
}

func Load() (*Config, error) {
	// .env first so the env bindings below see local overrides.
	godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("cmd/config/")

	v.SetDefault("server.port", "8080")
	v.SetDefault("cors.origin", "*")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "videotube.db")
	v.SetDefault("auth.token_ttl_minutes", 24*60)
	v.SetDefault("store.timeout_seconds", 10)
	v.SetDefault("uploads.temp_dir", "tmp")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("cors.origin", "CORS_ORIGIN")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.s3_bucket", "S3_BUCKET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	cfg := &Config{
		Port:         v.GetString("server.port"),
		CORSOrigin:   v.GetString("cors.origin"),
		DBDriver:     v.GetString("db.driver"),
		DBDSN:        v.GetString("db.dsn"),
		JWTSecret:    v.GetString("auth.jwt_secret"),
		TokenTTL:     time.Duration(v.GetInt("auth.token_ttl_minutes")) * time.Minute,
		StoreTimeout: time.Duration(v.GetInt("store.timeout_seconds")) * time.Second,
		AWSRegion:    v.GetString("aws.region"),
		S3Bucket:     v.GetString("aws.s3_bucket"),
		TempDir:      v.GetString("uploads.temp_dir"),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret (JWT_SECRET) is required")
	}
	return cfg, nil
}
