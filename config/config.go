// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath       = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels   = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers   = []string{"postgres", "sqlite"}
	defaultPublicAPI = []string{"/api/video"}
	defaultPublic    = []string{"/sign-in(.*)", "/sign-up(.*)", "/", "/home"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.read_timeout", "HOST_READ_TIMEOUT")
	v.BindEnv("host.write_timeout", "HOST_WRITE_TIMEOUT")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	v.BindEnv("auth.session_secret", "SESSION_SECRET")
	v.BindEnv("auth.cookie_name", "SESSION_COOKIE_NAME")

	v.BindEnv("db.driver", "DATABASE_DRIVER")
	v.BindEnv("db.url", "DATABASE_URL")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME", "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("cloudinary.video_folder", "CLOUDINARY_VIDEO_FOLDER")
	v.BindEnv("cloudinary.image_folder", "CLOUDINARY_IMAGE_FOLDER")

	v.BindEnv("gate.public_pages", "GATE_PUBLIC_PAGES")
	v.BindEnv("gate.public_api", "GATE_PUBLIC_API")

	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.endpoint", "TRACING_ENDPOINT")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:3000"})
	v.SetDefault("host.read_timeout", 30*time.Second)
	v.SetDefault("host.write_timeout", 10*time.Minute)

	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("auth.cookie_name", "__session")

	v.SetDefault("db.driver", "postgres")

	v.SetDefault("upload.max_size", 70)

	v.SetDefault("cloudinary.video_folder", "video-uploads")
	v.SetDefault("cloudinary.image_folder", "next-cloudinary-uploads")

	v.SetDefault("gate.public_pages", defaultPublic)
	v.SetDefault("gate.public_api", defaultPublicAPI)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	return Validate()
}

// Validate checks the values currently loaded into viper
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetString("auth.session_secret") == "" {
		return errors.New("no session secret provided, set SESSION_SECRET to the identity provider's signing key")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.url") == "" {
		return errors.New("no database url provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	// Missing credentials only disable the upload routes, every request to them
	// reports the problem on its own
	if v.GetString("cloudinary.cloud_name") == "" ||
		v.GetString("cloudinary.api_key") == "" ||
		v.GetString("cloudinary.api_secret") == "" {
		zap.L().Warn("Cloudinary credentials are incomplete, uploads will fail until they are set")
	}

	if v.GetBool("tracing.enabled") && v.GetString("tracing.endpoint") == "" {
		return errors.New("tracing is enabled but no endpoint was provided")
	}

	return nil
}

// MaxUploadSize returns upload.max_size converted from MiB to bytes
func MaxUploadSize() int64 {
	return v.GetInt64("upload.max_size") << 20
}
