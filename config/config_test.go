package config

import (
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validConfig(t *testing.T) {
	t.Helper()
	v.Reset()
	t.Cleanup(v.Reset)

	v.Set("app.log_level", "info")
	v.Set("host.port", 8080)
	v.Set("security.rate_limit", 20)
	v.Set("auth.session_secret", "secret")
	v.Set("db.driver", "sqlite")
	v.Set("db.url", "media.db")
	v.Set("upload.max_size", 70)
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	validConfig(t)
	assert.NoError(t, Validate())
	assert.Equal(t, int64(70<<20), MaxUploadSize())
}

func TestValidateAllowsMissingCloudinaryCredentials(t *testing.T) {
	validConfig(t)
	v.Set("cloudinary.cloud_name", "")
	assert.NoError(t, Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]any{
		"app.log_level":       "verbose",
		"host.port":           0,
		"security.rate_limit": -1,
		"auth.session_secret": "",
		"db.driver":           "mongo",
		"db.url":              "",
		"upload.max_size":     0,
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			validConfig(t)
			v.Set(key, value)
			assert.Error(t, Validate())
		})
	}
}

func TestValidateTracingNeedsEndpoint(t *testing.T) {
	validConfig(t)
	v.Set("tracing.enabled", true)
	v.Set("tracing.endpoint", "")
	assert.Error(t, Validate())
}
