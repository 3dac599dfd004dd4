package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DBDriver:  "sqlite",
		DBPath:    ":memory:",
		JWTSecret: "0123456789abcdef0123456789abcdef",
		S3Bucket:  "krishi-uploads",
	}
}

func TestValidateAcceptsStrongSecret(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsWeakSecrets(t *testing.T) {
	cases := map[string]string{
		"missing":     "",
		"placeholder": "your-secret-key",
		"too short":   "short-secret",
	}
	for name, secret := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			cfg.JWTSecret = secret
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "JWT_SECRET")
		})
	}
}

func TestValidateRejectsUnknownDriverAndMissingBucket(t *testing.T) {
	cfg := validConfig()
	cfg.DBDriver = "oracle"
	cfg.S3Bucket = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "AWS_S3_BUCKET_NAME")
}

func TestValidateRequiresPairedAWSKeys(t *testing.T) {
	cfg := validConfig()
	cfg.AWSAccessKeyID = "AKIAEXAMPLE"
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_DRIVER", "SQLITE")
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("AWS_S3_BUCKET_NAME", "krishi-uploads")
	t.Setenv("IS_PROD", "true")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "test.db", cfg.DSN())
	assert.True(t, cfg.IsProd)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "8080", cfg.AppPort)
}

func TestDSNPerDriver(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBName: "krishi"}
	assert.Equal(t, "u:p@tcp(h:3306)/krishi?parseTime=true", cfg.DSN())

	cfg.DBDriver = "postgres"
	assert.Equal(t, "host=h user=u password=p dbname=krishi port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadDBConfigIgnoresServerSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "migrate.db")

	cfg, err := LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "migrate.db", cfg.DSN())

	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "oracle")
	_, err = LoadDBConfig()
	assert.ErrorContains(t, err, "DB_DRIVER")
}
