package config

import (
	"errors"  // For joining validation errors
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For secret normalisation
	"time"    // For presign lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// minSecretLength is the shortest JWT secret accepted at startup
const minSecretLength = 32

// placeholderSecrets are well-known defaults that must never sign production sessions
var placeholderSecrets = map[string]bool{
	"your-secret-key":       true,
	"changeme":              true,
	"changeme-super-secret": true,
	"secret":                true,
	"jwt-secret":            true,
}

// Config holds the application configuration
type Config struct {
	AppPort            string        // Application port
	DBDriver           string        // Database driver: mysql, postgres or sqlite
	DBUser             string        // Database user
	DBPassword         string        // Database password
	DBHost             string        // Database host
	DBPort             string        // Database port
	DBName             string        // Database name
	DBPath             string        // SQLite file path (sqlite driver only)
	JWTSecret          string        // JWT secret key
	RedisAddr          string        // Redis server address
	RedisPass          string        // Redis password
	RedisDB            int           // Redis database number
	IsProd             bool          // Is production environment
	AWSRegion          string        // S3 region
	S3Bucket           string        // S3 bucket receiving uploads
	AWSAccessKeyID     string        // Optional static access key
	AWSSecretAccessKey string        // Optional static secret key
	PresignTTL         time.Duration // Lifetime of presigned upload URLs
}

// LoadConfig loads configuration from environment variables and validates it
func LoadConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDBConfig loads configuration checking only the database settings
func LoadDBConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.ValidateDB(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             os.Getenv("DB_PORT"),
		DBName:             os.Getenv("DB_NAME"),
		DBPath:             getEnv("DB_PATH", "krishisaarthi.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASS"),
		RedisDB:            redisDB,
		IsProd:             os.Getenv("IS_PROD") == "true",
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:           os.Getenv("AWS_S3_BUCKET_NAME"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		PresignTTL:         time.Hour,
	}
	return cfg
}

// Validate rejects configurations the server must not start with
func (c *Config) Validate() error {
	errs := []error{c.ValidateDB()}
	secret := strings.TrimSpace(c.JWTSecret)
	switch {
	case secret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case placeholderSecrets[strings.ToLower(secret)]:
		errs = append(errs, errors.New("JWT_SECRET is a placeholder value"))
	case len(secret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("AWS_S3_BUCKET_NAME is required"))
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		errs = append(errs, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together"))
	}
	return errors.Join(errs...)
}

// ValidateDB checks the driver and its connection settings
func (c *Config) ValidateDB() error {
	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBName == "" {
			return errors.New("DB_NAME is required")
		}
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN builds the driver specific data source name
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, defaultString(c.DBPort, "5432"))
	case "sqlite":
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + defaultString(c.DBPort, "3306") + ")/" + c.DBName + "?parseTime=true"
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
