package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverDynamo   = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	StoreDriver    string
	PostgresDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	StoreTimeout   time.Duration

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	SNSRegion            string
	SNSBroadcastTopicARN string // empty disables broadcast fan-out

	GenAIAPIKey string
	GenAIModel  string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	BroadcastRate     float64 // requests per second per client IP
	BroadcastBurst    int
	TrustProxyHeaders bool // key clients on X-Forwarded-For; only behind a rewriting proxy

	DNAMaxUploadMB int
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table names used when STORE_DRIVER=dynamo.
type DynamoTables struct {
	Notifications string
	Users         string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		PostgresDSN:    getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=shijra port=5432 sslmode=disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 5*time.Second),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "shijra-dna-vault"),

		SNSRegion:            getEnv("SNS_REGION", "us-east-1"),
		SNSBroadcastTopicARN: getEnv("SNS_BROADCAST_TOPIC_ARN", ""),

		GenAIAPIKey: getEnv("GENAI_API_KEY", ""),
		GenAIModel:  getEnv("GENAI_MODEL", "gemini-3-flash-preview"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		BroadcastRate:     getEnvFloat("BROADCAST_RATE", 5),
		BroadcastBurst:    getEnvInt("BROADCAST_BURST", 10),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		DNAMaxUploadMB: getEnvInt("DNA_MAX_UPLOAD_MB", 64),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsDevelopment reports whether the service runs in a local/dev environment.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
