package config

import (
	"os"
	"strconv"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Resiliency  ResiliencyDefaults
	Fraud       FraudConfig
	CoreBanking CoreBankingDefaults
	Security    SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// KafkaConfig holds the broker list and topic names for outbound events.
// EventsTopic receives the self-healing monitor's recovery events;
// DeadLetterTopic is loaded but not read by any publisher.
type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	DeadLetterTopic string
}

// ResiliencyDefaults holds resiliency settings loaded from the environment.
// The envelope does not read them: targets without a stored configuration
// use the fixed values of resiliency.DefaultPolicy.
type ResiliencyDefaults struct {
	FailureRateThreshold      float64
	SlidingWindowSize         int
	MinimumNumberOfCalls      int
	WaitDurationInOpenStateMs int
	MaxRetryAttempts          int
	RetryInitialIntervalMs    int
	RetryMultiplier           float64
	BulkheadMaxConcurrentCalls int
	TimeLimiterTimeoutMs      int
	RateLimiterLimitForPeriod int
	RateLimiterRefreshPeriodMs int
	HealthCheckIntervalMs     int
}

// FraudConfig holds fraud/risk pipeline defaults. DefaultDecision applies
// when matching tenant configurations produce no terminal decision; a payment
// that matches no configuration at all is approved.
type FraudConfig struct {
	DefaultDecision    string
	ExternalAPITimeoutMs int
	MaxRiskScore       float64
}

// CoreBankingDefaults holds adapter dispatch settings loaded from the
// environment; adapter dispatch does not read them.
type CoreBankingDefaults struct {
	DefaultTimeoutMs     int
	DefaultRetryAttempts int
}

// SecurityConfig holds security encryption and signing keys
type SecurityConfig struct {
	ApiKeyEncryptionKey  string
	SessionEncryptionKey string
	ChecksumMasterSecret string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "iso20022_orchestrator"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:         getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			EventsTopic:     getEnv("KAFKA_EVENTS_TOPIC", "payment.lifecycle.events"),
			DeadLetterTopic: getEnv("KAFKA_DEAD_LETTER_TOPIC", "payment.lifecycle.deadletter"),
		},
		Resiliency: ResiliencyDefaults{
			FailureRateThreshold:       getEnvAsFloat("RESILIENCY_FAILURE_RATE_THRESHOLD", 0.5),
			SlidingWindowSize:          getEnvAsInt("RESILIENCY_SLIDING_WINDOW_SIZE", 20),
			MinimumNumberOfCalls:       getEnvAsInt("RESILIENCY_MINIMUM_CALLS", 10),
			WaitDurationInOpenStateMs:  getEnvAsInt("RESILIENCY_OPEN_STATE_WAIT_MS", 30000),
			MaxRetryAttempts:           getEnvAsInt("RESILIENCY_MAX_RETRY_ATTEMPTS", 3),
			RetryInitialIntervalMs:     getEnvAsInt("RESILIENCY_RETRY_INITIAL_INTERVAL_MS", 200),
			RetryMultiplier:            getEnvAsFloat("RESILIENCY_RETRY_MULTIPLIER", 2.0),
			BulkheadMaxConcurrentCalls: getEnvAsInt("RESILIENCY_BULKHEAD_MAX_CONCURRENT", 25),
			TimeLimiterTimeoutMs:       getEnvAsInt("RESILIENCY_TIME_LIMITER_TIMEOUT_MS", 5000),
			RateLimiterLimitForPeriod: getEnvAsInt("RESILIENCY_RATE_LIMITER_LIMIT", 100),
			RateLimiterRefreshPeriodMs: getEnvAsInt("RESILIENCY_RATE_LIMITER_REFRESH_MS", 1000),
			HealthCheckIntervalMs:      getEnvAsInt("RESILIENCY_HEALTH_CHECK_INTERVAL_MS", 15000),
		},
		Fraud: FraudConfig{
			DefaultDecision:      getEnv("FRAUD_DEFAULT_DECISION", "MANUAL_REVIEW"),
			ExternalAPITimeoutMs: getEnvAsInt("FRAUD_EXTERNAL_API_TIMEOUT_MS", 3000),
			MaxRiskScore:         getEnvAsFloat("FRAUD_MAX_RISK_SCORE", 1.0),
		},
		CoreBanking: CoreBankingDefaults{
			DefaultTimeoutMs:     getEnvAsInt("COREBANKING_DEFAULT_TIMEOUT_MS", 10000),
			DefaultRetryAttempts: getEnvAsInt("COREBANKING_DEFAULT_RETRY_ATTEMPTS", 2),
		},
		Security: SecurityConfig{
			ApiKeyEncryptionKey:  getEnv("API_KEY_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),
			ChecksumMasterSecret: getEnv("CHECKSUM_MASTER_SECRET", "change-this-checksum-secret-in-production"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			if i > start {
				result = append(result, value[start:i])
			}
			start = i + 1
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
