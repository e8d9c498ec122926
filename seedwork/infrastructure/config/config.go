package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Firebase FirebaseConfig
	Server   ServerConfig
	User     UserConfig
	STT      STTConfig
	Billing  BillingConfig
	Queue    QueueConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// FirebaseConfig holds Firebase configuration
type FirebaseConfig struct {
	ProjectID           string
	CredentialsPath     string
	UseEmulator         bool
	EmulatorHost        string
	ServiceAccountEmail string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// UserConfig holds user module configuration
type UserConfig struct {
	RepositoryType string // "gorm" or "firebase"
}

// STTConfig holds speech-to-text provider configuration
type STTConfig struct {
	// DefaultProvider is the back end "auto" resolves to at dispatch time.
	DefaultProvider    string
	AssemblyAIAPIKey   string
	GoogleCredPath     string
	StorageBucket      string
	UploadURLTTL       time.Duration
	UpstreamCallTimeout time.Duration
}

// BillingConfig holds per-provider cost rates, in integer cents per minute.
type BillingConfig struct {
	GoogleCentsPerMinute     int
	AssemblyAICentsPerMinute int
	Currency                 string
}

// QueueConfig holds the durable work-queue connection.
type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StreamKey     string
}

// WorkerConfig holds worker-tier tuning knobs.
type WorkerConfig struct {
	HeartbeatInterval      time.Duration
	MaxProviderAttempts    int
	BackoffInitial         time.Duration
	BackoffMax             time.Duration
	ReaperInterval         time.Duration
	ReaperTimeoutMultiplier float64
	ReaperMinimumTimeout   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "your-super-secret-and-long-postgres-password"),
			Name:     getEnv("DB_NAME", "coachtranscribe_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Firebase: FirebaseConfig{
			ProjectID:           getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath:     getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			UseEmulator:         getEnvBool("FIREBASE_USE_EMULATOR", false),
			EmulatorHost:        getEnv("FIREBASE_EMULATOR_HOST", "localhost:9099"),
			ServiceAccountEmail: getEnv("FIREBASE_SERVICE_ACCOUNT_EMAIL", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		User: UserConfig{
			RepositoryType: getEnv("USER_REPOSITORY_TYPE", "gorm"),
		},
		STT: STTConfig{
			DefaultProvider:     getEnv("STT_DEFAULT_PROVIDER", "google"),
			AssemblyAIAPIKey:    getEnv("ASSEMBLYAI_API_KEY", ""),
			GoogleCredPath:      getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			StorageBucket:       getEnv("AUDIO_STORAGE_BUCKET", "coachtranscribe-audio"),
			UploadURLTTL:        getEnvDuration("UPLOAD_URL_TTL", 15*time.Minute),
			UpstreamCallTimeout: getEnvDuration("STT_CALL_TIMEOUT", 30*time.Second),
		},
		Billing: BillingConfig{
			GoogleCentsPerMinute:     getEnvInt("RATE_GOOGLE_CENTS_PER_MIN", 3),
			AssemblyAICentsPerMinute: getEnvInt("RATE_ASSEMBLYAI_CENTS_PER_MIN", 2),
			Currency:                 getEnv("BILLING_CURRENCY", "TWD"),
		},
		Queue: QueueConfig{
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			StreamKey:     getEnv("TRANSCRIPTION_QUEUE_KEY", "coachtranscribe:transcription-jobs"),
		},
		Worker: WorkerConfig{
			HeartbeatInterval:       getEnvDuration("WORKER_HEARTBEAT_INTERVAL", 30*time.Second),
			MaxProviderAttempts:     getEnvInt("WORKER_MAX_PROVIDER_ATTEMPTS", 3),
			BackoffInitial:          getEnvDuration("WORKER_BACKOFF_INITIAL", 5*time.Second),
			BackoffMax:              getEnvDuration("WORKER_BACKOFF_MAX", 120*time.Second),
			ReaperInterval:          getEnvDuration("REAPER_INTERVAL", 5*time.Minute),
			ReaperTimeoutMultiplier: getEnvFloat("REAPER_TIMEOUT_MULTIPLIER", 2.0),
			ReaperMinimumTimeout:    getEnvDuration("REAPER_MINIMUM_TIMEOUT", 30*time.Minute),
		},
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets an environment variable as boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float64 or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration (e.g. "30s") or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
