// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Feeds    FeedsConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Drive    DriveConfig
	OpenAI   OpenAIConfig
	Refresh  RefreshConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// FeedsConfig points at the five gviz sheets. Live and Master are required;
// the rest degrade to empty feeds when unreachable.
type FeedsConfig struct {
	SheetID        string
	AccountSheetID string
	LiveURL        string
	MasterURL      string
	TrackingURL    string
	AccountURL     string
	CredentialsURL string
	TimeoutSeconds int
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ViewTTLSeconds int
}

// StorageConfig configures the raw-feed archive bucket.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// DriveConfig configures the Drive-export fallback feed source.
type DriveConfig struct {
	Enabled         bool
	CredentialsFile string
	FileID          string
	PollSeconds     int
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// RefreshConfig holds the cron spec for scheduled snapshot refreshes.
type RefreshConfig struct {
	Spec string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_LOG_LEVEL", "info")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("SHEET_ID", "1JbxRqsZTDgmdlJ_3nrumfjPvjGVZdjJe43FPrh9kYw4")
		viper.SetDefault("ACCOUNT_SHEET_ID", "1t4c9J8fjecI7XzbHRsKGDA54CJsa8ynrrvIu4COvcP4")
		viper.SetDefault("FEED_LIVE_URL", "")
		viper.SetDefault("FEED_MASTER_URL", "")
		viper.SetDefault("FEED_TRACKING_URL", "")
		viper.SetDefault("FEED_ACCOUNT_URL", "")
		viper.SetDefault("FEED_CREDENTIALS_URL", "")
		viper.SetDefault("FEED_TIMEOUT_SECONDS", 30)
		viper.SetDefault("DB_ENABLED", false)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "dashboard")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_VIEW_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_BUCKET", "dashboard-feeds")
		viper.SetDefault("DRIVE_ENABLED", false)
		viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
		viper.SetDefault("DRIVE_FILE_ID", "")
		viper.SetDefault("DRIVE_POLL_SECONDS", 300)
		viper.SetDefault("OPENAI_API_KEY", "")
		viper.SetDefault("OPENAI_MODEL", "")
		viper.SetDefault("REFRESH_CRON", "@every 15m")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("SERVER_LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Feeds: FeedsConfig{
				SheetID:        viper.GetString("SHEET_ID"),
				AccountSheetID: viper.GetString("ACCOUNT_SHEET_ID"),
				LiveURL:        viper.GetString("FEED_LIVE_URL"),
				MasterURL:      viper.GetString("FEED_MASTER_URL"),
				TrackingURL:    viper.GetString("FEED_TRACKING_URL"),
				AccountURL:     viper.GetString("FEED_ACCOUNT_URL"),
				CredentialsURL: viper.GetString("FEED_CREDENTIALS_URL"),
				TimeoutSeconds: viper.GetInt("FEED_TIMEOUT_SECONDS"),
			},
			Database: DatabaseConfig{
				Enabled:  viper.GetBool("DB_ENABLED"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				ViewTTLSeconds: viper.GetInt("CACHE_VIEW_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
			},
			Drive: DriveConfig{
				Enabled:         viper.GetBool("DRIVE_ENABLED"),
				CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
				FileID:          viper.GetString("DRIVE_FILE_ID"),
				PollSeconds:     viper.GetInt("DRIVE_POLL_SECONDS"),
			},
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("OPENAI_API_KEY"),
				Model:  viper.GetString("OPENAI_MODEL"),
			},
			Refresh: RefreshConfig{
				Spec: viper.GetString("REFRESH_CRON"),
			},
		}

		applyFeedDefaults(&instance.Feeds)
	})

	return instance
}

// applyFeedDefaults derives the gviz URLs from the sheet ids when no
// explicit override is set.
func applyFeedDefaults(f *FeedsConfig) {
	base := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq", f.SheetID)
	if f.LiveURL == "" {
		f.LiveURL = base + "?sheet=Live&tq=SELECT%20*"
	}
	if f.MasterURL == "" {
		f.MasterURL = base + "?sheet=MASTER"
	}
	if f.TrackingURL == "" {
		f.TrackingURL = base + "?gid=2023445010&range=A2:M&tq=SELECT%20*"
	}
	if f.CredentialsURL == "" {
		f.CredentialsURL = base + "?gid=817322209"
	}
	if f.AccountURL == "" {
		f.AccountURL = fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?gid=596654536", f.AccountSheetID)
	}
}
