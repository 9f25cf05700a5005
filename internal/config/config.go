package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DummyOddsAPIKey is used when ODDS_API_KEY is unset so the service still boots in development
const DummyOddsAPIKey = "DUMMY_KEY"

// DefaultSports is the sport allow-list used when SCAN_SPORTS is unset
var DefaultSports = []string{
	"americanfootball_nfl",
	"basketball_nba",
	"baseball_mlb",
	"icehockey_nhl",
	"soccer_epl",
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
	Env         string
}

// OddsAPIConfig holds upstream client configuration
type OddsAPIConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// RedisConfig holds Redis connection configuration. An empty URL keeps everything in memory.
type RedisConfig struct {
	URL string
}

// AuthConfig holds API key and signed-request configuration
type AuthConfig struct {
	APIKey          string
	HMACSecret      string
	NonceWindow     time.Duration
	NonceMaxEntries int
}

// ScanConfig holds scanner defaults
type ScanConfig struct {
	Sports       []string
	ArbBaseStake float64
}

// WarmerConfig holds the cache warm-up schedule
type WarmerConfig struct {
	Spec    string
	Sports  []string
	Markets string
	Regions string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OddsAPI OddsAPIConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Scan    ScanConfig
	Warmer  WarmerConfig
	Log     LogConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	sports := getEnvStringSlice("SCAN_SPORTS", DefaultSports)

	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":4000"),
			CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:4000"}),
			Env:         getEnv("APP_ENV", "development"),
		},
		OddsAPI: OddsAPIConfig{
			BaseURL:     getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4"),
			APIKey:      getEnv("ODDS_API_KEY", DummyOddsAPIKey),
			Timeout:     time.Duration(getEnvInt("ODDS_API_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxAttempts: getEnvInt("ODDS_API_MAX_ATTEMPTS", 3),
			RetryDelay:  time.Duration(getEnvInt("ODDS_API_RETRY_DELAY_MS", 250)) * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL:        time.Duration(getEnvInt("CACHE_TTL_MS", 15000)) * time.Millisecond,
			MaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 200),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Auth: AuthConfig{
			APIKey:          getEnv("SCANNER_API_KEY", ""),
			HMACSecret:      getEnv("HMAC_SECRET", ""),
			NonceWindow:     time.Duration(getEnvInt("NONCE_WINDOW_SECONDS", 300)) * time.Second,
			NonceMaxEntries: getEnvInt("NONCE_MAX_ENTRIES", 10000),
		},
		Scan: ScanConfig{
			Sports:       sports,
			ArbBaseStake: getEnvFloat("ARB_BASE_STAKE", 100),
		},
		Warmer: WarmerConfig{
			Spec:    getEnv("CACHE_WARM_SPEC", ""),
			Sports:  getEnvStringSlice("CACHE_WARM_SPORTS", sports),
			Markets: getEnv("CACHE_WARM_MARKETS", "h2h,spreads,totals"),
			Regions: getEnv("CACHE_WARM_REGIONS", "us"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// UsingDummyOddsAPIKey reports whether upstream calls will fail for lack of a real key
func (c *Config) UsingDummyOddsAPIKey() bool {
	return c.OddsAPI.APIKey == DummyOddsAPIKey
}

// SportAllowed reports whether sport is on the scan allow-list
func (sc *ScanConfig) SportAllowed(sport string) bool {
	for _, allowed := range sc.Sports {
		if allowed == sport {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvStringSlice splits a comma list, dropping blanks
func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
