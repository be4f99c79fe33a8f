package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Scoring  ScoringConfig
	Rankings RankingsConfig
	Content  ContentConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ScoringConfig holds the per-status point table consumed by the default
// delta strategy. Values are the points a status contributes while it is in
// effect; the strategy scores transitions between statuses, so changing a
// value here only affects events applied after the change.
type ScoringConfig struct {
	AttendPoints             int
	AbsentPoints             int
	HomeworkDonePoints       int
	HomeworkIncompletePoints int
	HomeworkMissingPoints    int
}

// RankingsConfig governs rank snapshot caching and leaderboard sizing.
type RankingsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	MaxPageSize  int
}

// ContentConfig governs eligible-content caching.
type ContentConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportConfig toggles the leaderboard export endpoint.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scoring = ScoringConfig{
		AttendPoints:             v.GetInt("SCORING_ATTEND_POINTS"),
		AbsentPoints:             v.GetInt("SCORING_ABSENT_POINTS"),
		HomeworkDonePoints:       v.GetInt("SCORING_HOMEWORK_DONE_POINTS"),
		HomeworkIncompletePoints: v.GetInt("SCORING_HOMEWORK_INCOMPLETE_POINTS"),
		HomeworkMissingPoints:    v.GetInt("SCORING_HOMEWORK_MISSING_POINTS"),
	}

	cfg.Rankings = RankingsConfig{
		CacheEnabled: v.GetBool("RANKINGS_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("RANKINGS_CACHE_TTL"), 2*time.Minute),
		MaxPageSize:  v.GetInt("RANKINGS_MAX_PAGE_SIZE"),
	}

	cfg.Content = ContentConfig{
		CacheEnabled: v.GetBool("CONTENT_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CONTENT_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_RANKINGS_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCORING_ATTEND_POINTS", 10)
	v.SetDefault("SCORING_ABSENT_POINTS", -5)
	v.SetDefault("SCORING_HOMEWORK_DONE_POINTS", 10)
	v.SetDefault("SCORING_HOMEWORK_INCOMPLETE_POINTS", 3)
	v.SetDefault("SCORING_HOMEWORK_MISSING_POINTS", -5)

	v.SetDefault("RANKINGS_CACHE_ENABLED", true)
	v.SetDefault("RANKINGS_CACHE_TTL", "2m")
	v.SetDefault("RANKINGS_MAX_PAGE_SIZE", 200)

	v.SetDefault("CONTENT_CACHE_ENABLED", true)
	v.SetDefault("CONTENT_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_RANKINGS_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
