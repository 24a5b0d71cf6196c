package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds all runtime configuration for the gallery service.
// Secrets should come from the environment or config/config.json, never from code.
type AppConfig struct {
	AppPort         string
	SessionSecret   string
	AdminPassword   string
	SessionTTLHours int

	RateLimitPerMinute int
	AllowedOrigins     []string

	// Gin framework configuration
	GinMode string
	GinPath string

	// Database: sqlite by default, mysql when DBDriver/DatabaseURI say so
	DBDriver    string
	SQLitePath  string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis for caching / session blacklist / login counters
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Upload pipeline
	MaxUploadMB     int
	UploadDirWeb    string
	UploadDirThumbs string
	WebMaxSide      int
	WebQuality      int
	ThumbMaxSide    int
	ThumbQuality    int
	Timezone        string
	DefaultTitle    string

	// Orphaned artifact sweeping
	OrphanSweepEnabled bool
	OrphanSweepMinutes int

	// Login hardening
	LoginCaptchaAfterFails     int
	LoginFailedMaxPerIPPerHour int
	LoginTempBanMinutes        int

	// Site presentation
	SiteTitle      string
	SiteNoticeHTML string
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot.
// Precedence: config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)

	applyDefaults(&cfg)

	applyEnvOverrides(&cfg)

	if cfg.SessionSecret == "dev-secret-change-me" {
		log.Println("warning: SESSION_SECRET is using the built-in development value")
	}
	if cfg.AdminPassword == "123456" {
		log.Println("warning: ADMIN_PASSWORD is using the default value, change it")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.SessionSecret = getString(app, "SessionSecret")
		out.AdminPassword = getString(app, "AdminPassword")
		if v := getInt(app, "SessionTTLHours"); v != 0 {
			out.SessionTTLHours = v
		}
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		if v := getString(g, "Mode"); v != "" {
			out.GinMode = v
		}
		if v := getString(g, "LogPath"); v != "" {
			out.GinPath = v
		}
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "DBDriver")
		out.SQLitePath = getString(dbs, "SQLitePath")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getString(lg, "GinMode"); v != "" {
			out.GinMode = v
		}
		if v := getString(lg, "GinPath"); v != "" {
			out.GinPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	if up, ok := raw["uploads"].(map[string]any); ok {
		if v := getInt(up, "MaxUploadMB"); v != 0 {
			out.MaxUploadMB = v
		}
		if v := getString(up, "DirWeb"); v != "" {
			out.UploadDirWeb = v
		}
		if v := getString(up, "DirThumbs"); v != "" {
			out.UploadDirThumbs = v
		}
		if v := getInt(up, "WebMaxSide"); v != 0 {
			out.WebMaxSide = v
		}
		if v := getInt(up, "WebQuality"); v != 0 {
			out.WebQuality = v
		}
		if v := getInt(up, "ThumbMaxSide"); v != 0 {
			out.ThumbMaxSide = v
		}
		if v := getInt(up, "ThumbQuality"); v != 0 {
			out.ThumbQuality = v
		}
		if v := getString(up, "Timezone"); v != "" {
			out.Timezone = v
		}
		if v := getString(up, "DefaultTitle"); v != "" {
			out.DefaultTitle = v
		}
		out.OrphanSweepEnabled = getBool(up, "OrphanSweepEnabled")
		if v := getInt(up, "OrphanSweepMinutes"); v != 0 {
			out.OrphanSweepMinutes = v
		}
	}

	if lo, ok := raw["login"].(map[string]any); ok {
		if v := getInt(lo, "CaptchaAfterFails"); v != 0 {
			out.LoginCaptchaAfterFails = v
		}
		if v := getInt(lo, "FailedMaxPerIPPerHour"); v != 0 {
			out.LoginFailedMaxPerIPPerHour = v
		}
		if v := getInt(lo, "TempBanMinutes"); v != 0 {
			out.LoginTempBanMinutes = v
		}
	}

	if st, ok := raw["site"].(map[string]any); ok {
		if v := getString(st, "Title"); v != "" {
			out.SiteTitle = v
		}
		if v := getString(st, "NoticeHTML"); v != "" {
			out.SiteNoticeHTML = v
		}
	}

	// Flat keys for backward compatibility with hand-written config files
	if v, ok := raw["AppPort"]; ok && out.AppPort == "" {
		out.AppPort, _ = v.(string)
	}
	if v, ok := raw["SessionSecret"]; ok && out.SessionSecret == "" {
		out.SessionSecret, _ = v.(string)
	}
	if v, ok := raw["AdminPassword"]; ok && out.AdminPassword == "" {
		out.AdminPassword, _ = v.(string)
	}
	if v, ok := raw["DatabaseURI"]; ok && out.DatabaseURI == "" {
		out.DatabaseURI, _ = v.(string)
	}
	if v, ok := raw["SQLitePath"]; ok && out.SQLitePath == "" {
		out.SQLitePath, _ = v.(string)
	}
	if v, ok := raw["GinMode"]; ok && out.GinMode == "" {
		if s, ok := v.(string); ok {
			out.GinMode = s
		}
	}
	if v, ok := raw["Timezone"]; ok && out.Timezone == "" {
		if s, ok := v.(string); ok {
			out.Timezone = s
		}
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields. The image pipeline
// defaults mirror the sizes the gallery was first deployed with.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-secret-change-me"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "123456"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 72
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "gallery.db"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "gallery"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 20
	}
	if c.UploadDirWeb == "" {
		c.UploadDirWeb = filepath.Join("static", "uploads", "web")
	}
	if c.UploadDirThumbs == "" {
		c.UploadDirThumbs = filepath.Join("static", "uploads", "thumbs")
	}
	if c.WebMaxSide == 0 {
		c.WebMaxSide = 2000
	}
	if c.WebQuality == 0 {
		c.WebQuality = 85
	}
	if c.ThumbMaxSide == 0 {
		c.ThumbMaxSide = 700
	}
	if c.ThumbQuality == 0 {
		c.ThumbQuality = 80
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Tokyo"
	}
	if c.DefaultTitle == "" {
		c.DefaultTitle = "未命名"
	}
	if c.OrphanSweepMinutes == 0 {
		c.OrphanSweepMinutes = 60
	}
	if c.LoginCaptchaAfterFails == 0 {
		c.LoginCaptchaAfterFails = 3
	}
	if c.LoginFailedMaxPerIPPerHour == 0 {
		c.LoginFailedMaxPerIPPerHour = 20
	}
	if c.LoginTempBanMinutes == 0 {
		c.LoginTempBanMinutes = 60
	}
	if c.SiteTitle == "" {
		c.SiteTitle = "相册"
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("SESSION_SECRET", ""); v != "" {
		c.SessionSecret = v
	}
	if v := getEnv("ADMIN_PASSWORD", ""); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("SESSION_TTL_HOURS", ""); v != "" {
		c.SessionTTLHours = mustParseInt(v)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	if v := getEnv("MAX_UPLOAD_MB", ""); v != "" {
		c.MaxUploadMB = mustParseInt(v)
	}
	if v := getEnv("UPLOAD_DIR_WEB", ""); v != "" {
		c.UploadDirWeb = v
	}
	if v := getEnv("UPLOAD_DIR_THUMBS", ""); v != "" {
		c.UploadDirThumbs = v
	}
	if v := getEnv("WEB_MAX_SIDE", ""); v != "" {
		c.WebMaxSide = mustParseInt(v)
	}
	if v := getEnv("WEB_QUALITY", ""); v != "" {
		c.WebQuality = mustParseInt(v)
	}
	if v := getEnv("THUMB_MAX_SIDE", ""); v != "" {
		c.ThumbMaxSide = mustParseInt(v)
	}
	if v := getEnv("THUMB_QUALITY", ""); v != "" {
		c.ThumbQuality = mustParseInt(v)
	}
	if v := getEnv("TIMEZONE", ""); v != "" {
		c.Timezone = v
	}
	if v := getEnv("DEFAULT_TITLE", ""); v != "" {
		c.DefaultTitle = v
	}
	if v := getEnv("ORPHAN_SWEEP_ENABLED", ""); v != "" {
		c.OrphanSweepEnabled = v == "true"
	}
	if v := getEnv("ORPHAN_SWEEP_MINUTES", ""); v != "" {
		c.OrphanSweepMinutes = mustParseInt(v)
	}
	if v := getEnv("LOGIN_CAPTCHA_AFTER_FAILS", ""); v != "" {
		c.LoginCaptchaAfterFails = mustParseInt(v)
	}
	if v := getEnv("LOGIN_FAILED_MAX_PER_IP_PER_HOUR", ""); v != "" {
		c.LoginFailedMaxPerIPPerHour = mustParseInt(v)
	}
	if v := getEnv("LOGIN_TEMP_BAN_MINUTES", ""); v != "" {
		c.LoginTempBanMinutes = mustParseInt(v)
	}
	if v := getEnv("SITE_TITLE", ""); v != "" {
		c.SiteTitle = v
	}
	if v := getEnv("SITE_NOTICE_HTML", ""); v != "" {
		c.SiteNoticeHTML = v
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
