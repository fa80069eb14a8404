package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// storage
	StorageBackend string // "file", "sqlite" or "redis"
	DataDir        string
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	JWTSecret string

	// Simulated remote latency for login/signup. Zero means immediate.
	AuthLatency time.Duration

	// Gemini
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	AllowedOrigins []string
}

func Load() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	if backend == "" {
		backend = "file"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join(dataDir, "geminiclone.db")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	var authLatency time.Duration
	if v := os.Getenv("AUTH_LATENCY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			authLatency = d
		}
	}

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com/v1"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-pro-002"
	}

	origins := []string{"http://localhost:5173"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		Addr: addr,

		StorageBackend: backend,
		DataDir:        dataDir,
		SQLitePath:     sqlitePath,
		RedisAddr:      redisAddr,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,

		JWTSecret: secret,

		AuthLatency: authLatency,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: geminiBaseURL,
		GeminiModel:   geminiModel,

		AllowedOrigins: origins,
	}
}
