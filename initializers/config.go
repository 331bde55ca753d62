package initializers

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	APIBaseURL     string
	SocketURL      string
	StorageDriver  string
	StorageDSN     string
	RedisAddr      string
	RedisPassword  string
	StaffPinHash   string
	RestaurantID   string
	RequestTimeout time.Duration
	ProbeInterval  time.Duration
	CacheStaleTime time.Duration
	NotifyCapacity int
	AllowedOrigins []string
}

func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "production"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		SocketURL:      getEnv("SOCKET_URL", "ws://localhost:5000/ws"),
		StorageDriver:  getEnv("STORAGE_DRIVER", "sqlite"),
		StorageDSN:     getEnv("STORAGE_DSN", "tablefy.db"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		StaffPinHash:   os.Getenv("STAFF_PIN_HASH"),
		RestaurantID:   os.Getenv("RESTAURANT_ID"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		ProbeInterval:  getDuration("PROBE_INTERVAL", 10*time.Second),
		CacheStaleTime: getDuration("CACHE_STALE_TIME", 0),
		NotifyCapacity: getInt("NOTIFY_CAPACITY", 50),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
