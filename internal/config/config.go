package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
)

// PlaceholderStoreDSN is the inert endpoint used when STORE_URL is absent
// or malformed. Connecting stays lazy, so startup succeeds and queries
// against the placeholder simply fail at call time.
const PlaceholderStoreDSN = "postgres://placeholder@127.0.0.1:5432/placeholder?sslmode=disable"

type StoreConfig struct {
	// URL is a postgres:// DSN. Guaranteed well-formed by Load.
	URL string

	// AccessKey is injected as the DSN password when the URL carries none.
	AccessKey string
}

// DSN builds the effective connection string for the store.
func (c StoreConfig) DSN() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return PlaceholderStoreDSN
	}

	if c.AccessKey != "" {
		if _, hasPassword := u.User.Password(); !hasPassword {
			name := u.User.Username()
			if name == "" {
				name = "postgres"
			}
			u.User = url.UserPassword(name, c.AccessKey)
		}
	}

	return u.String()
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
}

type AppConfig struct {
	Port  string
	Store StoreConfig

	// Redis backs the login rate limiter; an empty Addr disables it.
	Redis RedisConfig

	// ExportBackend selects where generated schedule files go: "local" or "s3".
	ExportBackend     string
	ExportDir         string
	FilesPublicPrefix string
	ExternalURL       string
	S3                S3Config
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

func loadStore() StoreConfig {
	raw := os.Getenv("STORE_URL")
	if !validStoreURL(raw) {
		log.Printf("STORE_URL absent or malformed, falling back to placeholder endpoint")
		raw = PlaceholderStoreDSN
	}
	return StoreConfig{
		URL:       raw,
		AccessKey: os.Getenv("STORE_KEY"),
	}
}

func validStoreURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return false
	}
	return u.Host != ""
}

func Load() AppConfig {
	return AppConfig{
		Port:  getenv("APP_PORT", "8020"),
		Store: loadStore(),
		Redis: RedisConfig{
			Addr:        os.Getenv("REDIS_ADDR"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "angsuran_portal"),
		},
		ExportBackend:     getenv("EXPORT_BACKEND", "local"),
		ExportDir:         getenv("EXPORT_DIR", "./exports"),
		FilesPublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
		ExternalURL:       os.Getenv("EXTERNAL_URL"),
		S3: S3Config{
			Endpoint:        getenv("S3_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "schedules"),
			Region:          getenv("S3_REGION", "us-east-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
			Prefix:          getenv("S3_PREFIX", ""),
		},
	}
}
