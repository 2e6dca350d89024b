package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-mockup-studio/pkg/generator"
)

// ErrMissingAPIKey は GEMINI_API_KEY も API_KEY も設定されていない場合に返されます。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) is required")

// Config は環境変数から読み込むアプリケーション設定です。
type Config struct {
	APIKey           string
	Model            string
	Addr             string
	LogLevel         string
	LogFormat        string
	SessionTTL       time.Duration
	MaxUploadBytes   int64
	GeminiTimeout    time.Duration
	CompressUploads  bool
	SecureCookie     bool
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// Load は .env ファイル(任意)と環境変数から設定を読み込みます。
// envFile が空ならカレントディレクトリの .env を探し、無ければ無視します。
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("env ファイルの読み込みに失敗しました (%s): %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		APIKey:           getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		Model:            getEnv("GEMINI_MODEL", generator.DefaultModel),
		Addr:             getEnv("ADDR", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		SessionTTL:       time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		GeminiTimeout:    time.Second * time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 0)),
		CompressUploads:  getEnvBool("COMPRESS_UPLOADS", false),
		SecureCookie:     getEnvBool("SECURE_COOKIE", false),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
	return cfg, nil
}

// RequireAPIKey は API キーが設定されているかを確認します。
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// GeneratorConfig は生成クライアント用の設定に変換します。
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		APIKey:  c.APIKey,
		Timeout: c.GeminiTimeout,
		Options: generator.Options{
			Model:           c.Model,
			CompressUploads: c.CompressUploads,
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
