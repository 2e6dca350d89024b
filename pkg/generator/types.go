package generator

import (
	"errors"
	"time"
)

const (
	DefaultModel            = "gemini-2.5-flash-image"
	ImageCompressionQuality = 75
)

// GenerationFailedMessage はユーザーに見せてよい固定のエラーメッセージです。
const GenerationFailedMessage = "Failed to generate image. Please check your prompt and API key."

var (
	// ErrMissingCredential は API キーが設定されていない場合の設定エラーです。リトライしても解決しません。
	ErrMissingCredential = errors.New("API key is not configured")
	// ErrGenerationFailed は通信・API 側の失敗をまとめた汎用エラーです。
	ErrGenerationFailed = errors.New(GenerationFailedMessage)
)

// Config は genai クライアントを組み立てるための設定です。
type Config struct {
	APIKey  string
	// Timeout が 0 の場合はトランスポートの既定値に任せる
	Timeout time.Duration
	Options Options
}

// Options はリクエストごとの生成オプションです。
type Options struct {
	Model           string
	AspectRatio     string
	Seed            *int64
	CompressUploads bool
	CompressQuality int
}
