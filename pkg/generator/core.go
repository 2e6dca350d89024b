package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEditor は Gemini の generateContent を1回呼び出して画像を編集するクライアントです。
type GeminiEditor struct {
	models ContentGenerator
	opts   Options
}

// NewGeminiEditor は依存関係を注入して GeminiEditor を初期化します。
func NewGeminiEditor(models ContentGenerator, opts Options) (*GeminiEditor, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.CompressQuality <= 0 {
		opts.CompressQuality = ImageCompressionQuality
	}

	return &GeminiEditor{
		models: models,
		opts:   opts,
	}, nil
}

// NewClient は API キーから genai クライアントを作り、GeminiEditor を返します。
// API キーがない場合は通信を始める前に ErrMissingCredential を返します。
func NewClient(ctx context.Context, cfg Config) (*GeminiEditor, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの作成に失敗しました: %w", err)
	}
	return NewGeminiEditor(client.Models, cfg.Options)
}

// Model は使用するモデル名を返します。
func (e *GeminiEditor) Model() string {
	return e.opts.Model
}
