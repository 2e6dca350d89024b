package generator

import (
	"context"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"google.golang.org/genai"
)

// ImageEditor はアプリケーション層が利用する画像編集の窓口です。
type ImageEditor interface {
	// EditImage は画像1枚とプロンプトで1回だけ生成を行います。
	// モデルが画像を返さなかった場合は (nil, nil) を返します。
	EditImage(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error)
}

// ContentGenerator は genai.Models のうち、このパッケージが使うメソッドだけを抜き出したものです。
// *genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
