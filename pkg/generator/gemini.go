package generator

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
)

var _ ImageEditor = (*GeminiEditor)(nil)

// EditImage は画像とプロンプトを Gemini に送り、最初に見つかった画像パーツを返します。
// 通信や API のエラーは詳細をログに残し、利用者には ErrGenerationFailed だけを返すのだ。
func (e *GeminiEditor) EditImage(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error) {
	if e == nil || e.models == nil {
		return nil, ErrMissingCredential
	}
	return e.Edit(ctx, e.request(img, prompt))
}

// Edit は ImageEditRequest のシードとアスペクト比を使って1回だけ生成を行います。
func (e *GeminiEditor) Edit(ctx context.Context, req domain.ImageEditRequest) (*domain.GeneratedImage, error) {
	if e == nil || e.models == nil {
		return nil, ErrMissingCredential
	}
	img, prompt := req.Image, req.Prompt

	contents, err := e.buildContents(img, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "リクエストの組み立てに失敗しました", "error", err)
		return nil, ErrGenerationFailed
	}

	slog.InfoContext(ctx, "Geminiに画像編集をリクエストします",
		"model", e.opts.Model, "mime_type", img.MimeType, "prompt_len", len(prompt))

	resp, err := e.models.GenerateContent(ctx, e.opts.Model, contents, buildConfig(req))
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API の呼び出しに失敗しました", "model", e.opts.Model, "error", err)
		return nil, ErrGenerationFailed
	}

	part := firstImagePart(responseParts(resp))
	if part == nil {
		// 画像が返らなかったのはエラーではなく「結果なし」として扱う
		slog.WarnContext(ctx, "レスポンスに画像パーツが含まれていませんでした", "model", e.opts.Model)
		return nil, nil
	}

	return &domain.GeneratedImage{
		Base64:   base64.StdEncoding.EncodeToString(part.InlineData.Data),
		MimeType: part.InlineData.MIMEType,
	}, nil
}
