package generator

import (
	"encoding/base64"
	"fmt"
	"iter"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/imgutil"
	"google.golang.org/genai"
)

// buildContents は画像パーツとテキストパーツを1つのユーザーコンテンツにまとめます。
func (e *GeminiEditor) buildContents(img domain.UploadedImage, prompt string) ([]*genai.Content, error) {
	data, err := base64.StdEncoding.DecodeString(imgutil.StripDataURIPrefix(img.Data))
	if err != nil {
		return nil, fmt.Errorf("画像データのbase64デコードに失敗しました: %w", err)
	}

	mimeType := img.MimeType
	if e.opts.CompressUploads {
		data, mimeType = imgutil.ShrinkForUpload(data, mimeType, e.opts.CompressQuality)
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		{Text: prompt},
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// request は Options の既定値で ImageEditRequest を組み立てます。
func (e *GeminiEditor) request(img domain.UploadedImage, prompt string) domain.ImageEditRequest {
	return domain.ImageEditRequest{
		Image:       img,
		Prompt:      prompt,
		AspectRatio: e.opts.AspectRatio,
		Seed:        e.opts.Seed,
	}
}

func buildConfig(req domain.ImageEditRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
		Seed:               seedToPtrInt32(req.Seed),
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	return cfg
}

// responseParts は最初の候補 (Candidate) のパーツを先頭から順に返します。
// 2件目以降の候補は見ません。
func responseParts(resp *genai.GenerateContentResponse) iter.Seq[*genai.Part] {
	return func(yield func(*genai.Part) bool) {
		if resp == nil || len(resp.Candidates) == 0 {
			return
		}
		candidate := resp.Candidates[0]
		if candidate == nil || candidate.Content == nil {
			return
		}
		for _, part := range candidate.Content.Parts {
			if !yield(part) {
				return
			}
		}
	}
}

// firstImagePart はインラインの画像データを持つ最初のパーツを返します。見つからなければ nil です。
func firstImagePart(parts iter.Seq[*genai.Part]) *genai.Part {
	for part := range parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part
		}
	}
	return nil
}
