package editor

import (
	"context"
	"sync/atomic"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
)

// --- Mocks ---

// mockEditor は generator.ImageEditor のテスト用モックなのだ。
type mockEditor struct {
	editFunc func(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error)

	calls      atomic.Int32
	lastImage  domain.UploadedImage
	lastPrompt string
}

func (m *mockEditor) EditImage(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error) {
	m.calls.Add(1)
	m.lastImage = img
	m.lastPrompt = prompt
	if m.editFunc != nil {
		return m.editFunc(ctx, img, prompt)
	}
	return nil, nil
}

func returning(res *domain.GeneratedImage, err error) *mockEditor {
	return &mockEditor{
		editFunc: func(context.Context, domain.UploadedImage, string) (*domain.GeneratedImage, error) {
			return res, err
		},
	}
}

var sampleImage = &domain.UploadedImage{
	Data:     "data:image/png;base64,iVBORw0KGgo=",
	MimeType: "image/png",
}
