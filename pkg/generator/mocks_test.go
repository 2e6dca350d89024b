package generator

import (
	"context"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockModels は ContentGenerator のテスト用モックなのだ。
type mockModels struct {
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

	calls      int
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	lastParts  []*genai.Part
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastConfig = config
	if len(contents) > 0 && contents[0] != nil {
		m.lastParts = contents[0].Parts
	}
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, config)
	}
	return nil, nil
}

// responseWith は指定したパーツを持つ候補1つのレスポンスを作るヘルパーなのだ。
func responseWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}
