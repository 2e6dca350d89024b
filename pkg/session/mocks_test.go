package session

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/editor"
)

// --- Mocks ---

// mockCache は Cacher インターフェースを実装するのだ。
type mockCache struct {
	mu      sync.Mutex
	data    map[string]interface{}
	lastTTL time.Duration
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (m *mockCache) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value interface{}, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.lastTTL = d
	m.sets++
}

func (m *mockCache) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type nopEditor struct{}

func (nopEditor) EditImage(context.Context, domain.UploadedImage, string) (*domain.GeneratedImage, error) {
	return nil, nil
}

func newFactory() Factory {
	return func() (*editor.Controller, error) { return editor.New(nopEditor{}) }
}
