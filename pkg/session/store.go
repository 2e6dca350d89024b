package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
)

// CookieName はセッションIDを保持するクッキー名です。
const CookieName = "mockup_session"

// DefaultTTL は最後のアクセスからセッションを保持する時間です。
const DefaultTTL = 60 * time.Minute

// Cacher はセッションのキャッシュ操作を抽象化するインターフェースです。
type Cacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, d time.Duration)
	ItemCount() int
}

// Factory は新しいセッション用の Controller を作ります。
type Factory func() (*editor.Controller, error)

// Store はブラウザごとの Controller をメモリ上に保持するのだ。
type Store struct {
	cache   Cacher
	factory Factory
	ttl     time.Duration
	secure  bool
}

// Option は Store の設定を変更します。
type Option func(*Store)

// WithCache はキャッシュ実装を差し替えます。
func WithCache(c Cacher) Option {
	return func(s *Store) { s.cache = c }
}

// WithSecureCookie は Secure 属性付きのクッキーを発行します。
func WithSecureCookie(secure bool) Option {
	return func(s *Store) { s.secure = secure }
}

// NewStore は Factory を注入して Store を初期化します。ttl が 0 以下なら DefaultTTL を使います。
func NewStore(factory Factory, ttl time.Duration, opts ...Option) (*Store, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory (session.Factory) is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{factory: factory, ttl: ttl}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New(ttl, ttl/2)
	}
	return s, nil
}

// Resolve はリクエストのクッキーから Controller を取り出します。
// 見つからない場合は新しいセッションを作り、クッキーを発行します。
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) (*editor.Controller, error) {
	ctx := r.Context()

	if c, err := r.Cookie(CookieName); err == nil {
		if ctrl, ok := s.lookup(ctx, c.Value); ok {
			return ctrl, nil
		}
	} else if !errors.Is(err, http.ErrNoCookie) {
		slog.WarnContext(ctx, "セッションクッキーを読めませんでした", "error", err)
	}

	id, ctrl, err := s.create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.DebugContext(ctx, "新しいセッションを作成しました", "session_id", id)
	return ctrl, nil
}

// Len は保持しているセッション数を返します。期限切れで未掃除のものも含みます。
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) lookup(ctx context.Context, id string) (*editor.Controller, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	cached, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	ctrl, ok := cached.(*editor.Controller)
	if !ok {
		slog.WarnContext(ctx, "キャッシュデータが不正な型です", "session_id", id, "type", fmt.Sprintf("%T", cached))
		return nil, false
	}
	// アクセスのたびに期限を延ばす
	s.cache.Set(id, ctrl, s.ttl)
	return ctrl, true
}

func (s *Store) create() (string, *editor.Controller, error) {
	ctrl, err := s.factory()
	if err != nil {
		return "", nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	id := uuid.NewString()
	s.cache.Set(id, ctrl, s.ttl)
	return id, ctrl, nil
}
