package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shouni/gemini-mockup-studio/pkg/session"
)

// DefaultMaxUploadBytes はアップロードの上限サイズのデフォルト値です。
const DefaultMaxUploadBytes int64 = 20 << 20

// Handler はブラウザ向けのHTTPハンドラ群なのだ。
type Handler struct {
	sessions  *session.Store
	maxUpload int64
}

// NewHandler は Store を注入して Handler を初期化します。maxUpload が 0 以下ならデフォルト値を使います。
func NewHandler(sessions *session.Store, maxUpload int64) (*Handler, error) {
	if sessions == nil {
		return nil, fmt.Errorf("sessions (*session.Store) is required")
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Handler{sessions: sessions, maxUpload: maxUpload}, nil
}

// NewRouter はルーティングとミドルウェアを組み立てます。
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Get("/", h.Index)
	r.Post("/image", h.UploadImage)
	r.Post("/prompt", h.UpdatePrompt)
	r.Post("/preset/{index}", h.ApplyPreset)
	r.Post("/generate", h.Generate)
	r.Get("/download", h.Download)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.State)
	})

	return r
}

// requestLogger はリクエストごとに1行の構造化ログを出力します。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		slog.InfoContext(r.Context(), "HTTPリクエスト",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
