package web

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ServerConfig は http.Server のタイムアウト設定です。
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server は http.Server を包み、起動と停止をまとめたものです。
type Server struct {
	server *http.Server
}

// NewServer は設定済みの Server を作ります。
// 生成には時間がかかるので WriteTimeout は長めに設定してください。
func NewServer(cfg ServerConfig, handler http.Handler) *Server {
	return &Server{server: &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}}
}

// Addr は待ち受けアドレスを返します。
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start は現在の goroutine でサーバーを起動します。Shutdown による停止はエラーにしません。
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown は処理中のリクエストを待ってから停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
