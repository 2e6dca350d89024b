package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
	"github.com/shouni/gemini-mockup-studio/pkg/generator"
	"github.com/shouni/gemini-mockup-studio/pkg/session"
	"github.com/shouni/gemini-mockup-studio/pkg/web"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "ブラウザ向けのモックアップ画面を起動します",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAPIKey(); err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 全セッションで1つのクライアントを共有する
		ed, err := generator.NewClient(ctx, cfg.GeneratorConfig())
		if err != nil {
			return err
		}

		store, err := session.NewStore(
			func() (*editor.Controller, error) { return editor.New(ed) },
			cfg.SessionTTL,
			session.WithSecureCookie(cfg.SecureCookie),
		)
		if err != nil {
			return err
		}
		h, err := web.NewHandler(store, cfg.MaxUploadBytes)
		if err != nil {
			return err
		}

		srv := web.NewServer(web.ServerConfig{
			Addr:         cfg.Addr,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  cfg.HTTPIdleTimeout,
		}, web.NewRouter(h))

		errCh := make(chan error, 1)
		go func() {
			logger.Info("サーバーを起動しました", "addr", srv.Addr(), "model", ed.Model())
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPWriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("サーバーの停止に失敗しました", "err", err)
			return err
		}
		logger.Info("サーバーを停止しました")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides ADDR)")
	rootCmd.AddCommand(serveCmd)
}
