package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-mockup-studio/pkg/config"
)

var (
	// flags
	verbose bool
	model   string
	envFile string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "mockup",
	Short:         "Gemini で画像を編集してモックアップを作るツール",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		if model != "" {
			cfg.Model = model
		}
		logger = newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat, verbose)
		slog.SetDefault(slog.New(logger))
		return nil
	},
}

// Execute はルートコマンドを実行します。main から一度だけ呼ばれるのだ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = newLogger(os.Stderr, "info", "text", false)
		}
		logger.Error("コマンドの実行に失敗しました", "err", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Gemini model (overrides GEMINI_MODEL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file")
	rootCmd.MarkPersistentFlagFilename("env-file")
}

// newLogger は slog のハンドラとして使う charm ロガーを作ります。
func newLogger(w io.Writer, level, format string, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}

	formatter := log.TextFormatter
	if strings.EqualFold(format, "json") {
		formatter = log.JSONFormatter
	}

	l := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       formatter,
	})

	styles := log.DefaultStyles()
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR!!").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("204")).
		Foreground(lipgloss.Color("0"))
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	l.SetStyles(styles)
	return l
}

func requireAPIKey() error {
	if err := cfg.RequireAPIKey(); err != nil {
		return fmt.Errorf("%w: set it in the environment or pass --env-file", err)
	}
	return nil
}
