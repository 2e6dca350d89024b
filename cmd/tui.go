package cmd

import (
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-mockup-studio/pkg/generator"
	"github.com/shouni/gemini-mockup-studio/pkg/tui"
)

var (
	tuiImagePath string
	tuiOutputDir string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "端末上で画像を編集します",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAPIKey(); err != nil {
			return err
		}

		ed, err := generator.NewClient(cmd.Context(), cfg.GeneratorConfig())
		if err != nil {
			return err
		}
		ctrl, err := loadController(ed, tuiImagePath)
		if err != nil {
			return err
		}

		// 画面が崩れるので実行中のログは端末に出さない
		var sink io.Writer = io.Discard
		if verbose {
			f, err := os.OpenFile("mockup-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			sink = f
		}
		logger.SetOutput(sink)
		defer logger.SetOutput(os.Stderr)

		m, err := tui.New(ctrl, tui.Options{
			ImageLabel: filepath.Base(tuiImagePath),
			OutputDir:  tuiOutputDir,
		})
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiImagePath, "image", "i", "", "Input image")
	tuiCmd.Flags().StringVarP(&tuiOutputDir, "out", "o", ".", "Output folder")
	_ = tuiCmd.MarkFlagRequired("image")
	tuiCmd.MarkFlagFilename("image")
	tuiCmd.MarkFlagDirname("out")
	rootCmd.AddCommand(tuiCmd)
}
