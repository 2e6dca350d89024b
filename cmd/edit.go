package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
	"github.com/shouni/gemini-mockup-studio/pkg/generator"
	"github.com/shouni/gemini-mockup-studio/pkg/imgutil"
)

var (
	imagePath   string
	editPrompt  string
	outputDir   string
	aspectRatio string
	seed        int64
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "画像を1回だけ編集して generated-mockup.<ext> に保存します",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAPIKey(); err != nil {
			return err
		}
		ctx := cmd.Context()

		gc := cfg.GeneratorConfig()
		gc.Options.AspectRatio = aspectRatio
		if cmd.Flags().Changed("seed") {
			gc.Options.Seed = &seed
		}
		ed, err := generator.NewClient(ctx, gc)
		if err != nil {
			return err
		}
		ctrl, err := loadController(ed, imagePath)
		if err != nil {
			return err
		}
		ctrl.SetPrompt(editPrompt)

		if err := ctrl.Generate(ctx); err != nil {
			return err
		}
		if s := ctrl.Snapshot(); s.Error != "" {
			return errors.New(s.Error)
		}

		path, err := ctrl.SaveTo(outputDir)
		if err != nil {
			return err
		}
		logger.Info("画像を保存しました", "path", path)
		return nil
	},
}

// loadController はディスク上の画像を選択済みにした Controller を作ります。
func loadController(ed generator.ImageEditor, path string) (*editor.Controller, error) {
	img, err := imgutil.EncodeFile(path)
	if err != nil {
		return nil, err
	}
	ctrl, err := editor.New(ed)
	if err != nil {
		return nil, err
	}
	ctrl.SelectImage(img)
	logger.Debug("画像を読み込みました", "path", path, "mime_type", img.MimeType)
	return ctrl, nil
}

func init() {
	editCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Input image")
	editCmd.Flags().StringVarP(&editPrompt, "prompt", "p", "", "Edit instruction")
	editCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output folder")
	editCmd.Flags().StringVar(&aspectRatio, "aspect", "", "Aspect ratio of the result (1:1, 16:9, ...)")
	editCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output")
	_ = editCmd.MarkFlagRequired("image")
	_ = editCmd.MarkFlagRequired("prompt")
	editCmd.MarkFlagFilename("image")
	editCmd.MarkFlagDirname("out")
	rootCmd.AddCommand(editCmd)
}

