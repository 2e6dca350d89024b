package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/generator"
	"github.com/shouni/gemini-mockup-studio/pkg/imgutil"
)

var (
	// ErrValidation は画像またはプロンプトが足りない場合に返されます。
	ErrValidation = errors.New(MsgValidation)
	// ErrBusy は別の生成がまだ終わっていない場合に返されます。状態は変更しません。
	ErrBusy = errors.New("a generation is already in progress")
	// ErrNoResult はダウンロードできる生成結果がない場合に返されます。
	ErrNoResult = errors.New("no generated image to download")
	// ErrUndecodable は生成結果をバイナリに戻せなかった場合に返されます。
	ErrUndecodable = errors.New("could not convert generated image for download")
	// ErrUnknownPreset は存在しないプリセット番号が指定された場合に返されます。
	ErrUnknownPreset = errors.New("unknown preset")

	errInterrupted = errors.New(MsgUnknown)
)

// Presets は画面に並べるプロンプトの例です。
var Presets = []string{
	"Place on a black t-shirt.",
	"Mockup on a white coffee mug.",
	"Add a retro, vintage filter.",
	"Put this logo on a canvas tote bag.",
	"Make the background a solid bright color.",
	"Remove the background.",
}

// Controller は画面状態の唯一の持ち主で、許可された操作「生成」を順序立てて実行します。
type Controller struct {
	editor generator.ImageEditor
	slot   *semaphore.Weighted

	mu    sync.RWMutex
	state State
}

// New は ImageEditor を注入して Controller を初期化します。
func New(editor generator.ImageEditor) (*Controller, error) {
	if editor == nil {
		return nil, fmt.Errorf("editor (generator.ImageEditor) is required")
	}
	return &Controller{
		editor: editor,
		slot:   semaphore.NewWeighted(1),
		state:  State{Status: domain.StatusIdle},
	}, nil
}

// Snapshot は現在の状態のコピーを返します。
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// SelectImage は選択画像を丸ごと差し替えます。nil の場合は選択を解除します。
func (c *Controller) SelectImage(img *domain.UploadedImage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img == nil {
		c.state.Image = nil
		return
	}
	cp := *img
	c.state.Image = &cp
}

// SelectFile はアップロードされたファイルを data URI にして選択画像にします。
// 画像以外なら既存の選択を解除して imgutil.ErrNotImage を返します。
// 読み込みに失敗した場合は状態を変更しません。
func (c *Controller) SelectFile(r io.Reader, declaredType string) error {
	if !imgutil.IsImageType(declaredType) {
		c.SelectImage(nil)
		return fmt.Errorf("%w: %q", imgutil.ErrNotImage, declaredType)
	}

	uri, err := imgutil.EncodeDataURI(r, declaredType)
	if err != nil {
		return err
	}
	c.SelectImage(&domain.UploadedImage{Data: uri, MimeType: declaredType})
	return nil
}

// SetPrompt はプロンプトを書き換えます。
func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Prompt = prompt
}

// ApplyPreset は Presets[i] をプロンプトに設定します。
func (c *Controller) ApplyPreset(i int) error {
	if i < 0 || i >= len(Presets) {
		return fmt.Errorf("%w: %d", ErrUnknownPreset, i)
	}
	c.SetPrompt(Presets[i])
	return nil
}

// Generate は画像とプロンプトで1回だけ生成を行い、結果を状態に反映します。
//
// 画像かプロンプトが欠けている場合は通信せずに Failed へ遷移して ErrValidation を返します。
// モデルが画像を返さなかった場合は Failed になりますが、エラーは返しません。
// クライアントのエラーは Failed のメッセージに入れたうえでそのまま返します。
// どの経路でも終了時に Loading は解除されます。
func (c *Controller) Generate(ctx context.Context) error {
	run, err := c.begin(ctx)
	if err != nil {
		return err
	}
	return run()
}

// Start は Generate と同じ検証を同期的に行い、通信だけを別 goroutine で実行します。
// ErrBusy と ErrValidation はその場で返し、通信の結果は戻り値のチャネルに1回だけ送られます。
func (c *Controller) Start(ctx context.Context) (<-chan error, error) {
	run, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "画像生成中にパニックしました", "panic", r)
				done <- errInterrupted
			}
		}()
		done <- run()
	}()
	return done, nil
}

// begin はスロットを確保し、検証に通れば Loading に遷移して通信用の関数を返します。
// 返した関数はスロットの解放と終端状態への遷移を必ず行います。
func (c *Controller) begin(ctx context.Context) (func() error, error) {
	if !c.slot.TryAcquire(1) {
		slog.WarnContext(ctx, "生成中のため新しいリクエストを拒否しました")
		return nil, ErrBusy
	}

	c.mu.Lock()
	if !c.state.Ready() {
		c.state = validationFailure(c.state)
		c.mu.Unlock()
		c.slot.Release(1)
		return nil, ErrValidation
	}
	img := *c.state.Image
	prompt := c.state.Prompt
	c.state = beginAttempt(c.state)
	c.mu.Unlock()

	return func() error {
		defer c.slot.Release(1)

		var (
			result *domain.GeneratedImage
			err    = errInterrupted
		)
		defer func() {
			c.mu.Lock()
			c.state = complete(c.state, result, err)
			c.mu.Unlock()
		}()

		result, err = c.editor.EditImage(ctx, img, prompt)
		switch {
		case err != nil:
			slog.ErrorContext(ctx, "画像生成に失敗しました", "error", err)
			return err
		case result == nil:
			slog.WarnContext(ctx, "モデルが画像を返しませんでした")
		default:
			slog.InfoContext(ctx, "画像生成が完了しました", "mime_type", result.MimeType)
		}
		return nil
	}, nil
}

// Download は表示中の生成結果をバイナリに戻し、保存用のファイル名と一緒に返します。
func (c *Controller) Download() (*imgutil.Blob, string, error) {
	s := c.Snapshot()
	if s.Result == nil {
		return nil, "", ErrNoResult
	}
	blob := imgutil.DecodeDataURI(s.DisplayURI())
	if blob == nil {
		return nil, "", ErrUndecodable
	}
	return blob, imgutil.DownloadFilename(blob.MimeType), nil
}

// SaveTo は生成結果を dir/generated-mockup.<ext> に書き出し、そのパスを返します。
func (c *Controller) SaveTo(dir string) (string, error) {
	blob, name, err := c.Download()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	return path, nil
}
