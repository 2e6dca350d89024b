package editor

import (
	"strings"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/imgutil"
)

// 画面に表示する固定メッセージ
const (
	MsgValidation = "Please upload an image and provide a prompt."
	MsgNoImage    = "Failed to generate image. The model might not have returned an image."
	MsgUnknown    = "An unknown error occurred."
)

// State は画面の状態すべてを保持する値です。Controller の外へはコピーしか渡しません。
type State struct {
	Image  *domain.UploadedImage
	Prompt string
	Result *domain.GeneratedImage
	Status domain.RequestStatus
	Error  string
}

// Loading は生成中かどうかを返します。
func (s State) Loading() bool {
	return s.Status == domain.StatusLoading
}

// Ready は画像とプロンプトが揃っているかを返します。
func (s State) Ready() bool {
	return s.Image != nil && s.Prompt != ""
}

// CanGenerate は生成ボタンを有効にしてよいかを返します。
func (s State) CanGenerate() bool {
	return s.Ready() && !s.Loading()
}

// DisplayURI は生成結果を data URI として返します。結果がなければ空文字です。
func (s State) DisplayURI() string {
	if s.Result == nil {
		return ""
	}
	return imgutil.ToDataURI(s.Result.MimeType, s.Result.Base64)
}

// OriginalURI はプレビュー用に元画像を data URI で返します。
func (s State) OriginalURI() string {
	if s.Image == nil {
		return ""
	}
	if strings.HasPrefix(s.Image.Data, "data:") {
		return s.Image.Data
	}
	return imgutil.ToDataURI(s.Image.MimeType, s.Image.Data)
}

func (s State) clone() State {
	out := s
	if s.Image != nil {
		img := *s.Image
		out.Image = &img
	}
	if s.Result != nil {
		res := *s.Result
		out.Result = &res
	}
	return out
}

// beginAttempt は前回の結果とエラーを消してから Loading に遷移します。
func beginAttempt(s State) State {
	s.Error = ""
	s.Result = nil
	s.Status = domain.StatusLoading
	return s
}

func succeed(s State, res *domain.GeneratedImage) State {
	s.Error = ""
	s.Result = res
	s.Status = domain.StatusSucceeded
	return s
}

func fail(s State, msg string) State {
	s.Error = msg
	s.Result = nil
	s.Status = domain.StatusFailed
	return s
}

func validationFailure(s State) State {
	return fail(s, MsgValidation)
}

// complete はクライアントの戻り値から終端状態を決めます。
func complete(s State, res *domain.GeneratedImage, err error) State {
	switch {
	case err != nil:
		msg := err.Error()
		if msg == "" {
			msg = MsgUnknown
		}
		return fail(s, msg)
	case res == nil:
		return fail(s, MsgNoImage)
	default:
		return succeed(s, res)
	}
}
