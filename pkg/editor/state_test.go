package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
)

func TestTransitions(t *testing.T) {
	prev := State{
		Image:  sampleImage,
		Prompt: "p",
		Result: &domain.GeneratedImage{MimeType: "image/png", Base64: "b2xk"},
		Status: domain.StatusSucceeded,
	}

	t.Run("beginAttempt は結果とエラーを消してLoadingにする", func(t *testing.T) {
		s := beginAttempt(fail(prev, "old error"))
		assert.Equal(t, domain.StatusLoading, s.Status)
		assert.Nil(t, s.Result)
		assert.Empty(t, s.Error)
		assert.Equal(t, prev.Image, s.Image)
		assert.Equal(t, prev.Prompt, s.Prompt)
	})

	t.Run("complete はエラー、結果なし、成功を区別する", func(t *testing.T) {
		loading := beginAttempt(prev)

		s := complete(loading, nil, errors.New("boom"))
		assert.Equal(t, domain.StatusFailed, s.Status)
		assert.Equal(t, "boom", s.Error)

		s = complete(loading, nil, nil)
		assert.Equal(t, domain.StatusFailed, s.Status)
		assert.Equal(t, MsgNoImage, s.Error)

		res := &domain.GeneratedImage{MimeType: "image/webp", Base64: "bmV3"}
		s = complete(loading, res, nil)
		assert.Equal(t, domain.StatusSucceeded, s.Status)
		assert.Equal(t, "data:image/webp;base64,bmV3", s.DisplayURI())
	})

	t.Run("遷移は元の値を変更しない", func(t *testing.T) {
		_ = validationFailure(prev)
		assert.Equal(t, domain.StatusSucceeded, prev.Status)
		assert.NotNil(t, prev.Result)
	})
}

func TestState_OriginalURI(t *testing.T) {
	assert.Empty(t, State{}.OriginalURI())

	s := State{Image: &domain.UploadedImage{Data: "AAAA", MimeType: "image/gif"}}
	assert.Equal(t, "data:image/gif;base64,AAAA", s.OriginalURI())
}
