package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/editor"
)

// --- Mocks ---

type stubEditor struct {
	result *domain.GeneratedImage
	err    error
	calls  int
}

func (s *stubEditor) EditImage(context.Context, domain.UploadedImage, string) (*domain.GeneratedImage, error) {
	s.calls++
	return s.result, s.err
}

func newModel(t *testing.T, ed *stubEditor, opts Options) (Model, *editor.Controller) {
	t.Helper()
	ctrl, err := editor.New(ed)
	require.NoError(t, err)
	m, err := New(ctrl, opts)
	require.NoError(t, err)
	return m, ctrl
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// collect はコマンドを実行し、Batch を展開してメッセージを集めるのだ。
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

var (
	keyGenerate = tea.KeyMsg{Type: tea.KeyCtrlG}
	keySave     = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func altDigit(d rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{d}, Alt: true}
}

func TestNew(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestModel_TypingAndPresets(t *testing.T) {
	m, ctrl := newModel(t, &stubEditor{}, Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	assert.Equal(t, "hi", ctrl.Snapshot().Prompt)

	m, _ = update(t, m, altDigit('3'))
	assert.Equal(t, editor.Presets[2], ctrl.Snapshot().Prompt)
	assert.Equal(t, editor.Presets[2], m.prompt.Value())
}

func TestModel_Generate(t *testing.T) {
	ed := &stubEditor{result: &domain.GeneratedImage{MimeType: "image/png", Base64: "cG5n"}}
	dir := t.TempDir()
	m, ctrl := newModel(t, ed, Options{ImageLabel: "logo.png", OutputDir: dir})
	ctrl.SelectImage(&domain.UploadedImage{Data: "data:image/png;base64,AA==", MimeType: "image/png"})

	m, _ = update(t, m, altDigit('1'))
	m, cmd := update(t, m, keyGenerate)
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Contains(t, m.View(), "Generating your image...")

	// 完了前の2回目は無視される
	_, again := update(t, m, keyGenerate)
	assert.Nil(t, again)

	done, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)
	assert.NoError(t, done.err)
	m, _ = update(t, m, done)

	assert.False(t, m.pending)
	assert.Equal(t, 1, ed.calls)
	assert.Equal(t, domain.StatusSucceeded, ctrl.Snapshot().Status)
	view := m.View()
	assert.Contains(t, view, "logo.png (image/png)")
	assert.Contains(t, view, "Generated image ready")

	m, cmd = update(t, m, keySave)
	saved, ok := find[savedMsg](collect(cmd))
	require.True(t, ok)
	require.NoError(t, saved.err)
	m, _ = update(t, m, saved)

	assert.True(t, strings.HasPrefix(m.notice, "Saved "))
	data, err := os.ReadFile(filepath.Join(dir, "generated-mockup.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestModel_GenerateValidation(t *testing.T) {
	ed := &stubEditor{}
	m, _ := newModel(t, ed, Options{})

	m, cmd := update(t, m, keyGenerate)
	done, ok := find[generatedMsg](collect(cmd))
	require.True(t, ok)
	assert.ErrorIs(t, done.err, editor.ErrValidation)
	m, _ = update(t, m, done)

	assert.Zero(t, ed.calls)
	assert.Contains(t, m.View(), "Generation Failed")
	assert.Contains(t, m.View(), editor.MsgValidation)
}

func TestModel_SaveWithoutResult(t *testing.T) {
	m, _ := newModel(t, &stubEditor{}, Options{})

	m, cmd := update(t, m, keySave)

	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to save yet.", m.notice)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, &stubEditor{}, Options{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
