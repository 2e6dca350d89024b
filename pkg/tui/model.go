package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
)

// generatedMsg は生成の完了を知らせるのだ。
type generatedMsg struct{ err error }

// savedMsg は保存の結果を知らせます。
type savedMsg struct {
	path string
	err  error
}

// Options は端末UIの表示と保存先の設定です。
type Options struct {
	// ImageLabel は選択中の画像として表示する名前です。
	ImageLabel string
	// OutputDir は ctrl+s で保存するディレクトリです。
	OutputDir string
}

// Model は editor.Controller を操作する Bubble Tea のモデルです。
type Model struct {
	ctrl    *editor.Controller
	opts    Options
	prompt  textarea.Model
	spinner spinner.Model

	// 生成コマンドを発行してから完了メッセージを受け取るまで true
	pending bool
	notice  string
	width   int
}

// New は Controller の現在のプロンプトで入力欄を初期化します。
func New(ctrl *editor.Controller, opts Options) (Model, error) {
	if ctrl == nil {
		return Model{}, fmt.Errorf("ctrl (*editor.Controller) is required")
	}

	ta := textarea.New()
	ta.Placeholder = "e.g., 'Add a cool retro filter' or 'Place this logo on a black t-shirt worn by a model'"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetValue(ctrl.Snapshot().Prompt)
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)

	return Model{ctrl: ctrl, opts: opts, prompt: ta, spinner: sp}, nil
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.prompt.SetWidth(max(20, msg.Width-4))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case generatedMsg:
		m.pending = false
		if msg.err != nil && !errors.Is(msg.err, editor.ErrBusy) {
			slog.Debug("生成に失敗しました", "error", msg.err)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = "Save failed: " + msg.err.Error()
		} else {
			m.notice = "Saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+g":
		if m.pending || m.ctrl.Snapshot().Loading() {
			return m, nil
		}
		m.ctrl.SetPrompt(m.prompt.Value())
		m.pending = true
		m.notice = ""
		return m, tea.Batch(generate(m.ctrl), m.spinner.Tick)

	case "ctrl+s":
		if m.ctrl.Snapshot().Result == nil {
			m.notice = "Nothing to save yet."
			return m, nil
		}
		return m, save(m.ctrl, m.opts.OutputDir)

	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6":
		if m.pending {
			return m, nil
		}
		i := int(key[len(key)-1] - '1')
		if err := m.ctrl.ApplyPreset(i); err != nil {
			return m, nil
		}
		m.prompt.SetValue(editor.Presets[i])
		return m, nil
	}

	if m.pending {
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.ctrl.SetPrompt(m.prompt.Value())
	return m, cmd
}

func (m Model) View() string {
	s := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Merch Mockup AI"))
	b.WriteString("\n")

	image := mutedStyle.Render("(none)")
	if s.Image != nil {
		label := m.opts.ImageLabel
		if label == "" {
			label = "uploaded image"
		}
		image = fmt.Sprintf("%s (%s)", label, s.Image.MimeType)
	}
	fmt.Fprintf(&b, "Image: %s\n\n", image)

	b.WriteString(panelStyle.Render(m.prompt.View()))
	b.WriteString("\n\n")

	b.WriteString(mutedStyle.Render("Or try an example:"))
	b.WriteString("\n")
	for i, p := range editor.Presets {
		fmt.Fprintf(&b, "  %s %s\n", presetStyle.Render(fmt.Sprintf("alt+%d", i+1)), p)
	}
	b.WriteString("\n")

	switch {
	case s.Loading() || m.pending:
		fmt.Fprintf(&b, "%s Generating your image... This may take a moment.\n", m.spinner.View())
	case s.Error != "":
		b.WriteString(errorStyle.Render("Generation Failed"))
		fmt.Fprintf(&b, " %s\n", s.Error)
	case s.Result != nil:
		b.WriteString(okStyle.Render(fmt.Sprintf("Generated image ready (%s). Press ctrl+s to save.", s.Result.MimeType)))
		b.WriteString("\n")
	default:
		b.WriteString(mutedStyle.Render("Your mockup is waiting."))
		b.WriteString("\n")
	}

	if m.notice != "" {
		fmt.Fprintf(&b, "%s\n", m.notice)
	}

	help := "ctrl+g generate"
	if !s.CanGenerate() || m.pending {
		help = mutedStyle.Render(help)
	}
	fmt.Fprintf(&b, "\n%s • ctrl+s save • esc quit\n", help)
	return b.String()
}

// generate は通信をコマンドとして別 goroutine で実行します。
func generate(ctrl *editor.Controller) tea.Cmd {
	return func() tea.Msg {
		return generatedMsg{err: ctrl.Generate(context.Background())}
	}
}

func save(ctrl *editor.Controller, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := ctrl.SaveTo(dir)
		return savedMsg{path: path, err: err}
	}
}
