package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// 通信中の画面を再読み込みする間隔
const refreshSeconds = 2

type presetView struct {
	Index int
	Label string
}

type pageView struct {
	Prompt         string
	Error          string
	Loading        bool
	HasImage       bool
	HasResult      bool
	RefreshSeconds int
	Original       template.URL
	Result         template.URL
	Presets        []presetView
}

type stateResponse struct {
	Status   string   `json:"status"`
	Done     bool     `json:"done"`
	Loading  bool     `json:"loading"`
	Ready    bool     `json:"ready"`
	Prompt   string   `json:"prompt"`
	Error    string   `json:"error,omitempty"`
	Original string   `json:"original,omitempty"`
	Result   string   `json:"result,omitempty"`
	Presets  []string `json:"presets"`
}

// newPageView は State を画面用の値に変換します。
// data URI は自前で組み立てたものなので template.URL として扱います。
func newPageView(s editor.State) pageView {
	v := pageView{
		Prompt:         s.Prompt,
		Error:          s.Error,
		Loading:        s.Loading(),
		HasImage:       s.Image != nil,
		HasResult:      s.Result != nil,
		RefreshSeconds: refreshSeconds,
		Original:       template.URL(s.OriginalURI()),
		Result:         template.URL(s.DisplayURI()),
	}
	for i, p := range editor.Presets {
		v.Presets = append(v.Presets, presetView{Index: i, Label: p})
	}
	return v
}

func newStateResponse(s editor.State) stateResponse {
	return stateResponse{
		Status:   s.Status.String(),
		Done:     s.Status.Terminal(),
		Loading:  s.Loading(),
		Ready:    s.Ready(),
		Prompt:   s.Prompt,
		Error:    s.Error,
		Original: s.OriginalURI(),
		Result:   s.DisplayURI(),
		Presets:  editor.Presets,
	}
}

func renderPage(w io.Writer, s editor.State) error {
	return pageTemplate.Execute(w, newPageView(s))
}
