package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/gemini-mockup-studio/pkg/editor"
	"github.com/shouni/gemini-mockup-studio/pkg/imgutil"
)

// フォームのフィールド名
const (
	fieldImage  = "image"
	fieldPrompt = "prompt"
)

// Health は死活監視用のエンドポイントです。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Index は現在の状態で画面を描画します。
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, ctrl.Snapshot()); err != nil {
		slog.ErrorContext(r.Context(), "画面の描画に失敗しました", "error", err)
	}
}

// UploadImage はマルチパートの image フィールドを選択画像にします。
// 画像以外のファイルは選択を解除するだけでエラー表示はしません。
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUpload {
		http.Error(w, "uploaded file is too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile(fieldImage)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "uploaded file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		if errors.Is(err, http.ErrMissingFile) {
			seeOther(w, r)
			return
		}
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	declared := header.Header.Get("Content-Type")
	if err := ctrl.SelectFile(file, declared); err != nil {
		if errors.Is(err, imgutil.ErrNotImage) {
			slog.InfoContext(r.Context(), "画像以外のファイルが選択されました", "content_type", declared)
			seeOther(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "アップロードの読み込みに失敗しました", "error", err)
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}
	seeOther(w, r)
}

// UpdatePrompt はプロンプトを書き換えます。
func (h *Handler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctrl.SetPrompt(r.PostForm.Get(fieldPrompt))
	seeOther(w, r)
}

// ApplyPreset はプリセットのプロンプトを設定します。
func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid preset", http.StatusBadRequest)
		return
	}
	if err := ctrl.ApplyPreset(i); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	seeOther(w, r)
}

// Generate は生成を開始してすぐにトップへリダイレクトします。
// フォームに prompt が含まれていれば先にプロンプトを更新します。
// 通信中の画面は自動で再読み込みされ、失敗は状態のエラーとして表示されます。
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err == nil && r.PostForm.Has(fieldPrompt) {
		ctrl.SetPrompt(r.PostForm.Get(fieldPrompt))
	}

	// ブラウザが離脱しても通信は最後まで行う
	ctx := context.WithoutCancel(r.Context())
	if _, err := ctrl.Start(ctx); errors.Is(err, editor.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	seeOther(w, r)
}

// Download は生成結果を generated-mockup.<ext> として返します。
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	blob, name, err := ctrl.Download()
	switch {
	case errors.Is(err, editor.ErrNoResult):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "ダウンロード用の変換に失敗しました", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", blob.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	if _, err := w.Write(blob.Data); err != nil {
		slog.WarnContext(r.Context(), "ダウンロードの書き込みに失敗しました", "error", err)
	}
}

// State は現在の状態をJSONで返します。
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(ctrl.Snapshot()))
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*editor.Controller, bool) {
	ctrl, err := h.sessions.Resolve(w, r)
	if err != nil {
		slog.ErrorContext(r.Context(), "セッションを取得できませんでした", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return ctrl, true
}

func seeOther(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
