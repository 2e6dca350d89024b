package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
	"github.com/shouni/gemini-mockup-studio/pkg/editor"
	"github.com/shouni/gemini-mockup-studio/pkg/session"
)

// --- Mocks ---

// mockEditor は generator.ImageEditor のテスト用モックなのだ。
type mockEditor struct {
	editFunc func(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error)
	calls    atomic.Int32
}

func (m *mockEditor) EditImage(ctx context.Context, img domain.UploadedImage, prompt string) (*domain.GeneratedImage, error) {
	m.calls.Add(1)
	if m.editFunc != nil {
		return m.editFunc(ctx, img, prompt)
	}
	return nil, nil
}

// browser はクッキーを引き継ぎながらルーターを直接叩くのだ。
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newBrowser(t *testing.T, ed *mockEditor, maxUpload int64) *browser {
	t.Helper()
	store, err := session.NewStore(func() (*editor.Controller, error) { return editor.New(ed) }, time.Minute)
	require.NoError(t, err)
	h, err := NewHandler(store, maxUpload)
	require.NoError(t, err)
	return &browser{t: t, handler: NewRouter(h)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(contentType string, data []byte) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(b.t, err)
	_, err = part.Write(data)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}
