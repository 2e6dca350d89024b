package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/shouni/gemini-mockup-studio/pkg/domain"
)

const (
	// DownloadBaseName はダウンロード時に提案するファイル名（拡張子なし）です。
	DownloadBaseName = "generated-mockup"
	// FallbackExtension は MIME タイプから拡張子を決められない場合の既定値です。
	FallbackExtension = "jpg"
)

// ErrNotImage は宣言された MIME タイプが image/ で始まらない場合に返されます。
var ErrNotImage = errors.New("selected file is not an image")

// Blob は data URI をデコードしたバイナリです。
type Blob struct {
	Data     []byte
	MimeType string
}

// IsImageType は宣言された MIME タイプが画像かどうかを判定します。
func IsImageType(declaredType string) bool {
	return strings.HasPrefix(declaredType, "image/")
}

// EncodeDataURI は読み込んだデータを data:<type>;base64,<payload> 形式に変換します。
// 画像以外の宣言タイプは読み込み前に拒否します。
func EncodeDataURI(r io.Reader, declaredType string) (string, error) {
	if !IsImageType(declaredType) {
		return "", fmt.Errorf("%w: %q", ErrNotImage, declaredType)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	return ToDataURI(declaredType, base64.StdEncoding.EncodeToString(data)), nil
}

// EncodeFile はディスク上のファイルを UploadedImage に変換します。
// ファイルには宣言タイプがないため、内容から MIME タイプを判定します。
func EncodeFile(path string) (*domain.UploadedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("画像ファイルを開けませんでした: %w", err)
	}
	mimeType := DetectMediaType(data)
	if !IsImageType(mimeType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotImage, path, mimeType)
	}
	return &domain.UploadedImage{
		Data:     ToDataURI(mimeType, base64.StdEncoding.EncodeToString(data)),
		MimeType: mimeType,
	}, nil
}

// DetectMediaType はバイト列の内容から MIME タイプを推定します（パラメータ部は除去）。
func DetectMediaType(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// ToDataURI は MIME タイプと base64 ペイロードから表示用の data URI を組み立てます。
func ToDataURI(mimeType, payload string) string {
	return "data:" + mimeType + ";base64," + payload
}

// StripDataURIPrefix は最初のカンマより後ろを返します。カンマがなければそのまま返します。
func StripDataURIPrefix(data string) string {
	if _, payload, found := strings.Cut(data, ","); found {
		return payload
	}
	return data
}

// DecodeDataURI は data URI をバイナリに戻します。
// 形式が不正な場合は nil を返し、パニックもエラーも起こしません。
func DecodeDataURI(uri string) *Blob {
	header, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil
	}

	// ":" と ";" の間をメディアタイプとして扱う
	_, afterColon, ok := strings.Cut(header, ":")
	if !ok {
		return nil
	}
	mimeType, _, ok := strings.Cut(afterColon, ";")
	if !ok || mimeType == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	return &Blob{Data: data, MimeType: mimeType}
}

// MediaTypeToExtension は "image/svg+xml" -> "svg" のように拡張子を求めます。
// 対応表は持たず、文字列の分割だけで決めます。
func MediaTypeToExtension(mediaType string) string {
	if mediaType == "" {
		return FallbackExtension
	}
	_, subtype, found := strings.Cut(mediaType, "/")
	subtype, _, _ = strings.Cut(subtype, "/")
	if !found || subtype == "" {
		return FallbackExtension
	}
	subtype, _, _ = strings.Cut(subtype, "+")
	return subtype
}

// DownloadFilename は generated-mockup.<ext> を返します。
func DownloadFilename(mediaType string) string {
	return DownloadBaseName + "." + MediaTypeToExtension(mediaType)
}
