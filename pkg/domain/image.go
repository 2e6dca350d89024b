package domain

// UploadedImage はユーザーが選択した編集元画像です。
// Data は base64 文字列で、data URI のプレフィックスを含む場合と含まない場合があります。
type UploadedImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// ImageEditRequest は1回の画像編集要求です。
// Seed と AspectRatio は任意で、nil/空の場合はモデルのデフォルトに任せます。
type ImageEditRequest struct {
	Image       UploadedImage
	Prompt      string
	AspectRatio string
	Seed        *int64
}

// GeneratedImage はモデルが返した編集済み画像です。
type GeneratedImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type"`
}

// RequestStatus は生成リクエストの状態です。常にどれか1つだけが有効です。
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal は Succeeded または Failed の場合に true を返します。
func (s RequestStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
