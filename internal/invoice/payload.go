package invoice

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Prompt sets the model's role for every question.
const Prompt = `
You are an expert in understanding invoices.
You will receive input images as invoices and will have to answer questions based on the input image.
`

// ImageSource names the control an image came from.
type ImageSource string

const (
	SourceUpload  ImageSource = "upload"
	SourceCapture ImageSource = "capture"
)

// RawImage is an image as delivered by an acquisition control.
type RawImage struct {
	Data     []byte
	MIMEType string
	Filename string
}

// ImagePayload is the encoded image handed to the answer model.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// AudioClip holds captured or synthesized audio.
type AudioClip struct {
	Data     []byte
	MIMEType string
}

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// SupportedImageTypes lists the accepted image MIME types.
func SupportedImageTypes() []string {
	return []string{"image/jpeg", "image/png"}
}

// NewImagePayload wraps raw bytes and their declared MIME type.
// The declared type wins over the content; it is only sniffed when the
// client did not declare one.
func NewImagePayload(data []byte, mimeType string) (*ImagePayload, error) {
	if len(data) == 0 {
		return nil, newError(KindNoImageProvided, "Please upload or capture an invoice.", nil)
	}

	mt := normalizeMIMEType(mimeType)
	if mt == "" || mt == "application/octet-stream" {
		mt = normalizeMIMEType(mimetype.Detect(data).String())
	}
	if !supportedImageTypes[mt] {
		return nil, newError(KindUnsupportedImage, "Please provide a JPEG or PNG image.", nil)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return &ImagePayload{MIMEType: mt, Data: buf}, nil
}

func normalizeMIMEType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		s = mt
	}
	s = strings.ToLower(s)
	// some browsers still send the legacy name for JPEG
	if s == "image/jpg" || s == "image/pjpeg" {
		return "image/jpeg"
	}
	return s
}

// SelectImage picks the image the user supplied most recently. When the last
// source is unknown or empty the upload wins over the capture.
func SelectImage(upload, capture *RawImage, last ImageSource) (*RawImage, ImageSource, error) {
	present := func(img *RawImage) bool { return img != nil && len(img.Data) > 0 }

	switch {
	case last == SourceCapture && present(capture):
		return capture, SourceCapture, nil
	case last == SourceUpload && present(upload):
		return upload, SourceUpload, nil
	case present(upload):
		return upload, SourceUpload, nil
	case present(capture):
		return capture, SourceCapture, nil
	}
	return nil, "", newError(KindNoImageProvided, "Please upload or capture an invoice.", nil)
}
