package http

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageOptions controls which controls the page shows.
type PageOptions struct {
	SpeechInput   bool
	SpeechOutput  bool
	RequireImage  bool
	ListenTimeout time.Duration
}

type pageData struct {
	Options         PageOptions
	ListenTimeoutMS int64
	Accept          string
	Question        string
	ImageSrc        template.URL
	ImageSource     string
	ImageCaption    string
	Transcript      string
	Answer          string
	AnswerFailed    bool
	AudioSrc        template.URL
	AudioMIMEType   string
	Error           string
	SpeechError     string
}

// IndexHandler renders the empty page
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.newPageData())
}

// AskPageHandler runs one interaction from the page form and re-renders the
// whole page with its result. Failures are shown inline.
func (h *Handler) AskPageHandler(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData()

	req, err := h.readRequest(w, r)
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid page form", "error", err)
		data.Error = "An error occurred: " + err.Error()
		h.renderPage(w, r, data)
		return
	}
	data.Question = req.Question
	if req.Upload == nil && req.Capture == nil {
		h.carryImage(r, &req)
	}

	out := h.ask(r.Context(), req)
	if out.Image != nil {
		data.ImageSrc = dataURI(out.Image.MIMEType, out.Image.Data)
		data.ImageSource = string(out.ImageSource)
		data.ImageCaption = "Uploaded Invoice."
		if out.ImageSource == invoice.SourceCapture {
			data.ImageCaption = "Captured Invoice."
		}
	}
	data.Transcript = out.Transcript
	if out.Transcript != "" {
		data.Question = out.Transcript
	}

	if out.Err != nil {
		data.Error = displayMessage(out.Err)
		h.renderPage(w, r, data)
		return
	}

	data.Answer = out.Answer.Text
	data.AnswerFailed = out.Answer.Failed()
	if out.Speech != nil {
		data.AudioSrc = dataURI(out.Speech.MIMEType, out.Speech.Data)
		data.AudioMIMEType = out.Speech.MIMEType
	}
	if out.SpeechErr != nil {
		data.SpeechError = out.SpeechErr.Error()
	}

	h.renderPage(w, r, data)
}

func (h *Handler) newPageData() pageData {
	return pageData{
		Options:         h.page,
		ListenTimeoutMS: h.page.ListenTimeout.Milliseconds(),
		Accept:          ".jpg,.jpeg,.png," + strings.Join(invoice.SupportedImageTypes(), ","),
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "Error rendering page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "Error writing page", "error", err)
	}
}

// carryImage reuses the invoice shown by the previous answer when the form
// brings no new file, so follow-up questions need no new upload.
func (h *Handler) carryImage(r *http.Request, req *invoice.Request) {
	value := r.FormValue("previous_image")
	if value == "" {
		return
	}
	img, err := parseDataURI(value)
	if err != nil {
		slog.WarnContext(r.Context(), "Ignoring previous image", "error", err)
		return
	}

	source := invoice.ImageSource(r.FormValue("previous_source"))
	if source == invoice.SourceCapture {
		req.Capture = img
	} else {
		source = invoice.SourceUpload
		req.Upload = img
	}
	req.LastSource = source
}

// displayMessage returns the user-facing part of an interaction error;
// causes only go to the logs.
func displayMessage(err error) string {
	var e *invoice.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// dataURI embeds bytes whose MIME type the server itself produced or validated.
func dataURI(mimeType string, data []byte) template.URL {
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func parseDataURI(s string) (*invoice.RawImage, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("data URI has no payload")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, errors.New("data URI is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return &invoice.RawImage{Data: data, MIMEType: mimeType}, nil
}
