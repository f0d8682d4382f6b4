package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
	"github.com/vokinneberg/invoice-assistant/internal/types"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=http

// Assistant defines the interface for invoice interactions
type Assistant interface {
	Ask(ctx context.Context, req invoice.Request) *invoice.Outcome
	Transcribe(ctx context.Context, clip invoice.AudioClip) (string, error)
	Speak(ctx context.Context, text string) (*invoice.AudioClip, error)
}

// OutcomeObserver is told about every finished interaction
type OutcomeObserver interface {
	ObserveOutcome(out *invoice.Outcome)
}

type Handler struct {
	assistant      Assistant
	observer       OutcomeObserver
	page           PageOptions
	maxUploadBytes int64
}

// NewHandlers initializes handlers with dependencies. observer may be nil.
func NewHandlers(assistant Assistant, observer OutcomeObserver, page PageOptions, maxUploadBytes int64) *Handler {
	return &Handler{
		assistant:      assistant,
		observer:       observer,
		page:           page,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnswerHandler answers a question about an uploaded or captured invoice
func (h *Handler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRequest(w, r)
	if err != nil {
		errorResponse(w, statusForFormError(err), "Invalid request body", err)
		return
	}

	out := h.ask(r.Context(), req)
	if out.Err != nil {
		kindErrorResponse(w, out.Err)
		return
	}

	response := types.AnswerResponse{
		Answer:      out.Answer.Text,
		Question:    out.Question,
		Transcript:  out.Transcript,
		ImageSource: string(out.ImageSource),
	}
	if out.Speech != nil {
		response.Audio = out.Speech.Data
		response.AudioMIMEType = out.Speech.MIMEType
	}
	if out.SpeechErr != nil {
		response.SpeechError = out.SpeechErr.Error()
	}

	status := http.StatusOK
	if out.Answer.Failed() {
		// the body still carries the displayable error text
		status = http.StatusBadGateway
		response.Kind = string(invoice.KindModelCallFailed)
	}

	writeJSON(w, status, response)
}

// TranscribeHandler converts a recorded voice question to text
func (h *Handler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		errorResponse(w, statusForFormError(err), "Invalid request body", err)
		return
	}
	defer removeMultipartFiles(r)

	clip, err := formAudio(r, "voice")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid voice recording", err)
		return
	}
	if clip == nil {
		clip = &invoice.AudioClip{}
	}

	transcript, err := h.assistant.Transcribe(r.Context(), *clip)
	if err != nil {
		kindErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.TranscriptResponse{Transcript: transcript})
}

// SpeechHandler reads a text aloud and returns the audio
func (h *Handler) SpeechHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req types.SpeechReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		errorResponse(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	clip, err := h.assistant.Speak(r.Context(), req.Text)
	if err != nil {
		kindErrorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", clip.MIMEType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(clip.Data); err != nil {
		slog.ErrorContext(r.Context(), "Error writing audio", "error", err)
	}
}

// HealthHandler reports that the server is up
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ask(ctx context.Context, req invoice.Request) *invoice.Outcome {
	out := h.assistant.Ask(ctx, req)
	if h.observer != nil {
		h.observer.ObserveOutcome(out)
	}
	return out
}

// readRequest parses the multipart form shared by the page and the API.
func (h *Handler) readRequest(w http.ResponseWriter, r *http.Request) (invoice.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return invoice.Request{}, err
	}
	defer removeMultipartFiles(r)

	upload, err := formImage(r, "upload")
	if err != nil {
		return invoice.Request{}, err
	}
	capture, err := formImage(r, "capture")
	if err != nil {
		return invoice.Request{}, err
	}
	voice, err := formAudio(r, "voice")
	if err != nil {
		return invoice.Request{}, err
	}

	return invoice.Request{
		Upload:     upload,
		Capture:    capture,
		LastSource: invoice.ImageSource(r.FormValue("source")),
		Question:   r.FormValue("question"),
		Voice:      voice,
	}, nil
}

func formImage(r *http.Request, field string) (*invoice.RawImage, error) {
	data, header, err := formFile(r, field)
	if err != nil || data == nil {
		return nil, err
	}
	return &invoice.RawImage{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}, nil
}

func formAudio(r *http.Request, field string) (*invoice.AudioClip, error) {
	data, header, err := formFile(r, field)
	if err != nil || data == nil {
		return nil, err
	}
	return &invoice.AudioClip{Data: data, MIMEType: header.Header.Get("Content-Type")}, nil
}

// formFile returns nil data when the field is absent or empty; browsers send
// an empty part for a file input nobody used.
func formFile(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil, nil
	}
	return data, header, nil
}

// removeMultipartFiles drops any parts the form parser spilled to disk.
func removeMultipartFiles(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func statusForFormError(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusForKind maps an interaction failure to an HTTP status.
func statusForKind(kind invoice.Kind) int {
	switch {
	case kind.Precondition():
		return http.StatusBadRequest
	case kind == invoice.KindSpeechNotUnderstood:
		return http.StatusUnprocessableEntity
	case kind == invoice.KindSpeechServiceUnavailable, kind == invoice.KindModelCallFailed, kind == invoice.KindSynthesisFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func kindErrorResponse(w http.ResponseWriter, err error) {
	kind := invoice.KindOf(err)
	status := statusForKind(kind)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(types.ErrorResponse{
		Error:   http.StatusText(status),
		Message: displayMessage(err),
		Kind:    string(kind),
	}); err != nil {
		slog.Error("Error encoding error response", "error", err, "status", status)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorMsg := message
	if err != nil {
		errorMsg = fmt.Sprintf("%s: %v", message, err)
	}

	if err := json.NewEncoder(w).Encode(types.ErrorResponse{
		Error:   http.StatusText(status),
		Message: errorMsg,
	}); err != nil {
		slog.Error("Error encoding error response", "error", err, "status", status)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
