package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
	"github.com/vokinneberg/invoice-assistant/internal/types"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write field %s: %v", name, err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("Failed to create part %s: %v", f.field, err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("Failed to write part %s: %v", f.field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func invoiceUpload() filePart {
	return filePart{field: "upload", filename: "invoice.png", contentType: "image/png", data: pngBytes}
}

func answeredOutcome(text string) *invoice.Outcome {
	return &invoice.Outcome{
		Image:       &invoice.ImagePayload{MIMEType: "image/png", Data: pngBytes},
		ImageSource: invoice.SourceUpload,
		Question:    "What is the total?",
		Answer:      invoice.Answer{Text: text},
	}
}

func TestHandler_AnswerHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           func(*testing.T) (io.Reader, string)
		maxUploadBytes int64
		setupMocks     func(*MockAssistant, *MockOutcomeObserver)
		wantStatus     int
		wantContains   string
	}{
		{
			name: "successful answer with speech",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, map[string]string{"question": "What is the total?", "source": "upload"}, invoiceUpload())
			},
			setupMocks: func(assistant *MockAssistant, observer *MockOutcomeObserver) {
				out := answeredOutcome("The total is $42.00.")
				out.Speech = &invoice.AudioClip{Data: []byte("mp3"), MIMEType: "audio/mpeg"}
				assistant.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req invoice.Request) *invoice.Outcome {
						if req.Upload == nil || req.Upload.MIMEType != "image/png" || !bytes.Equal(req.Upload.Data, pngBytes) {
							t.Errorf("Ask() upload = %+v, want the posted PNG", req.Upload)
						}
						if req.Capture != nil {
							t.Errorf("Ask() capture = %+v, want nil", req.Capture)
						}
						if req.Question != "What is the total?" {
							t.Errorf("Ask() question = %q, want %q", req.Question, "What is the total?")
						}
						if req.LastSource != invoice.SourceUpload {
							t.Errorf("Ask() last source = %q, want %q", req.LastSource, invoice.SourceUpload)
						}
						return out
					})
				observer.EXPECT().ObserveOutcome(out)
			},
			wantStatus:   http.StatusOK,
			wantContains: "The total is $42.00.",
		},
		{
			name: "no image provided",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, map[string]string{"question": "What is the total?"})
			},
			setupMocks: func(assistant *MockAssistant, observer *MockOutcomeObserver) {
				out := &invoice.Outcome{Err: &invoice.Error{
					Kind:    invoice.KindNoImageProvided,
					Message: "Please upload or capture an invoice.",
				}}
				assistant.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(out)
				observer.EXPECT().ObserveOutcome(out)
			},
			wantStatus:   http.StatusBadRequest,
			wantContains: string(invoice.KindNoImageProvided),
		},
		{
			name: "model call fails",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, map[string]string{"question": "What is the total?"}, invoiceUpload())
			},
			setupMocks: func(assistant *MockAssistant, observer *MockOutcomeObserver) {
				out := answeredOutcome("Error generating response: quota exceeded")
				out.Answer.Err = &invoice.Error{Kind: invoice.KindModelCallFailed, Message: "Error generating response"}
				assistant.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(out)
				observer.EXPECT().ObserveOutcome(out)
			},
			wantStatus:   http.StatusBadGateway,
			wantContains: "Error generating response: quota exceeded",
		},
		{
			name: "speech not understood",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, nil, invoiceUpload(),
					filePart{field: "voice", filename: "voice", contentType: "audio/webm", data: []byte("noise")})
			},
			setupMocks: func(assistant *MockAssistant, observer *MockOutcomeObserver) {
				out := &invoice.Outcome{Err: &invoice.Error{
					Kind:    invoice.KindSpeechNotUnderstood,
					Message: "Could not understand the audio.",
				}}
				assistant.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req invoice.Request) *invoice.Outcome {
						if req.Voice == nil || req.Voice.MIMEType != "audio/webm" {
							t.Errorf("Ask() voice = %+v, want a webm clip", req.Voice)
						}
						return out
					})
				observer.EXPECT().ObserveOutcome(out)
			},
			wantStatus:   http.StatusUnprocessableEntity,
			wantContains: "Could not understand the audio.",
		},
		{
			name: "not a multipart body",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader("question=hi"), "application/x-www-form-urlencoded"
			},
			setupMocks: func(*MockAssistant, *MockOutcomeObserver) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "upload too large",
			body: func(t *testing.T) (io.Reader, string) {
				big := invoiceUpload()
				big.data = bytes.Repeat([]byte{0xff}, 4096)
				return multipartBody(t, nil, big)
			},
			maxUploadBytes: 512,
			setupMocks:     func(*MockAssistant, *MockOutcomeObserver) {},
			wantStatus:     http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAssistant := NewMockAssistant(ctrl)
			mockObserver := NewMockOutcomeObserver(ctrl)

			if tt.setupMocks != nil {
				tt.setupMocks(mockAssistant, mockObserver)
			}

			maxUploadBytes := tt.maxUploadBytes
			if maxUploadBytes == 0 {
				maxUploadBytes = 1 << 20
			}
			handler := NewHandlers(mockAssistant, mockObserver, PageOptions{}, maxUploadBytes)

			body, contentType := tt.body(t)
			req := httptest.NewRequest(http.MethodPost, "/api/answer", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.AnswerHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("AnswerHandler() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantContains != "" {
				if !bytes.Contains(w.Body.Bytes(), []byte(tt.wantContains)) {
					t.Errorf("AnswerHandler() body = %s, want containing %q", w.Body.String(), tt.wantContains)
				}
			}
		})
	}
}

func TestHandler_AnswerHandler_SpeechPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	out := answeredOutcome("The total is $42.00.")
	out.Speech = &invoice.AudioClip{Data: []byte("mp3-bytes"), MIMEType: "audio/mpeg"}

	mockAssistant := NewMockAssistant(ctrl)
	mockAssistant.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(out)

	handler := NewHandlers(mockAssistant, nil, PageOptions{}, 1<<20)

	body, contentType := multipartBody(t, map[string]string{"question": "What is the total?"}, invoiceUpload())
	req := httptest.NewRequest(http.MethodPost, "/api/answer", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.AnswerHandler(w, req)

	var response types.AnswerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("AnswerHandler() invalid JSON: %v", err)
	}
	if response.Answer != "The total is $42.00." {
		t.Errorf("AnswerHandler() answer = %q, want %q", response.Answer, "The total is $42.00.")
	}
	if string(response.Audio) != "mp3-bytes" || response.AudioMIMEType != "audio/mpeg" {
		t.Errorf("AnswerHandler() audio = %q (%s), want mp3-bytes (audio/mpeg)", response.Audio, response.AudioMIMEType)
	}
	if response.ImageSource != string(invoice.SourceUpload) {
		t.Errorf("AnswerHandler() image source = %q, want %q", response.ImageSource, invoice.SourceUpload)
	}
	if response.Kind != "" {
		t.Errorf("AnswerHandler() kind = %q, want empty", response.Kind)
	}
}

func TestHandler_TranscribeHandler(t *testing.T) {
	voice := filePart{field: "voice", filename: "voice", contentType: "audio/webm", data: []byte("opus")}

	tests := []struct {
		name         string
		files        []filePart
		setupMocks   func(*MockAssistant)
		wantStatus   int
		wantContains string
	}{
		{
			name:  "successful transcription",
			files: []filePart{voice},
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Transcribe(gomock.Any(), invoice.AudioClip{Data: []byte("opus"), MIMEType: "audio/webm"}).
					Return("What is the total?", nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: "What is the total?",
		},
		{
			name:  "speech not understood",
			files: []filePart{voice},
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Transcribe(gomock.Any(), gomock.Any()).
					Return("", &invoice.Error{Kind: invoice.KindSpeechNotUnderstood, Message: "Could not understand the audio."})
			},
			wantStatus:   http.StatusUnprocessableEntity,
			wantContains: "Could not understand the audio.",
		},
		{
			name:  "speech service unavailable",
			files: []filePart{voice},
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Transcribe(gomock.Any(), gomock.Any()).
					Return("", &invoice.Error{
						Kind:    invoice.KindSpeechServiceUnavailable,
						Message: "Error connecting to the speech recognition service.",
						Cause:   errors.New("dial tcp: connection refused"),
					})
			},
			wantStatus:   http.StatusBadGateway,
			wantContains: "Error connecting to the speech recognition service.",
		},
		{
			name: "missing recording",
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Transcribe(gomock.Any(), invoice.AudioClip{}).
					Return("", &invoice.Error{Kind: invoice.KindSpeechNotUnderstood, Message: "Could not understand the audio."})
			},
			wantStatus:   http.StatusUnprocessableEntity,
			wantContains: string(invoice.KindSpeechNotUnderstood),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAssistant := NewMockAssistant(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(mockAssistant)
			}

			handler := NewHandlers(mockAssistant, nil, PageOptions{}, 1<<20)

			body, contentType := multipartBody(t, nil, tt.files...)
			req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.TranscribeHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("TranscribeHandler() status = %d, want %d", w.Code, tt.wantStatus)
			}

			if !bytes.Contains(w.Body.Bytes(), []byte(tt.wantContains)) {
				t.Errorf("TranscribeHandler() body = %s, want containing %q", w.Body.String(), tt.wantContains)
			}

			if strings.Contains(w.Body.String(), "connection refused") {
				t.Errorf("TranscribeHandler() body = %s, leaks the error cause", w.Body.String())
			}
		})
	}
}

func TestHandler_SpeechHandler(t *testing.T) {
	tests := []struct {
		name            string
		requestBody     interface{}
		setupMocks      func(*MockAssistant)
		wantStatus      int
		wantContentType string
		wantBody        string
	}{
		{
			name:        "successful synthesis",
			requestBody: types.SpeechReq{Text: "The total is $42.00."},
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Speak(gomock.Any(), "The total is $42.00.").
					Return(&invoice.AudioClip{Data: []byte("RIFF-wave"), MIMEType: "audio/wav"}, nil)
			},
			wantStatus:      http.StatusOK,
			wantContentType: "audio/wav",
			wantBody:        "RIFF-wave",
		},
		{
			name:        "invalid JSON",
			requestBody: "invalid json",
			setupMocks:  func(*MockAssistant) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty text",
			requestBody: types.SpeechReq{Text: "   "},
			setupMocks:  func(*MockAssistant) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "synthesis fails",
			requestBody: types.SpeechReq{Text: "hello"},
			setupMocks: func(assistant *MockAssistant) {
				assistant.EXPECT().
					Speak(gomock.Any(), "hello").
					Return(nil, &invoice.Error{Kind: invoice.KindSynthesisFailed, Message: "Error generating audio"})
			},
			wantStatus:      http.StatusBadGateway,
			wantContentType: "application/json",
			wantBody:        string(invoice.KindSynthesisFailed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAssistant := NewMockAssistant(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(mockAssistant)
			}

			handler := NewHandlers(mockAssistant, nil, PageOptions{}, 1<<20)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("Failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/speech", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.SpeechHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("SpeechHandler() status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantContentType != "" {
				if got := w.Header().Get("Content-Type"); got != tt.wantContentType {
					t.Errorf("SpeechHandler() Content-Type = %q, want %q", got, tt.wantContentType)
				}
			}

			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("SpeechHandler() body = %q, want containing %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind invoice.Kind
		want int
	}{
		{invoice.KindNoImageProvided, http.StatusBadRequest},
		{invoice.KindEmptyQuestion, http.StatusBadRequest},
		{invoice.KindUnsupportedImage, http.StatusBadRequest},
		{invoice.KindSpeechNotUnderstood, http.StatusUnprocessableEntity},
		{invoice.KindSpeechServiceUnavailable, http.StatusBadGateway},
		{invoice.KindModelCallFailed, http.StatusBadGateway},
		{invoice.KindSynthesisFailed, http.StatusBadGateway},
		{invoice.Kind(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := statusForKind(tt.kind); got != tt.want {
				t.Errorf("statusForKind(%q) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		message    string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "error with message",
			status:     http.StatusBadRequest,
			message:    "Invalid request",
			err:        errors.New("validation failed"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Bad Request",
		},
		{
			name:       "error without message",
			status:     http.StatusInternalServerError,
			message:    "Server error",
			err:        nil,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			errorResponse(w, tt.status, tt.message, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("errorResponse() status = %d, want %d", w.Code, tt.wantStatus)
			}

			var response types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("errorResponse() invalid JSON: %v", err)
			}

			if response.Error != tt.wantError {
				t.Errorf("errorResponse() Error = %q, want %q", response.Error, tt.wantError)
			}

			if tt.message != "" {
				if !strings.Contains(response.Message, tt.message) {
					t.Errorf("errorResponse() Message = %q, want containing %q", response.Message, tt.message)
				}
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	HealthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("HealthHandler() status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("HealthHandler() invalid JSON: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("HealthHandler() status = %q, want %q", response["status"], "ok")
	}
}
