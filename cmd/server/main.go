package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vokinneberg/invoice-assistant/internal/config"
	"github.com/vokinneberg/invoice-assistant/internal/invoice"
	"github.com/vokinneberg/invoice-assistant/internal/llm"
	"github.com/vokinneberg/invoice-assistant/internal/metrics"
	"github.com/vokinneberg/invoice-assistant/internal/observability"
	"github.com/vokinneberg/invoice-assistant/internal/speech"

	httphandler "github.com/vokinneberg/invoice-assistant/internal/http"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(observability.NewLogger(os.Stdout, cfg.LogLevel))

	m := metrics.New()

	assistant, err := newAssistant(context.Background(), cfg, m)
	if err != nil {
		slog.Error("Failed to create assistant", "error", err)
		os.Exit(1)
	}
	slog.Info("Initialized assistant",
		"provider", cfg.ModelProvider,
		"speech_input", cfg.SpeechInput,
		"speech_output", cfg.SpeechOutput,
		"require_image", cfg.RequireImage)

	// Initialize HTTP handlers
	handler := httphandler.NewHandlers(assistant, m, httphandler.PageOptions{
		SpeechInput:   cfg.SpeechInput,
		SpeechOutput:  cfg.SpeechOutput,
		RequireImage:  cfg.RequireImage,
		ListenTimeout: cfg.ListenTimeout,
	}, cfg.MaxUploadBytes)

	// Create router
	r := httphandler.NewRouter(handler, m.Handler(), m)

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server running", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// newAssistant builds the configured backends, each wrapped with logging and
// metrics, and hands them to the interaction controller.
func newAssistant(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*invoice.Assistant, error) {
	openaiClient := llm.NewClient(cfg.OpenAIAPIKey, llm.OpenAIOptions{
		Model:           cfg.OpenAIModel,
		TranscribeModel: cfg.OpenAITranscribeModel,
		SpeechModel:     cfg.OpenAISpeechModel,
		Voice:           cfg.OpenAIVoice,
		Language:        cfg.SpeechLanguage,
	})

	var geminiClient *llm.GeminiClient
	if cfg.ModelProvider == "gemini" || (cfg.SpeechInput && cfg.RecognitionBackend == "gemini") {
		c, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return nil, err
		}
		geminiClient = c
	}

	var model invoice.AnswerModel
	switch cfg.ModelProvider {
	case "gemini":
		model = geminiClient
	case "openai":
		model = openaiClient
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
	model = m.InstrumentModel(llm.NewLoggingAnswerModel(model, cfg.ModelProvider), cfg.ModelProvider)

	var recognizer invoice.SpeechRecognizer
	if cfg.SpeechInput {
		switch cfg.RecognitionBackend {
		case "gemini":
			recognizer = geminiClient
		case "openai":
			recognizer = openaiClient
		default:
			return nil, fmt.Errorf("unknown recognition backend %q", cfg.RecognitionBackend)
		}
		recognizer = m.InstrumentRecognizer(llm.NewLoggingRecognizer(recognizer, cfg.RecognitionBackend), cfg.RecognitionBackend)
	}

	var synthesizer invoice.SpeechSynthesizer
	if cfg.SpeechOutput {
		switch cfg.SynthesisBackend {
		case "cloud":
			synthesizer = openaiClient
		case "local":
			local, err := speech.NewLocalSynthesizer(cfg.LocalTTSCommand, "audio/wav")
			if err != nil {
				return nil, err
			}
			synthesizer = local
		default:
			return nil, fmt.Errorf("unknown synthesis backend %q", cfg.SynthesisBackend)
		}
		synthesizer = m.InstrumentSynthesizer(llm.NewLoggingSynthesizer(synthesizer, cfg.SynthesisBackend), cfg.SynthesisBackend)
	}

	return invoice.NewAssistant(model, recognizer, synthesizer, invoice.Options{
		SpeechInput:  cfg.SpeechInput,
		SpeechOutput: cfg.SpeechOutput,
		RequireImage: cfg.RequireImage,
	})
}
