package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

type answerModelDecorator struct {
	wrapped invoice.AnswerModel
	name    string
}

// NewLoggingAnswerModel logs every model call with its duration.
func NewLoggingAnswerModel(wrapped invoice.AnswerModel, name string) invoice.AnswerModel {
	return &answerModelDecorator{wrapped: wrapped, name: name}
}

func (d *answerModelDecorator) GenerateAnswer(ctx context.Context, prompt string, image *invoice.ImagePayload, question string) (string, error) {
	t := time.Now()
	imageBytes := 0
	if image != nil {
		imageBytes = len(image.Data)
	}

	answer, err := d.wrapped.GenerateAnswer(ctx, prompt, image, question)
	if err != nil {
		slog.WarnContext(ctx, "Model call failed", "model", d.name, "error", err, "took_ms", time.Since(t).Milliseconds())
		return "", err
	}

	slog.DebugContext(ctx, "Model call",
		"model", d.name,
		"image_bytes", imageBytes,
		"question", question,
		"answer", answer,
		"took_ms", time.Since(t).Milliseconds())
	return answer, nil
}

type recognizerDecorator struct {
	wrapped invoice.SpeechRecognizer
	name    string
}

// NewLoggingRecognizer logs every transcription with its duration.
func NewLoggingRecognizer(wrapped invoice.SpeechRecognizer, name string) invoice.SpeechRecognizer {
	return &recognizerDecorator{wrapped: wrapped, name: name}
}

func (d *recognizerDecorator) Transcribe(ctx context.Context, clip invoice.AudioClip) (string, error) {
	t := time.Now()
	text, err := d.wrapped.Transcribe(ctx, clip)
	if err != nil {
		slog.WarnContext(ctx, "Transcription failed", "recognizer", d.name, "error", err, "took_ms", time.Since(t).Milliseconds())
		return "", err
	}
	slog.DebugContext(ctx, "Transcription", "recognizer", d.name, "audio_bytes", len(clip.Data), "text", text, "took_ms", time.Since(t).Milliseconds())
	return text, nil
}

type synthesizerDecorator struct {
	wrapped invoice.SpeechSynthesizer
	name    string
}

// NewLoggingSynthesizer logs every synthesis with its duration.
func NewLoggingSynthesizer(wrapped invoice.SpeechSynthesizer, name string) invoice.SpeechSynthesizer {
	return &synthesizerDecorator{wrapped: wrapped, name: name}
}

func (d *synthesizerDecorator) Synthesize(ctx context.Context, text string) (*invoice.AudioClip, error) {
	t := time.Now()
	clip, err := d.wrapped.Synthesize(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "Synthesis failed", "synthesizer", d.name, "error", err, "took_ms", time.Since(t).Milliseconds())
		return nil, err
	}
	slog.DebugContext(ctx, "Synthesis", "synthesizer", d.name, "chars", len(text), "took_ms", time.Since(t).Milliseconds())
	return clip, nil
}
