package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate mockgen -source=assistant.go -destination=mock_assistant.go -package=invoice

// AnswerModel defines the interface for multimodal answer generation.
// image is nil when the question is asked without image context.
type AnswerModel interface {
	GenerateAnswer(ctx context.Context, prompt string, image *ImagePayload, question string) (string, error)
}

// SpeechRecognizer defines the interface for speech-to-text backends
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, clip AudioClip) (string, error)
}

// SpeechSynthesizer defines the interface for text-to-speech backends
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*AudioClip, error)
}

// Options toggles the optional parts of an interaction.
type Options struct {
	SpeechInput  bool
	SpeechOutput bool
	// RequireImage applies to typed and spoken questions alike.
	RequireImage bool
}

// Answer is what the user sees after a model call. Text is always
// displayable; Err is set when Text is an error message.
type Answer struct {
	Text string
	Err  error
}

// Failed reports whether the model call failed.
func (a Answer) Failed() bool {
	return a.Err != nil
}

// Request is the input of one interaction.
type Request struct {
	Upload     *RawImage
	Capture    *RawImage
	LastSource ImageSource
	Question   string
	Voice      *AudioClip
}

// Outcome is the result of one interaction. When Err is set the interaction
// stopped before the model was called and Answer is empty.
type Outcome struct {
	Image       *ImagePayload
	ImageSource ImageSource
	Question    string
	Transcript  string
	Answer      Answer
	Speech      *AudioClip
	SpeechErr   error
	Err         error
}

// Assistant orchestrates input acquisition, answer generation and speech.
type Assistant struct {
	model       AnswerModel
	recognizer  SpeechRecognizer
	synthesizer SpeechSynthesizer
	opts        Options
}

// NewAssistant creates a new assistant. recognizer and synthesizer may be nil
// when the matching option is off.
func NewAssistant(model AnswerModel, recognizer SpeechRecognizer, synthesizer SpeechSynthesizer, opts Options) (*Assistant, error) {
	if model == nil {
		return nil, fmt.Errorf("answer model is required")
	}
	if opts.SpeechInput && recognizer == nil {
		return nil, fmt.Errorf("speech input is enabled but no recognizer is configured")
	}
	if opts.SpeechOutput && synthesizer == nil {
		return nil, fmt.Errorf("speech output is enabled but no synthesizer is configured")
	}

	return &Assistant{
		model:       model,
		recognizer:  recognizer,
		synthesizer: synthesizer,
		opts:        opts,
	}, nil
}

// Options returns the options the assistant was built with.
func (a *Assistant) Options() Options {
	return a.opts
}

// Ask runs one interaction end to end. It never returns an error: every
// failure is reported through the outcome.
func (a *Assistant) Ask(ctx context.Context, req Request) *Outcome {
	out := &Outcome{}

	// Image check comes first so a missing image never costs a recognition call.
	raw, source, err := SelectImage(req.Upload, req.Capture, req.LastSource)
	switch {
	case err == nil:
		out.Image, err = NewImagePayload(raw.Data, raw.MIMEType)
		if err != nil {
			out.Err = err
			return out
		}
		out.ImageSource = source
	case a.opts.RequireImage:
		out.Err = err
		return out
	}

	question, transcript, err := a.ResolveQuestion(ctx, req.Question, req.Voice)
	out.Transcript = transcript
	if err != nil {
		out.Err = err
		return out
	}
	out.Question = question

	out.Answer = a.GenerateAnswer(ctx, Prompt, out.Image, question)
	slog.InfoContext(ctx, "Answer generated",
		"image_source", out.ImageSource,
		"voice", transcript != "",
		"failed", out.Answer.Failed())

	// The displayed text is read aloud, error text included.
	if a.opts.SpeechOutput {
		out.Speech, out.SpeechErr = a.Speak(ctx, out.Answer.Text)
	}

	return out
}

// ResolveQuestion returns the question to ask. A voice clip, when speech input
// is enabled, gets exactly one recognition attempt and replaces the typed text.
func (a *Assistant) ResolveQuestion(ctx context.Context, text string, voice *AudioClip) (question, transcript string, err error) {
	if voice != nil && a.opts.SpeechInput {
		transcript, err = a.Transcribe(ctx, *voice)
		if err != nil {
			return "", "", err
		}
		return transcript, transcript, nil
	}

	question = strings.TrimSpace(text)
	if question == "" {
		return "", "", newError(KindEmptyQuestion, "Please provide a question.", nil)
	}
	return question, "", nil
}

// Transcribe converts a voice clip to text.
func (a *Assistant) Transcribe(ctx context.Context, clip AudioClip) (string, error) {
	if !a.opts.SpeechInput || a.recognizer == nil {
		return "", newError(KindSpeechServiceUnavailable, "Voice input is disabled.", nil)
	}
	if len(clip.Data) == 0 {
		return "", newError(KindSpeechNotUnderstood, "Could not understand the audio.", nil)
	}

	text, err := a.recognizer.Transcribe(ctx, clip)
	if err != nil {
		if errors.Is(err, ErrSpeechUnrecognized) || errors.Is(err, context.DeadlineExceeded) {
			return "", newError(KindSpeechNotUnderstood, "Could not understand the audio.", err)
		}
		slog.ErrorContext(ctx, "Error transcribing voice input", "error", err)
		return "", newError(KindSpeechServiceUnavailable, "Error connecting to the speech recognition service.", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", newError(KindSpeechNotUnderstood, "Could not understand the audio.", nil)
	}
	return text, nil
}

// GenerateAnswer asks the model. Failures come back as displayable text
// prefixed with "Error generating response: ".
func (a *Assistant) GenerateAnswer(ctx context.Context, prompt string, image *ImagePayload, question string) Answer {
	text, err := a.model.GenerateAnswer(ctx, prompt, image, question)
	if err != nil {
		slog.ErrorContext(ctx, "Error generating answer", "error", err, "question", question)
		return Answer{
			Text: fmt.Sprintf("Error generating response: %v", err),
			Err:  newError(KindModelCallFailed, "Error generating response", err),
		}
	}
	return Answer{Text: text}
}

// Speak synthesizes text into audio.
func (a *Assistant) Speak(ctx context.Context, text string) (*AudioClip, error) {
	if !a.opts.SpeechOutput || a.synthesizer == nil {
		return nil, newError(KindSynthesisFailed, "Voice output is disabled.", nil)
	}
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindSynthesisFailed, "Error generating audio", errors.New("nothing to read"))
	}

	clip, err := a.synthesizer.Synthesize(ctx, text)
	if err != nil {
		slog.ErrorContext(ctx, "Error synthesizing answer", "error", err)
		return nil, newError(KindSynthesisFailed, "Error generating audio", err)
	}
	if clip == nil || len(clip.Data) == 0 {
		return nil, newError(KindSynthesisFailed, "Error generating audio", errors.New("synthesizer returned no audio"))
	}
	return clip, nil
}
