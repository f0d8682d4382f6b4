package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

// noSpeechMarker is what the model is told to reply when it hears no words.
const noSpeechMarker = "NO_SPEECH"

var transcriptionPrompt = `
Transcribe the spoken question in the attached audio exactly as it was said.
Reply with the transcript only, without quotes or commentary.
If the audio contains no intelligible speech, reply with ` + noSpeechMarker + `.
`

type GeminiClient struct {
	Client *genai.Client
	Model  string
}

// NewGeminiClient creates a Gemini client. Without an API key the client is
// still returned and fails each call with ErrMissingAPIKey.
func NewGeminiClient(ctx context.Context, apikey, model, baseURL string) (*GeminiClient, error) {
	if apikey == "" {
		return &GeminiClient{Model: model}, nil
	}

	cfg := &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{Client: client, Model: model}, nil
}

// GenerateAnswer sends the prompt, the image and the question as one user turn.
func (g *GeminiClient) GenerateAnswer(ctx context.Context, prompt string, image *invoice.ImagePayload, question string) (string, error) {
	if g.Client == nil {
		return "", ErrMissingAPIKey
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if image != nil {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(question))

	result, err := g.Client.Models.GenerateContent(
		ctx,
		g.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer from gemini: %w", err)
	}

	if len(result.Candidates) == 0 {
		if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return "", fmt.Errorf("no candidates in response: prompt blocked (%s)", fb.BlockReason)
		}
		return "", fmt.Errorf("no candidates in response")
	}
	answer := result.Text()
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("empty answer in response")
	}

	return answer, nil
}

// Transcribe asks the model for a verbatim transcript of the clip.
func (g *GeminiClient) Transcribe(ctx context.Context, clip invoice.AudioClip) (string, error) {
	if g.Client == nil {
		return "", ErrMissingAPIKey
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcriptionPrompt),
		genai.NewPartFromBytes(clip.Data, clip.MIMEType),
	}
	result, err := g.Client.Models.GenerateContent(
		ctx,
		g.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio with gemini: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" || strings.Contains(text, noSpeechMarker) {
		return "", invoice.ErrSpeechUnrecognized
	}
	return text, nil
}
