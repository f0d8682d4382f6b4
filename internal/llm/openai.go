package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

// GenerateAnswer answers a question about the invoice image
func (c *Client) GenerateAnswer(ctx context.Context, prompt string, image *invoice.ImagePayload, question string) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, 2)
	if image != nil {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(image.MIMEType, image.Data),
		}))
	}
	parts = append(parts, openai.TextContentPart(question))

	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(strings.TrimSpace(prompt)),
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return res.Choices[0].Message.Content, nil
}

// Transcribe converts recorded speech to text with the transcription model
func (c *Client) Transcribe(ctx context.Context, clip invoice.AudioClip) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(clip.Data), audioFilename(clip.MIMEType), clip.MIMEType),
		Model: openai.AudioModel(c.opts.TranscribeModel),
	}
	if c.opts.Language != "" {
		params.Language = openai.String(c.opts.Language)
	}

	res, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", invoice.ErrSpeechUnrecognized
	}
	return text, nil
}

// Synthesize reads text aloud with the speech model and returns MP3 audio
func (c *Client) Synthesize(ctx context.Context, text string) (*invoice.AudioClip, error) {
	if !c.hasKey {
		return nil, ErrMissingAPIKey
	}

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.opts.SpeechModel),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(c.opts.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized speech: %w", err)
	}

	return &invoice.AudioClip{Data: data, MIMEType: "audio/mpeg"}, nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// audioFilename gives the upload a name whose extension matches its type;
// the transcription endpoint infers the container from it.
func audioFilename(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(mt) {
	case "audio/webm":
		return "speech.webm"
	case "audio/ogg":
		return "speech.ogg"
	case "audio/mpeg", "audio/mp3":
		return "speech.mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "speech.m4a"
	default:
		return "speech.wav"
	}
}
