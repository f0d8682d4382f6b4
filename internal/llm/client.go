package llm

import (
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrMissingAPIKey is returned on every call of a client built without a key.
var ErrMissingAPIKey = errors.New("API key is not configured")

// OpenAIOptions configures the OpenAI models used by Client.
type OpenAIOptions struct {
	Model           string
	TranscribeModel string
	SpeechModel     string
	Voice           string
	Language        string
	// BaseURL overrides the API endpoint; empty means the public API.
	BaseURL string
}

// Client wraps OpenAI client and provides invoice-specific methods
type Client struct {
	client *openai.Client
	hasKey bool
	opts   OpenAIOptions
}

// NewClient creates a new LLM client with API key
func NewClient(apiKey string, opts OpenAIOptions) *Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return &Client{
		client: &client,
		hasKey: apiKey != "",
		opts:   opts,
	}
}
