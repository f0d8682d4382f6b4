package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vokinneberg/invoice-assistant/internal/speech"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string `validate:"required,numeric"`
	MaxUploadBytes int64  `validate:"gt=0"`
	LogLevel       string `validate:"oneof=debug info warn error"`

	// Answer model configuration
	ModelProvider string `validate:"oneof=gemini openai"`
	GeminiAPIKey  string
	GeminiModel   string `validate:"required"`
	OpenAIAPIKey  string
	OpenAIModel   string `validate:"required"`

	// Speech configuration
	SpeechInput           bool
	SpeechOutput          bool
	RecognitionBackend    string `validate:"oneof=gemini openai"`
	SynthesisBackend      string `validate:"oneof=cloud local"`
	OpenAITranscribeModel string `validate:"required"`
	OpenAISpeechModel     string `validate:"required"`
	OpenAIVoice           string `validate:"required"`
	LocalTTSCommand       string `validate:"required_if=SynthesisBackend local"`
	SpeechLanguage        string
	ListenTimeout         time.Duration `validate:"gt=0"`

	// Interaction configuration
	RequireImage bool
}

// LoadConfig loads configuration from the .env file, environment variables
// and command-line flags. Flags take precedence over environment variables,
// which take precedence over the .env file.
func LoadConfig() (*Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load is LoadConfig with an explicit flag set and arguments.
func Load(flags *flag.FlagSet, args []string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Define flags
	flags.StringVar(&cfg.ServerPort, "server-port", v.GetString("SERVER_PORT"), "Server port")
	flags.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", v.GetInt64("MAX_UPLOAD_BYTES"), "Maximum request body size in bytes")
	flags.StringVar(&cfg.LogLevel, "log-level", v.GetString("LOG_LEVEL"), "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.ModelProvider, "model-provider", v.GetString("MODEL_PROVIDER"), "Answer model provider (gemini, openai)")
	flags.StringVar(&cfg.GeminiAPIKey, "google-api-key", v.GetString("GOOGLE_API_KEY"), "Google Gemini API key")
	flags.StringVar(&cfg.GeminiModel, "gemini-model", v.GetString("GEMINI_MODEL"), "Gemini model for answers and transcription")
	flags.StringVar(&cfg.OpenAIAPIKey, "openai-key", v.GetString("OPENAI_API_KEY"), "OpenAI API key")
	flags.StringVar(&cfg.OpenAIModel, "openai-model", v.GetString("OPENAI_MODEL"), "OpenAI model for answers")
	flags.BoolVar(&cfg.SpeechInput, "speech-input", v.GetBool("SPEECH_INPUT"), "Enable spoken questions")
	flags.BoolVar(&cfg.SpeechOutput, "speech-output", v.GetBool("SPEECH_OUTPUT"), "Enable spoken answers")
	flags.StringVar(&cfg.RecognitionBackend, "recognition-backend", v.GetString("RECOGNITION_BACKEND"), "Speech recognition backend (gemini, openai)")
	flags.StringVar(&cfg.SynthesisBackend, "synthesis-backend", v.GetString("SYNTHESIS_BACKEND"), "Speech synthesis backend (cloud, local)")
	flags.StringVar(&cfg.OpenAITranscribeModel, "openai-transcribe-model", v.GetString("OPENAI_TRANSCRIBE_MODEL"), "OpenAI model for transcription")
	flags.StringVar(&cfg.OpenAISpeechModel, "openai-speech-model", v.GetString("OPENAI_SPEECH_MODEL"), "OpenAI model for speech synthesis")
	flags.StringVar(&cfg.OpenAIVoice, "openai-voice", v.GetString("OPENAI_VOICE"), "OpenAI synthesis voice")
	flags.StringVar(&cfg.LocalTTSCommand, "local-tts-command", v.GetString("LOCAL_TTS_COMMAND"), "Local speech engine command (text on stdin, WAV on stdout)")
	flags.StringVar(&cfg.SpeechLanguage, "speech-language", v.GetString("SPEECH_LANGUAGE"), "Language of spoken questions")
	flags.DurationVar(&cfg.ListenTimeout, "listen-timeout", v.GetDuration("LISTEN_TIMEOUT"), "Voice capture window")
	flags.BoolVar(&cfg.RequireImage, "require-image", v.GetBool("REQUIRE_IMAGE"), "Require an invoice image for every question")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// Validate
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper resolves defaults, the optional .env file and the environment.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("ENV_FILE", ".env")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MODEL_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4.1-mini")
	v.SetDefault("SPEECH_INPUT", true)
	v.SetDefault("SPEECH_OUTPUT", true)
	v.SetDefault("RECOGNITION_BACKEND", "gemini")
	v.SetDefault("SYNTHESIS_BACKEND", "cloud")
	v.SetDefault("OPENAI_TRANSCRIBE_MODEL", "whisper-1")
	v.SetDefault("OPENAI_SPEECH_MODEL", "tts-1")
	v.SetDefault("OPENAI_VOICE", "alloy")
	v.SetDefault("LOCAL_TTS_COMMAND", speech.DefaultLocalCommand)
	v.SetDefault("SPEECH_LANGUAGE", "en")
	v.SetDefault("LISTEN_TIMEOUT", 5*time.Second)
	v.SetDefault("REQUIRE_IMAGE", true)

	v.AutomaticEnv()

	// The .env file is optional.
	envFile := v.GetString("ENV_FILE")
	if envFile == "" {
		return v, nil
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	return v, nil
}
