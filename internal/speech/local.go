package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

// DefaultLocalCommand reads text on stdin and writes a WAV stream to stdout.
const DefaultLocalCommand = "espeak-ng --stdout -v en"

// LocalSynthesizer runs an OS speech engine. Audio is captured in memory;
// nothing is written to disk.
type LocalSynthesizer struct {
	name     string
	args     []string
	mimeType string
}

// NewLocalSynthesizer builds a synthesizer from a command line such as
// "espeak-ng --stdout -v en". The engine must write audio of mimeType to stdout.
func NewLocalSynthesizer(command, mimeType string) (*LocalSynthesizer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("local speech command is empty")
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	return &LocalSynthesizer{name: fields[0], args: fields[1:], mimeType: mimeType}, nil
}

// Synthesize feeds text to the engine and returns what it printed.
func (s *LocalSynthesizer) Synthesize(ctx context.Context, text string) (*invoice.AudioClip, error) {
	cmd := exec.CommandContext(ctx, s.name, s.args...)
	cmd.Stdin = strings.NewReader(text)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", s.name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced no audio", s.name)
	}

	return &invoice.AudioClip{Data: out.Bytes(), MIMEType: s.mimeType}, nil
}
