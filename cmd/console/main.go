package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/gabriel-vasile/mimetype"

	"github.com/vokinneberg/invoice-assistant/internal/types"
)

func main() {
	audioDir := flag.String("audio-dir", "", "directory to save spoken answers to")
	flag.Parse()

	if flag.NArg() < 2 {
		slog.Error("Usage: console [-audio-dir dir] <server-url> <image-path>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *audioDir); err != nil {
		slog.Error("Console failed", "error", err)
		os.Exit(1)
	}
}

func run(serverURL, imagePath, audioDir string) error {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	c := &client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: 2 * time.Minute},
	}

	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()

	for n := 1; ; n++ {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		resp, err := c.ask(filepath.Base(imagePath), image, question)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(resp.Answer)

		if audioDir != "" && len(resp.Audio) > 0 {
			path := filepath.Join(audioDir, fmt.Sprintf("answer-%d%s", n, audioExtension(resp.AudioMIMEType)))
			if err := os.WriteFile(path, resp.Audio, 0o644); err != nil {
				slog.Error("Failed to save audio", "path", path, "error", err)
				continue
			}
			slog.Info("Saved spoken answer", "path", path)
		}
	}
	return nil
}

type client struct {
	serverURL string
	http      *http.Client
}

// ask posts the invoice and a typed question to the answer endpoint.
func (c *client) ask(filename string, image []byte, question string) (*types.AnswerResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="upload"; filename=%q`, filename))
	header.Set("Content-Type", mimetype.Detect(image).String())
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.WriteField("source", "upload"); err != nil {
		return nil, err
	}
	if err := mw.WriteField("question", question); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/answer", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// A failed model call still carries the answer text.
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusBadGateway {
		var answer types.AnswerResponse
		if err := json.Unmarshal(data, &answer); err == nil && answer.Answer != "" {
			return &answer, nil
		}
	}

	var errResp types.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil || errResp.Message == "" {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil, fmt.Errorf("%s", errResp.Message)
}

func audioExtension(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ".audio"
}
