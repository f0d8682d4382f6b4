package types

// AnswerResponse represents the result of one question about an invoice
type AnswerResponse struct {
	Answer        string `json:"answer"`
	Question      string `json:"question"`
	Transcript    string `json:"transcript,omitempty"`
	ImageSource   string `json:"image_source,omitempty"`
	Audio         []byte `json:"audio,omitempty"`
	AudioMIMEType string `json:"audio_mime_type,omitempty"`
	SpeechError   string `json:"speech_error,omitempty"`
	Kind          string `json:"kind,omitempty"`
}

// TranscriptResponse represents a transcribed voice question
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// SpeechReq asks for an answer to be read aloud
type SpeechReq struct {
	Text string `json:"text"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
