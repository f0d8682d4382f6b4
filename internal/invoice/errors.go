package invoice

import (
	"errors"
	"fmt"
)

// Kind classifies why an interaction could not produce a normal answer.
type Kind string

const (
	KindNoImageProvided          Kind = "NO_IMAGE_PROVIDED"
	KindEmptyQuestion            Kind = "EMPTY_QUESTION"
	KindUnsupportedImage         Kind = "UNSUPPORTED_IMAGE"
	KindSpeechNotUnderstood      Kind = "SPEECH_NOT_UNDERSTOOD"
	KindSpeechServiceUnavailable Kind = "SPEECH_SERVICE_UNAVAILABLE"
	KindModelCallFailed          Kind = "MODEL_CALL_FAILED"
	KindSynthesisFailed          Kind = "SYNTHESIS_FAILED"
)

// ErrSpeechUnrecognized is returned by recognizers when the audio was received
// but contained nothing they could transcribe.
var ErrSpeechUnrecognized = errors.New("speech could not be recognized")

// Error is a user-displayable failure of one interaction step.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Precondition reports whether the kind stops an interaction before any external call.
func (k Kind) Precondition() bool {
	switch k {
	case KindNoImageProvided, KindEmptyQuestion, KindUnsupportedImage:
		return true
	}
	return false
}
