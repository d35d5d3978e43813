// Package stt defines the Provider interface for batch Speech-to-Text backends.
//
// Unlike a real-time streaming transcriber, a Provider here receives one
// complete audio recording and returns one transcription result. This
// matches the pipeline's tiered, quality-gated transcription policy: each
// tier issues a single Transcribe call and inspects the result before
// deciding whether to escalate.
package stt

import "context"

// Mode selects between transcription (native-language output) and
// translation (forced English output). The pipeline always uses
// ModeTranscribe; ModeTranslate exists so providers implement the full
// collaborator contract described by the specification.
type Mode int

const (
	ModeTranscribe Mode = iota
	ModeTranslate
)

// Request describes one batch transcription call.
type Request struct {
	// Audio holds the complete audio file content.
	Audio []byte

	// Filename is a hint used to pick a content type / container for
	// providers that need one (e.g. "consult.wav", "consult.mp3").
	Filename string

	// Language is a BCP-47 or ISO 639-1 hint ("en", "ta", "ar"). Empty
	// lets the provider auto-detect.
	Language string

	// Model overrides the provider's default model identifier for this
	// call. Empty uses the provider's configured default.
	Model string

	// Mode selects transcribe vs translate. The core always passes
	// ModeTranscribe (see §4.2 Arabic special case).
	Mode Mode
}

// Result is the provider's best-effort transcription of one Request.
type Result struct {
	// Text is the transcribed (or translated) text.
	Text string

	// Language is the language the provider detected, independent of
	// any hint supplied in the Request.
	Language string

	// Confidence is an overall confidence in [0,1]. Providers that do not
	// report a native score derive one (e.g. from segment log-probabilities)
	// or return 1.0 if no signal is available.
	Confidence float64

	// NoSpeechProb is the provider's estimate that the audio contains no
	// speech, in [0,1]. Providers that do not compute this return 0.
	NoSpeechProb float64

	// DurationSeconds is the audio's play length, used by the pipeline to
	// compute words-per-minute for the quality gate.
	DurationSeconds float64
}

// Provider is the abstraction over any batch STT backend.
//
// Implementations must be safe for concurrent use: the pipeline may run
// multiple invocations in parallel against a single shared Provider.
type Provider interface {
	// Transcribe runs one batch transcription. Returns an error only when
	// the provider could not complete the call (network failure, server
	// error, context cancellation); a successful call with low-confidence
	// or empty output is not an error — the caller applies the quality gate.
	Transcribe(ctx context.Context, req Request) (Result, error)
}
