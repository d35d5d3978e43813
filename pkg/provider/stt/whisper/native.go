// This file contains the NativeProvider implementation backed by the
// whisper.cpp CGO bindings. The whisper.cpp static library (libwhisper.a)
// and headers (whisper.h) must be available at link time via LIBRARY_PATH
// and C_INCLUDE_PATH environment variables.
//
// NativeProvider is the Tier 3 high-capacity collaborator: it loads a
// medium-sized model directly into process memory, avoiding a second
// network hop, at the cost of a multi-second load on first use.

package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Compile-time assertion that NativeProvider satisfies stt.Provider.
var _ stt.Provider = (*NativeProvider)(nil)

// NativeProvider implements stt.Provider using whisper.cpp Go bindings
// (CGO), eliminating HTTP overhead entirely. The model is loaded once by
// the caller (see internal/pipeline for the lazy, single-flight wrapper)
// and shared across all Transcribe calls.
type NativeProvider struct {
	model whisperlib.Model
}

// NewNative loads a whisper.cpp model from modelPath. Loading is eager and
// synchronous: callers that want lazy, one-shot initialization should defer
// calling NewNative until the first Tier 3 escalation (see the Tier3Loader
// taken by internal/pipeline.NewTieredTranscriber).
func NewNative(modelPath string) (*NativeProvider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}
	return &NativeProvider{model: model}, nil
}

// Close releases the whisper model. Must be called when the provider is no
// longer needed.
func (p *NativeProvider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe decodes req.Audio as 16-bit PCM WAV, runs whisper.cpp
// inference in a fresh context (contexts are not safe for concurrent use,
// but the underlying model is, so concurrent Transcribe calls each get
// their own context), and returns the concatenated segment text plus
// quality signals derived from the segments.
func (p *NativeProvider) Transcribe(ctx context.Context, req stt.Request) (stt.Result, error) {
	if err := ctx.Err(); err != nil {
		return stt.Result{}, fmt.Errorf("whisper: context already cancelled: %w", err)
	}
	samples, sampleRate, err := decodeWAVFloat32Mono(req.Audio)
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: decode audio: %w", err)
	}

	wctx, err := p.model.NewContext()
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: create context: %w", err)
	}
	if req.Language != "" {
		if err := wctx.SetLanguage(req.Language); err != nil {
			return stt.Result{}, fmt.Errorf("whisper: set language: %w", err)
		}
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return stt.Result{}, fmt.Errorf("whisper: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stt.Result{}, fmt.Errorf("whisper: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	// The CGO bindings do not surface per-segment log-probability or
	// no-speech probability, unlike the HTTP server's JSON payload; the
	// caller degrades to tier -1 handling if this tier's text looks empty.
	return stt.Result{
		Text:            strings.Join(parts, " "),
		Language:        req.Language,
		Confidence:      1.0,
		DurationSeconds: float64(len(samples)) / float64(sampleRate),
	}, nil
}
