package whisper_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
	"github.com/MrWong99/glyphoxa/pkg/provider/stt/whisper"
)

func newMockServer(t *testing.T, response any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/inference" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestProvider_Transcribe_NoSegments(t *testing.T) {
	srv := newMockServer(t, map[string]any{"text": "hello doctor", "language": "en"})
	defer srv.Close()

	p, err := whisper.New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := p.Transcribe(context.Background(), stt.Request{Audio: []byte("fake wav"), Filename: "a.wav"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Text != "hello doctor" {
		t.Fatalf("Text = %q, want %q", result.Text, "hello doctor")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("Confidence = %v, want 1.0 when no segments reported", result.Confidence)
	}
}

func TestProvider_Transcribe_SegmentsDeriveConfidence(t *testing.T) {
	srv := newMockServer(t, map[string]any{
		"text":     "take one tablet twice daily",
		"language": "en",
		"segments": []map[string]any{
			{"text": "take one tablet", "avg_logprob": -0.1, "no_speech_prob": 0.05, "duration": 1.5},
			{"text": "twice daily", "avg_logprob": -0.3, "no_speech_prob": 0.2, "duration": 1.0},
		},
	})
	defer srv.Close()

	p, err := whisper.New(srv.URL, whisper.WithModel("base"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := p.Transcribe(context.Background(), stt.Request{Audio: []byte("fake wav")})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Confidence <= 0 || result.Confidence >= 1 {
		t.Fatalf("Confidence = %v, want value in (0,1) derived from avg_logprob", result.Confidence)
	}
	if result.NoSpeechProb != 0.2 {
		t.Fatalf("NoSpeechProb = %v, want max across segments (0.2)", result.NoSpeechProb)
	}
	if result.DurationSeconds != 2.5 {
		t.Fatalf("DurationSeconds = %v, want sum across segments (2.5)", result.DurationSeconds)
	}
}

func TestProvider_Transcribe_EmptyAudioRejected(t *testing.T) {
	p, err := whisper.New("http://unused.invalid")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Transcribe(context.Background(), stt.Request{}); err == nil {
		t.Fatal("expected error for empty audio, got nil")
	}
}

func TestProvider_Transcribe_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := whisper.New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Transcribe(context.Background(), stt.Request{Audio: []byte("x")}); err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
}

func TestNew_RejectsEmptyServerURL(t *testing.T) {
	if _, err := whisper.New(""); err == nil {
		t.Fatal("expected error for empty serverURL, got nil")
	}
}
