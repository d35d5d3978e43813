package whisper

import (
	"context"
	"os"
	"testing"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
)

// testModelPath returns the path to a whisper.cpp model for integration
// tests. It reads from WHISPER_MODEL_PATH. If unset, the test is skipped —
// loading the CGO bindings requires a real model file on disk.
func testModelPath(t *testing.T) string {
	t.Helper()
	p := os.Getenv("WHISPER_MODEL_PATH")
	if p == "" {
		t.Skip("WHISPER_MODEL_PATH not set; skipping native whisper test")
	}
	return p
}

func TestNewNative_EmptyPath_ReturnsError(t *testing.T) {
	if _, err := NewNative(""); err == nil {
		t.Fatal("expected error for empty model path, got nil")
	}
}

func TestNewNative_InvalidPath_ReturnsError(t *testing.T) {
	if _, err := NewNative("/nonexistent/path/to/model.bin"); err == nil {
		t.Fatal("expected error for invalid model path, got nil")
	}
}

func TestNativeProvider_Transcribe(t *testing.T) {
	modelPath := testModelPath(t)
	p, err := NewNative(modelPath)
	if err != nil {
		t.Fatalf("NewNative() error = %v", err)
	}
	defer p.Close()

	wav := buildWAV(make([]int16, 16000), 16000, 1)
	result, err := p.Transcribe(context.Background(), stt.Request{Audio: wav, Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.DurationSeconds <= 0 {
		t.Fatalf("DurationSeconds = %v, want > 0", result.DurationSeconds)
	}
}

func TestNativeProvider_Transcribe_RejectsCancelledContext(t *testing.T) {
	modelPath := testModelPath(t)
	p, err := NewNative(modelPath)
	if err != nil {
		t.Fatalf("NewNative() error = %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Transcribe(ctx, stt.Request{Audio: buildWAV(make([]int16, 100), 16000, 1)}); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
