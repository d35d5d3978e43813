package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
	sttmock "github.com/MrWong99/glyphoxa/pkg/provider/stt/mock"
)

func TestSTTFallback_Transcribe_PrimarySuccess(t *testing.T) {
	primary := &sttmock.Provider{Result: stt.Result{Text: "from primary"}}
	secondary := &sttmock.Provider{Result: stt.Result{Text: "from secondary"}}

	fb := NewSTTFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	result, err := fb.Transcribe(context.Background(), stt.Request{Audio: []byte("wav")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "from primary" {
		t.Fatalf("text = %q, want %q", result.Text, "from primary")
	}
	if len(primary.Calls) != 1 {
		t.Fatalf("primary called %d times, want 1", len(primary.Calls))
	}
	if len(secondary.Calls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.Calls))
	}
}

func TestSTTFallback_Transcribe_Failover(t *testing.T) {
	primary := &sttmock.Provider{TranscribeErr: errors.New("primary down")}
	secondary := &sttmock.Provider{Result: stt.Result{Text: "from secondary"}}

	fb := NewSTTFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	result, err := fb.Transcribe(context.Background(), stt.Request{Audio: []byte("wav")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "from secondary" {
		t.Fatalf("text = %q, want %q", result.Text, "from secondary")
	}
	if len(secondary.Calls) != 1 {
		t.Fatalf("secondary called %d times, want 1", len(secondary.Calls))
	}
}

func TestSTTFallback_Transcribe_AllFail(t *testing.T) {
	primary := &sttmock.Provider{TranscribeErr: errors.New("primary down")}
	secondary := &sttmock.Provider{TranscribeErr: errors.New("secondary down")}

	fb := NewSTTFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	_, err := fb.Transcribe(context.Background(), stt.Request{Audio: []byte("wav")})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
