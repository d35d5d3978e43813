package resilience

import (
	"context"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
)

// STTFallback implements [stt.Provider] with automatic failover across multiple
// batch STT backends. Each backend has its own circuit breaker; the pipeline's
// tier escalation (see internal/pipeline) is a separate, coarser-grained
// policy layered on top of this provider-level failover.
type STTFallback struct {
	group *FallbackGroup[stt.Provider]
}

// Compile-time interface assertion.
var _ stt.Provider = (*STTFallback)(nil)

// NewSTTFallback creates an [STTFallback] with primary as the preferred backend.
func NewSTTFallback(primary stt.Provider, primaryName string, cfg FallbackConfig) *STTFallback {
	return &STTFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional STT provider as a fallback.
func (f *STTFallback) AddFallback(name string, provider stt.Provider) {
	f.group.AddFallback(name, provider)
}

// Transcribe sends req to the first healthy provider. If the primary fails
// to complete the call, subsequent fallbacks are tried in order.
func (f *STTFallback) Transcribe(ctx context.Context, req stt.Request) (stt.Result, error) {
	return ExecuteWithResult(f.group, func(p stt.Provider) (stt.Result, error) {
		return p.Transcribe(ctx, req)
	})
}
