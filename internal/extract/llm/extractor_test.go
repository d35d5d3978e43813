package llmextract_test

import (
	"context"
	"testing"

	llmextract "github.com/MrWong99/glyphoxa/internal/extract/llm"
	"github.com/MrWong99/glyphoxa/internal/knowledge"
	llm "github.com/MrWong99/glyphoxa/pkg/provider/llm"
	"github.com/MrWong99/glyphoxa/pkg/provider/llm/mock"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

func newBase(t *testing.T) *knowledge.Base {
	t.Helper()
	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("knowledge.NewBase() error = %v", err)
	}
	return base
}

func TestExtractor_ParsesCleanJSON(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteResponse: &llm.CompletionResponse{Content: `{
		"patient_name": "Rohit",
		"complaints": ["fever"],
		"diagnosis": ["viral pharyngitis"],
		"medicines": [{"name": "paracetamol", "dose": "500 mg", "frequency": "3 times a day", "duration": "5 days", "instruction": "after food", "route": "oral"}],
		"tests": [],
		"advice": ["drink plenty of fluids"]
	}`}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "Hi Rohit, you have a fever.")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.PatientName != "Rohit" {
		t.Errorf("PatientName=%q, want Rohit", p.PatientName)
	}
	if len(p.Medicines) != 1 || p.Medicines[0].Name != "paracetamol" {
		t.Fatalf("Medicines=%v, want one paracetamol entry", p.Medicines)
	}
	if p.ExtractionMethod != types.ExtractionMethodLLM {
		t.Errorf("ExtractionMethod=%q, want llm", p.ExtractionMethod)
	}
}

func TestExtractor_DeduplicatesPatientName(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteResponse: &llm.CompletionResponse{
		Content: `{"patient_name": "Rohit Rohit", "medicines": []}`,
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.PatientName != "Rohit" {
		t.Errorf("PatientName=%q, want deduplicated Rohit", p.PatientName)
	}
}

func TestExtractor_RejectsSymptomAsPatientName(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteResponse: &llm.CompletionResponse{
		Content: `{"patient_name": "fever", "medicines": []}`,
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.PatientName != "" {
		t.Errorf("PatientName=%q, want rejected (empty)", p.PatientName)
	}
}

func TestExtractor_NullsDoseWithoutNumericToken(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteResponse: &llm.CompletionResponse{
		Content: `{"medicines": [{"name": "paracetamol", "dose": "a few tablets"}]}`,
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.Medicines[0].Dose != "" {
		t.Errorf("Dose=%q, want nulled for a non-numeric dose", p.Medicines[0].Dose)
	}
}

func TestExtractor_FuzzyCorrectsUnknownDrugName(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteResponse: &llm.CompletionResponse{
		Content: `{"medicines": [{"name": "paracetamal", "dose": "500 mg"}]}`,
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.Medicines[0].Name != "paracetamol" {
		t.Errorf("Name=%q, want fuzzy-corrected to paracetamol", p.Medicines[0].Name)
	}
}

func TestExtractor_ProviderErrorSurfacesAsPipelineError(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{CompleteErr: context.DeadlineExceeded}

	e := llmextract.New(provider, newBase(t))
	_, err := e.Extract(context.Background(), "transcript")
	if err == nil {
		t.Fatal("expected an error when the provider fails")
	}
	if !types.IsKind(err, types.ErrExtraction) {
		t.Errorf("expected ErrExtraction kind, got %v", err)
	}
}

// retrySequenceProvider returns responses in sequence, simulating a model
// that fails to produce valid JSON on the first attempt but succeeds on the
// one-shot retry.
type retrySequenceProvider struct {
	responses []string
	calls     int
}

func (p *retrySequenceProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	idx := p.calls
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.calls++
	return &llm.CompletionResponse{Content: p.responses[idx]}, nil
}

func (p *retrySequenceProvider) StreamCompletion(context.Context, llm.CompletionRequest) (<-chan llm.Chunk, error) {
	return nil, nil
}
func (p *retrySequenceProvider) CountTokens([]types.Message) (int, error) { return 0, nil }
func (p *retrySequenceProvider) Capabilities() types.ModelCapabilities    { return types.ModelCapabilities{} }

func TestExtractor_RetriesOnceOnUnparseableResponse(t *testing.T) {
	t.Parallel()

	provider := &retrySequenceProvider{responses: []string{
		"not json at all",
		`{"medicines": [{"name": "paracetamol", "dose": "500 mg"}]}`,
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("calls=%d, want 2 (initial + one retry)", provider.calls)
	}
	if len(p.Medicines) != 1 {
		t.Fatalf("Medicines=%v, want the retry's result", p.Medicines)
	}
}

func TestExtractor_EmptyShellAfterExhaustedRetry(t *testing.T) {
	t.Parallel()

	provider := &retrySequenceProvider{responses: []string{
		"still not json",
		"still not json after retry either",
	}}

	e := llmextract.New(provider, newBase(t))
	p, err := e.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(p.Medicines) != 0 {
		t.Errorf("expected an empty shell, got %v", p.Medicines)
	}
	if len(p.Warnings) == 0 {
		t.Error("expected a warning noting the parse failure")
	}
}
