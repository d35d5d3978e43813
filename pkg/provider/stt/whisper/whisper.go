// Package whisper provides a whisper.cpp-backed STT provider.
//
// It connects to a running whisper-server binary (which exposes a REST API
// at POST /inference) and submits a complete audio file as a single batch
// inference request. This is the Tier 1/2 collaborator: fast, always
// resident, no model-load cost per call.
//
// Usage:
//
//	p, err := whisper.New("http://localhost:8080", whisper.WithModel("base"))
//	result, err := p.Transcribe(ctx, stt.Request{Audio: wavBytes, Filename: "consult.wav"})
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
)

const defaultTimeout = 60 * time.Second

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithModel sets the default model identifier forwarded to the
// whisper.cpp server (e.g. "base", "base.en"). Overridden per-call by
// stt.Request.Model when non-empty.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithHTTPClient overrides the HTTP client used to reach the server,
// primarily for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithTimeout sets the per-call HTTP timeout. Defaults to 60s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.httpClient.Timeout = d }
}

// Provider implements stt.Provider backed by a local whisper.cpp HTTP
// server. Safe for concurrent use; the server itself serializes requests.
type Provider struct {
	serverURL  string
	model      string
	httpClient *http.Client
}

// New creates a Provider that connects to the whisper.cpp HTTP server at
// serverURL (e.g. "http://localhost:8080"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Provider, error) {
	if serverURL == "" {
		return nil, errors.New("whisper: serverURL must not be empty")
	}
	p := &Provider{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Transcribe encodes req.Audio as a multipart/form-data upload and POSTs it
// to the whisper.cpp /inference endpoint, returning the transcribed text
// and whatever quality signals the server reports.
func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (stt.Result, error) {
	if len(req.Audio) == 0 {
		return stt.Result{}, errors.New("whisper: request audio is empty")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	filename := req.Filename
	if filename == "" {
		filename = "audio.wav"
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: create form file: %w", err)
	}
	if _, err := fw.Write(req.Audio); err != nil {
		return stt.Result{}, fmt.Errorf("whisper: write audio data: %w", err)
	}

	if req.Language != "" {
		if err := mw.WriteField("language", req.Language); err != nil {
			return stt.Result{}, fmt.Errorf("whisper: write language field: %w", err)
		}
	}
	model := req.Model
	if model == "" {
		model = p.model
	}
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			return stt.Result{}, fmt.Errorf("whisper: write model field: %w", err)
		}
	}
	if req.Mode == stt.ModeTranslate {
		if err := mw.WriteField("translate", "true"); err != nil {
			return stt.Result{}, fmt.Errorf("whisper: write translate field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return stt.Result{}, fmt.Errorf("whisper: close multipart writer: %w", err)
	}

	endpoint := p.serverURL + "/inference"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stt.Result{}, fmt.Errorf("whisper: server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return stt.Result{}, fmt.Errorf("whisper: read response body: %w", err)
	}

	return parseInferenceResponse(data)
}

// inferenceResponse models the whisper.cpp /inference JSON payload. The
// server reports segments with per-segment quality signals; fields absent
// from a given server build decode to their zero value and are treated as
// "no signal" by the caller.
type inferenceResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text            string  `json:"text"`
		AvgLogprob      float64 `json:"avg_logprob"`
		NoSpeechProb    float64 `json:"no_speech_prob"`
		DurationSeconds float64 `json:"duration"`
	} `json:"segments"`
}

// parseInferenceResponse converts the raw JSON payload into an stt.Result,
// deriving a confidence score from segment average log-probability when
// the server does not report one directly (avg_logprob is a negative
// number close to 0 for confident segments; exp(avg_logprob) maps it back
// into a usable [0,1] probability-like score).
func parseInferenceResponse(data []byte) (stt.Result, error) {
	var resp inferenceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return stt.Result{}, fmt.Errorf("whisper: parse JSON response: %w", err)
	}

	result := stt.Result{
		Text:     resp.Text,
		Language: resp.Language,
	}
	if len(resp.Segments) == 0 {
		result.Confidence = 1.0
		return result, nil
	}

	var (
		logprobSum float64
		noSpeech   float64
		duration   float64
	)
	for _, seg := range resp.Segments {
		logprobSum += seg.AvgLogprob
		if seg.NoSpeechProb > noSpeech {
			noSpeech = seg.NoSpeechProb
		}
		duration += seg.DurationSeconds
	}
	avgLogprob := logprobSum / float64(len(resp.Segments))
	result.Confidence = clamp01(math.Exp(avgLogprob))
	result.NoSpeechProb = noSpeech
	result.DurationSeconds = duration
	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
