// Package config provides the configuration schema, environment loader, and
// provider registry for the prescription extraction pipeline.
package config

// LogLevel controls log verbosity for the pipeline process.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration for the pipeline process. It is
// populated from environment variables (with an optional `.env` overlay)
// by [Load], never from a file on disk beyond the knowledge-base table
// override.
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	STT       STTConfig
	Knowledge KnowledgeConfig
	Metrics   MetricsConfig
	Pipeline  PipelineConfig
}

// ServerConfig holds the listen address and log level for the background
// HTTP surface run alongside Process: a liveness check and the Prometheus
// scrape endpoint.
type ServerConfig struct {
	ListenAddr string   `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel   LogLevel `envconfig:"LOG_LEVEL" default:"info"`
}

// LLMConfig configures the LLM Extractor's model access.
type LLMConfig struct {
	// APIKey authenticates against the primary model provider.
	APIKey string `envconfig:"LLM_API_KEY" required:"true"`

	// BaseURL overrides the provider's default API endpoint. Empty uses
	// the provider's built-in default.
	BaseURL string `envconfig:"LLM_BASE_URL"`

	// Model is the primary model name (e.g. "gpt-4.1").
	Model string `envconfig:"LLM_MODEL" default:"gpt-4.1"`

	// FallbackModels lists additional model names tried in order when a
	// call to Model fails or Model's circuit breaker is open. May be empty.
	FallbackModels []string `envconfig:"LLM_FALLBACK_MODELS"`

	// Temperature is the sampling temperature passed to every completion.
	Temperature float64 `envconfig:"LLM_TEMPERATURE" default:"0"`

	// MaxTokens caps the completion length.
	MaxTokens int `envconfig:"LLM_MAX_TOKENS" default:"2000"`
}

// STTConfig configures the Transcriber's three ASR tiers.
type STTConfig struct {
	// ServerURL is the whisper.cpp HTTP server backing Tiers 1 and 2.
	ServerURL string `envconfig:"STT_SERVER_URL" required:"true"`

	// Tier1Model and Tier2Model name the server-side models used for the
	// fast, no-hint pass and the language-hinted retry respectively.
	Tier1Model string `envconfig:"STT_TIER1_MODEL" default:"base"`
	Tier2Model string `envconfig:"STT_TIER2_MODEL" default:"base"`

	// NativeModelPath is the on-disk whisper.cpp model file loaded for
	// Tier 3 on first escalation. Empty disables Tier 3 entirely.
	NativeModelPath string `envconfig:"STT_NATIVE_MODEL_PATH"`

	// RequestTimeoutSeconds bounds a single tier's HTTP call.
	RequestTimeoutSeconds int `envconfig:"STT_REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// KnowledgeConfig optionally overrides the Medical Knowledge Base's
// built-in gazetteer tables with a YAML file on disk.
type KnowledgeConfig struct {
	// TablePath points to a YAML file with the gazetteer tables (drug
	// names, brand aliases, dangerous combinations, advice mappings).
	// Empty uses the package's built-in tables.
	TablePath string `envconfig:"KB_TABLE_PATH"`
}

// MetricsConfig configures the Metrics Collector's NDJSON export and
// Prometheus scrape endpoint.
type MetricsConfig struct {
	// ExportPath is the NDJSON file every pipeline invocation is appended
	// to. Empty disables file export (the OTel mirror still runs).
	ExportPath string `envconfig:"METRICS_EXPORT_PATH" default:"metrics.ndjson"`

	// PrometheusPath is the HTTP path the cmd/ server exposes the
	// Prometheus scrape endpoint on.
	PrometheusPath string `envconfig:"METRICS_PROMETHEUS_PATH" default:"/metrics"`
}

// PipelineConfig holds default values for [pipeline.Options] fields not
// supplied by a caller of Process.
type PipelineConfig struct {
	// DefaultMaxTier caps ASR escalation when a caller doesn't specify one.
	DefaultMaxTier int `envconfig:"PIPELINE_DEFAULT_MAX_TIER" default:"3"`

	// LLMEnabled is the default for Options.LLMEnabled.
	LLMEnabled bool `envconfig:"PIPELINE_LLM_ENABLED" default:"true"`

	// TimeoutSeconds bounds one Process call end-to-end.
	TimeoutSeconds int `envconfig:"PIPELINE_TIMEOUT_SECONDS" default:"120"`

	// HandoffPath is the rendezvous file the last successful Prescription
	// is published to as canonical JSON, for UI auto-fill. Empty disables
	// the handoff write.
	HandoffPath string `envconfig:"PIPELINE_HANDOFF_PATH"`
}
