// Command prescribe is the batch entry point for the prescription
// extraction pipeline: one consultation recording in, one structured
// Prescription plus ValidationReport out. It is a thin wrapper — every
// decision lives in the internal packages it wires together; this file
// only reads configuration, constructs collaborators, and calls
// pipeline.Process once.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MrWong99/glyphoxa/internal/config"
	llmextract "github.com/MrWong99/glyphoxa/internal/extract/llm"
	"github.com/MrWong99/glyphoxa/internal/extract/rules"
	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/internal/language"
	"github.com/MrWong99/glyphoxa/internal/metrics"
	"github.com/MrWong99/glyphoxa/internal/normalize"
	"github.com/MrWong99/glyphoxa/internal/observe"
	"github.com/MrWong99/glyphoxa/internal/pipeline"
	"github.com/MrWong99/glyphoxa/internal/postprocess"
	"github.com/MrWong99/glyphoxa/internal/resilience"
	"github.com/MrWong99/glyphoxa/internal/route"
	"github.com/MrWong99/glyphoxa/internal/transcript"
	"github.com/MrWong99/glyphoxa/internal/transcript/llmcorrect"
	"github.com/MrWong99/glyphoxa/internal/transcript/phonetic"
	"github.com/MrWong99/glyphoxa/internal/validate"
	"github.com/MrWong99/glyphoxa/pkg/provider/llm/openai"
	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
	"github.com/MrWong99/glyphoxa/pkg/provider/stt/whisper"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	audioPath := flag.String("audio", "", "path to the consultation recording to process")
	hintLanguage := flag.String("hint-language", "", "optional language hint: en, ta, ar, thanglish, mixed")
	dotenvPath := flag.String("dotenv", ".env", "path to a .env overlay (missing file is not an error)")
	flag.Parse()

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "prescribe: -audio is required")
		return 2
	}

	cfg, err := config.Load(*dotenvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prescribe: %v\n", err)
		return 1
	}
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	shutdownProvider, err := observe.InitProvider(context.Background(), observe.ProviderConfig{ServiceName: "prescribe"})
	if err != nil {
		slog.Error("failed to initialize telemetry provider", "err", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownProvider(ctx); err != nil {
			slog.Warn("telemetry provider shutdown error", "err", err)
		}
	}()

	metricsSrv := startMetricsServer(cfg, observe.DefaultMetrics())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownMetricsServer(ctx, metricsSrv)
	}()

	p, err := buildPipeline(cfg)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Pipeline.TimeoutSeconds)*time.Second)
	defer cancel()

	input := types.AudioInput{Path: *audioPath, HintLanguage: *hintLanguage}
	opts := pipeline.Options{
		HintLanguage: *hintLanguage,
		MaxTier:      cfg.Pipeline.DefaultMaxTier,
		LLMEnabled:   cfg.Pipeline.LLMEnabled,
	}

	prescription, report, err := p.Process(ctx, input, opts)
	if err != nil {
		var pe *types.PipelineError
		if errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "prescribe: %s failed (%s, retriable=%v): %v\n", pe.Stage, pe.Kind, pe.Retriable, pe.Err)
		} else {
			fmt.Fprintf(os.Stderr, "prescribe: %v\n", err)
		}
		return 1
	}

	if cfg.Pipeline.HandoffPath != "" {
		if err := writeHandoff(cfg.Pipeline.HandoffPath, prescription); err != nil {
			slog.Warn("failed to publish prescription handoff", "path", cfg.Pipeline.HandoffPath, "err", err)
		}
	}

	return printResult(prescription, report)
}

// buildPipeline wires every subsystem per SPEC_FULL.md §2's data flow:
// Transcriber → Cleaner → Language Detector → Thanglish Normalizer →
// Dosage/Term Normalizer → Router → extractors → Post-Processor →
// Validator → Metrics Collector.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	var kbOpts []knowledge.Option
	if cfg.Knowledge.TablePath != "" {
		kbOpts = append(kbOpts, knowledge.WithTableFile(cfg.Knowledge.TablePath))
	}
	kb, err := knowledge.NewBase(kbOpts...)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrConfiguration, "knowledge_base", false, err)
	}

	tier1, err := whisper.New(cfg.STT.ServerURL,
		whisper.WithModel(cfg.STT.Tier1Model),
		whisper.WithTimeout(time.Duration(cfg.STT.RequestTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("build tier1 stt provider: %w", err)
	}
	tier2, err := whisper.New(cfg.STT.ServerURL,
		whisper.WithModel(cfg.STT.Tier2Model),
		whisper.WithTimeout(time.Duration(cfg.STT.RequestTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("build tier2 stt provider: %w", err)
	}

	transcriber := pipeline.NewTieredTranscriber(tier1, tier2, buildTier3Loader(cfg))

	var llmProvider *resilience.LLMFallback
	if cfg.LLM.APIKey != "" {
		primary, err := openai.New(cfg.LLM.APIKey, cfg.LLM.Model, openai.WithBaseURL(cfg.LLM.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("build primary llm provider: %w", err)
		}
		llmProvider = resilience.NewLLMFallback(primary, cfg.LLM.Model, resilience.FallbackConfig{})
		for _, model := range cfg.LLM.FallbackModels {
			fallback, err := openai.New(cfg.LLM.APIKey, model, openai.WithBaseURL(cfg.LLM.BaseURL))
			if err != nil {
				return nil, fmt.Errorf("build fallback llm provider %q: %w", model, err)
			}
			llmProvider.AddFallback(model, fallback)
		}
	}

	var llmExtractor *llmextract.Extractor
	var corrector transcript.Pipeline
	if llmProvider != nil {
		llmExtractor = llmextract.New(llmProvider, kb,
			llmextract.WithTemperature(cfg.LLM.Temperature),
			llmextract.WithMaxTokens(cfg.LLM.MaxTokens),
		)
		corrector = transcript.NewPipeline(
			transcript.WithRegexCorrector(transcript.NewRegexCorrector()),
			transcript.WithPhoneticMatcher(phonetic.New()),
			transcript.WithLLMCorrector(llmcorrect.New(llmProvider)),
		)
	} else {
		corrector = transcript.NewPipeline(
			transcript.WithRegexCorrector(transcript.NewRegexCorrector()),
			transcript.WithPhoneticMatcher(phonetic.New()),
		)
	}

	var collector *metrics.Collector
	if cfg.Metrics.ExportPath != "" {
		f, err := os.OpenFile(cfg.Metrics.ExportPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open metrics export file: %w", err)
		}
		collector = metrics.NewCollector(f, observe.DefaultMetrics())
	} else {
		collector = metrics.NewCollector(nil, observe.DefaultMetrics())
	}

	components := pipeline.Components{
		Transcriber:         transcriber,
		Detector:            language.NewDetector(),
		ThanglishNormalizer: language.NewNormalizer(),
		Corrector:           corrector,
		DosageNormalizer:    normalize.NewNormalizer(),
		KnowledgeBase:       kb,
		LLMExtractor:        llmExtractor,
		RulesExtractor:      rules.New(kb),
		PostProcessor:       postprocess.New(kb),
		Validator:           validate.New(kb),
		Selector:            route.NewSelector(),
		Collector:           collector,
	}
	return pipeline.New(components), nil
}

// buildTier3Loader defers construction of the high-capacity Tier 3
// provider until the Transcriber actually escalates to it, per §4.2/§5.
func buildTier3Loader(cfg *config.Config) pipeline.Tier3Loader {
	if cfg.STT.NativeModelPath == "" {
		return nil
	}
	return func() (stt.Provider, error) {
		return whisper.NewNative(cfg.STT.NativeModelPath)
	}
}

func printResult(p *types.Prescription, report types.ValidationReport) int {
	out := struct {
		Prescription *types.Prescription    `json:"prescription"`
		Validation   types.ValidationReport `json:"validation"`
	}{Prescription: p, Validation: report}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "prescribe: encode output: %v\n", err)
		return 1
	}
	if !report.Valid {
		return 3
	}
	return 0
}

// writeHandoff publishes the last successful Prescription as canonical
// JSON to path, per §6's "extracted-data channel" for external UIs.
func writeHandoff(path string, p *types.Prescription) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
