// Package extraction turns uploaded document bytes into structured data.
//
// Each document runs a small state machine keyed by its content hash:
//
//	NEW → EXTRACTING_1 → SUFFICIENT → MERGED → CACHED
//	                   ↘ NEEDS_PASS_2 → EXTRACTING_2 → MERGED → CACHED
//	(any pass failing twice → FAILED)
//
// A cached entry short-circuits the whole pipeline. Only complete results
// are cached: a first pass that asked for a second one is never cached on
// its own.
package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// States of the per-document pipeline, reported in logs.
const (
	StateNew         = "NEW"
	StateExtracting1 = "EXTRACTING_1"
	StateNeedsPass2  = "NEEDS_PASS_2"
	StateExtracting2 = "EXTRACTING_2"
	StateSufficient  = "SUFFICIENT"
	StateMerged      = "MERGED"
	StateCached      = "CACHED"
	StateFailed      = "FAILED"
)

const (
	operation   = "extract"
	maxAttempts = 2
)

const systemPrompt = `You read scanned Mexican legal and registry documents for a notary office.
Answer only with JSON matching the schema. Copy names, identifiers and amounts exactly as printed.
Leave a field empty rather than guessing. Put the full transcription in "text".`

// Config tunes the pipeline.
type Config struct {
	// SchemaVersion is part of every cache key; bumping it forces
	// re-extraction of entries written by older versions.
	SchemaVersion int
	Thresholds    document.Thresholds
	// Timeout bounds each model call. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Upload is one document to extract.
type Upload struct {
	Content  []byte
	MIMEType string
	Type     document.Type
}

// Outcome is the result of running the pipeline on one document.
type Outcome struct {
	Hash      string             `json:"hash"`
	Type      document.Type      `json:"-"`
	Extracted document.Extracted `json:"extracted"`
	Decision  document.Decision  `json:"coverage"`
	Passes    int                `json:"passes"`
	Cached    bool               `json:"-"`
	// Complete is false when a requested second pass failed; the outcome is
	// still usable but was not cached.
	Complete bool        `json:"complete"`
	Usage    ports.Usage `json:"-"`
}

// Pipeline runs extractions. It is safe for concurrent use; concurrent
// requests for the same cache key share one run.
type Pipeline struct {
	llm     ports.LLM
	cache   ports.ExtractionCache
	metrics *telemetry.Metrics
	cfg     Config
	flight  singleflight.Group
}

// New creates a Pipeline. metrics may be nil.
func New(llm ports.LLM, cache ports.ExtractionCache, metrics *telemetry.Metrics, cfg Config) *Pipeline {
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = 1
	}
	if cfg.Thresholds == (document.Thresholds{}) {
		cfg.Thresholds = document.DefaultThresholds()
	}
	return &Pipeline{llm: llm, cache: cache, metrics: metrics, cfg: cfg}
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Key returns the cache key of a document.
func (p *Pipeline) Key(t document.Type, hash string) string {
	return fmt.Sprintf("extract:v%d:%s:%s", p.cfg.SchemaVersion, t, hash)
}

// Extract runs the pipeline for u. A cached result is returned without any
// model call. The returned error is a *domain.ExtractionFailure when a pass
// failed twice; the caller records the failure on the context.
func (p *Pipeline) Extract(ctx context.Context, u Upload) (*Outcome, error) {
	hash := Hash(u.Content)
	key := p.Key(u.Type, hash)
	logger := logging.FromContext(ctx).With(
		slog.String("operation", "Pipeline.Extract"),
		slog.String("document_type", u.Type.String()),
		slog.String("hash", hash[:12]),
	)

	if out, ok := p.lookup(ctx, key, logger); ok {
		out.Hash, out.Type, out.Cached = hash, u.Type, true
		logger.DebugContext(ctx, "extraction state", slog.String("state", StateCached))
		return out, nil
	}

	v, err, shared := p.flight.Do(key, func() (any, error) {
		return p.run(context.WithoutCancel(ctx), u, hash, key, logger)
	})
	if err != nil {
		return nil, err
	}
	out := *v.(*Outcome)
	if shared {
		logger.DebugContext(ctx, "joined in-flight extraction")
	}
	return &out, nil
}

func (p *Pipeline) lookup(ctx context.Context, key string, logger *slog.Logger) (*Outcome, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "extraction cache read failed", slog.Any("error", err))
		return nil, false
	}
	p.metrics.RecordCacheLookup(ctx, ok)
	if !ok {
		return nil, false
	}
	var out Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.WarnContext(ctx, "discarding unreadable cache entry", slog.Any("error", err))
		return nil, false
	}
	return &out, true
}

func (p *Pipeline) run(ctx context.Context, u Upload, hash, key string, logger *slog.Logger) (*Outcome, error) {
	ctx, span := otel.Tracer("extraction").Start(ctx, "extraction.run")
	defer span.End()
	span.SetAttributes(attribute.String("document.type", u.Type.String()))

	h := document.HandlerFor(u.Type)
	out := &Outcome{Hash: hash, Type: u.Type, Complete: true}

	logger.DebugContext(ctx, "extraction state", slog.String("state", StateExtracting1))
	first, err := p.pass(ctx, u, hash, 1, h.Instructions, &out.Usage)
	if err != nil {
		logger.WarnContext(ctx, "extraction state", slog.String("state", StateFailed), slog.Any("error", err))
		span.SetStatus(codes.Error, "first pass failed")
		return nil, err
	}
	out.Extracted, out.Passes = first, 1
	out.Decision = document.Judge(u.Type, first, p.cfg.Thresholds)

	if out.Decision.Sufficient() || h.FollowUp == "" {
		logger.DebugContext(ctx, "extraction state", slog.String("state", StateSufficient))
	} else {
		logger.InfoContext(ctx, "extraction state",
			slog.String("state", StateNeedsPass2),
			slog.Any("reasons", out.Decision.Reasons),
		)
		logger.DebugContext(ctx, "extraction state", slog.String("state", StateExtracting2))
		second, err := p.pass(ctx, u, hash, 2, h.FollowUp, &out.Usage)
		if err != nil {
			logger.WarnContext(ctx, "second pass failed, keeping first pass uncached", slog.Any("error", err))
			out.Complete = false
			return out, nil
		}
		out.Extracted = document.Merge(first, second)
		out.Decision = document.Judge(u.Type, out.Extracted, p.cfg.Thresholds)
		out.Passes = 2
	}
	logger.DebugContext(ctx, "extraction state", slog.String("state", StateMerged))

	p.store(ctx, key, out, logger)
	return out, nil
}

// pass runs one extraction pass with a single retry.
func (p *Pipeline) pass(ctx context.Context, u Upload, hash string, n int, instructions string, usage *ports.Usage) (document.Extracted, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ex, err := p.call(ctx, u, instructions, usage)
		if err == nil {
			p.metrics.RecordExtractionPass(ctx, u.Type.String(), n, "success")
			return ex, nil
		}
		lastErr = err
		p.metrics.RecordExtractionPass(ctx, u.Type.String(), n, "error")
		if ctx.Err() != nil {
			break
		}
	}
	return document.Extracted{}, &domain.ExtractionFailure{DocumentHash: hash, Pass: n, Attempts: maxAttempts, Err: lastErr}
}

func (p *Pipeline) call(ctx context.Context, u Upload, instructions string, usage *ports.Usage) (document.Extracted, error) {
	if p.llm == nil {
		return document.Extracted{}, fmt.Errorf("no vision model configured: %w", domain.ErrUnavailable)
	}
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	req := ports.CompletionRequest{
		System:    systemPrompt,
		Text:      instructions,
		Schema:    extractedSchema,
		Operation: operation,
	}
	if strings.HasPrefix(u.MIMEType, "text/") {
		req.Text = instructions + "\n\n" + string(u.Content)
	} else {
		req.Image, req.ImageMIME = u.Content, u.MIMEType
	}

	resp, err := p.llm.Complete(ctx, req)
	if err != nil {
		return document.Extracted{}, err
	}
	usage.Add(resp.Usage)

	raw := resp.JSON
	if len(raw) == 0 {
		raw = json.RawMessage(strings.TrimSpace(resp.Text))
	}
	var ex document.Extracted
	if err := json.Unmarshal(raw, &ex); err != nil {
		return document.Extracted{}, fmt.Errorf("parsing extraction: %w: %w", domain.ErrUnavailable, err)
	}
	if isEmpty(ex) {
		return document.Extracted{}, fmt.Errorf("empty extraction: %w", domain.ErrUnavailable)
	}
	return ex, nil
}

func (p *Pipeline) store(ctx context.Context, key string, out *Outcome, logger *slog.Logger) {
	if p.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err == nil {
		err = p.cache.Set(ctx, key, raw)
	}
	if err != nil {
		logger.WarnContext(ctx, "extraction cache write failed", slog.Any("error", err))
		return
	}
	logger.DebugContext(ctx, "extraction state", slog.String("state", StateCached))
}

func isEmpty(ex document.Extracted) bool {
	return len(ex.Folios) == 0 && len(ex.BookEntries) == 0 && len(ex.Units) == 0 &&
		len(ex.TitleHolders) == 0 && len(ex.People) == 0 && ex.Address == "" &&
		ex.SurveyedArea == "" && len(ex.CadastralRefs) == 0 && len(ex.Liens) == 0 &&
		strings.TrimSpace(ex.Text) == ""
}

// IsFailure reports whether err is an extraction failure.
func IsFailure(err error) bool {
	return errors.Is(err, domain.ErrExtraction)
}
