package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	appctx "github.com/arkus-mindteams/Notary-sub000/internal/app/context"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/extraction"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/fanout"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Defaults for DocumentConfig.
const (
	DefaultMaxConcurrentDocuments = 4
	DefaultMaxDocumentBytes       = 20 << 20
)

// Compile-time check that DocumentService implements ports.DocumentService.
var _ ports.DocumentService = (*DocumentService)(nil)

// DocumentConfig limits document submissions.
type DocumentConfig struct {
	MaxConcurrentDocuments int
	MaxDocumentBytes       int
}

// DocumentService extracts uploaded documents and applies what they show.
type DocumentService struct {
	engine
	pipeline *extraction.Pipeline
	objects  ports.ObjectStore
	docCfg   DocumentConfig
}

// NewDocumentService creates a DocumentService. objects may be nil, in which
// case uploads are not kept.
func NewDocumentService(deps Dependencies, pipeline *extraction.Pipeline, objects ports.ObjectStore, cfg Config, docCfg DocumentConfig) *DocumentService {
	if docCfg.MaxConcurrentDocuments <= 0 {
		docCfg.MaxConcurrentDocuments = DefaultMaxConcurrentDocuments
	}
	if docCfg.MaxDocumentBytes <= 0 {
		docCfg.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &DocumentService{engine: newEngine(deps, cfg), pipeline: pipeline, objects: objects, docCfg: docCfg}
}

// extracted pairs an upload with its pipeline result.
type extracted struct {
	upload  ports.DocumentUpload
	hash    string
	outcome *extraction.Outcome
	err     error
}

// Submit extracts one document and applies its commands.
func (s *DocumentService) Submit(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	res, err := s.SubmitBatch(ctx, ports.BatchRequest{
		TransactionID: req.TransactionID,
		Documents:     []ports.DocumentUpload{req.Document},
		Context:       req.Context,
	})
	if err != nil {
		return nil, err
	}
	return &ports.SubmitResult{
		Context:         res.Context,
		Summary:         res.Summary,
		Document:        res.Documents[0],
		AppliedCommands: res.AppliedCommands,
		Failures:        res.Failures,
	}, nil
}

// SubmitBatch extracts the documents concurrently and applies their
// commands one document at a time, in submission order.
func (s *DocumentService) SubmitBatch(ctx context.Context, req ports.BatchRequest) (*ports.BatchResult, error) {
	if err := validateID(req.TransactionID); err != nil {
		return nil, err
	}
	if err := s.validateUploads(req.Documents); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("workflow").Start(ctx, "workflow.SubmitDocuments")
	defer span.End()
	span.SetAttributes(
		attribute.String("transaction.id", req.TransactionID),
		attribute.Int("documents", len(req.Documents)),
	)
	ctx = logging.WithAttrs(ctx, slog.String("transaction_id", req.TransactionID))

	unlock, err := s.locks.Lock(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", req.TransactionID, err)
	}
	defer unlock()

	rc := appctx.FromContextOrNew(ctx)
	tx, stored, err := s.load(rc, req.TransactionID, req.Context, true)
	if err != nil {
		return nil, err
	}
	impl := s.implFor(ctx, tx)
	table := impl.Stages()
	before := stage.Derive(table, tx)

	usage := appctx.NewRef(ports.Usage{})
	results := fanout.Run(ctx, s.docCfg.MaxConcurrentDocuments, req.Documents,
		func(ctx context.Context, u ports.DocumentUpload) (extracted, error) {
			out, err := s.pipeline.Extract(ctx, extraction.Upload{Content: u.Content, MIMEType: u.MIMEType, Type: u.DeclaredType})
			if out != nil {
				usage.Update(func(total *ports.Usage) { total.Add(out.Usage) })
			}
			return extracted{upload: u, hash: extraction.Hash(u.Content), outcome: out, err: err}, nil
		})

	current := tx
	batch := &ports.BatchResult{
		Documents:       make([]ports.DocumentOutcome, len(results)),
		AppliedCommands: []command.Command{},
		Failures:        []command.Failure{},
	}
	var uploads []domain.Action
	for i, r := range results {
		ex := r.Value
		if r.Err != nil {
			// Only a canceled context reaches here; the batch is abandoned.
			return nil, fmt.Errorf("extracting document %d: %w", i+1, r.Err)
		}

		known := current.Document(ex.hash)
		alreadyExtracted := known != nil && known.Status == transaction.DocumentExtracted
		ref := ""
		if known != nil {
			ref = known.ObjectRef
		}
		if s.objects != nil && ex.err == nil && ref == "" {
			ref = objectKey(req.TransactionID, ex.hash, ex.upload.FileName)
			uploads = append(uploads, &putObject{store: s.objects, key: ref, data: ex.upload.Content, mimeType: ex.upload.MIMEType})
		}

		cmds := s.documentCommands(ex, current, ref, alreadyExtracted)
		out, err := s.exec.Execute(ctx, current, cmds)
		if err != nil {
			return nil, fmt.Errorf("applying document %d: %w", i+1, err)
		}
		current = out.Context
		batch.AppliedCommands = append(batch.AppliedCommands, out.Applied...)
		batch.Failures = append(batch.Failures, out.Failures...)
		batch.Documents[i] = describe(ex, ref)

		s.logger.InfoContext(ctx, "document processed",
			slog.String("transaction_id", req.TransactionID),
			slog.String("document_type", ex.upload.DeclaredType.String()),
			slog.String("hash", ex.hash),
			slog.Bool("cached", ex.outcome != nil && ex.outcome.Cached),
			slog.Bool("already_recorded", alreadyExtracted),
			slog.Int("applied", len(out.Applied)),
			slog.Bool("failed", ex.err != nil),
		)
	}

	st, err := s.settle(ctx, table, tx, before, current)
	if err != nil {
		return nil, fmt.Errorf("recording stage: %w", err)
	}

	if err := rc.AddGroup(uploads...); err != nil {
		return nil, err
	}
	if err := s.stageSave(rc, st.Context, stored); err != nil {
		return nil, err
	}
	if err := rc.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to store documents",
			slog.String("operation", "SubmitBatch"),
			slog.String("transaction_id", req.TransactionID),
			slog.Any("error", err),
		)
		return nil, err
	}

	batch.Context = st.Context
	batch.Summary = st.Summary
	batch.TokenUsage = usage.Get()
	return batch, nil
}

func (s *DocumentService) validateUploads(docs []ports.DocumentUpload) error {
	if len(docs) == 0 {
		return domain.NewValidationError("documents", domain.MsgRequired)
	}
	fields := make(map[string]string)
	for i, d := range docs {
		name := fmt.Sprintf("documents[%d]", i)
		switch {
		case len(d.Content) == 0:
			fields[name] = "is empty"
		case len(d.Content) > s.docCfg.MaxDocumentBytes:
			fields[name] = fmt.Sprintf("exceeds %d bytes", s.docCfg.MaxDocumentBytes)
		case strings.TrimSpace(d.MIMEType) == "":
			fields[name+".mime_type"] = domain.MsgRequired
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// documentCommands maps an extraction to commands. A document already
// extracted for this transaction only refreshes its record, so resubmitting
// the same bytes changes nothing.
func (s *DocumentService) documentCommands(ex extracted, tx *transaction.Context, ref string, alreadyExtracted bool) []command.Command {
	at := s.now()
	record := transaction.DocumentRecord{
		Hash:      ex.hash,
		Type:      ex.upload.DeclaredType.String(),
		ObjectRef: ref,
		At:        at,
	}

	var payloads []command.Payload
	if ex.err != nil {
		record.Status = transaction.DocumentFailed
		record.Failure = ex.err.Error()
	} else {
		record.Status = transaction.DocumentExtracted
		record.Passes = ex.outcome.Passes
		if !alreadyExtracted {
			payloads = document.HandlerFor(ex.upload.DeclaredType).Commands(ex.outcome.Extracted, tx, ex.hash)
		}
	}
	payloads = append(payloads, command.RecordDocument{Record: record})

	cmds := make([]command.Command, 0, len(payloads))
	for _, p := range payloads {
		src := transaction.SourceDocument
		if p.Kind().SystemOnly() {
			src = transaction.SourceSystem
		}
		cmds = append(cmds, command.New(p, src, at))
	}
	return cmds
}

func describe(ex extracted, ref string) ports.DocumentOutcome {
	d := ports.DocumentOutcome{Hash: ex.hash, Type: ex.upload.DeclaredType.String(), ObjectRef: ref}
	if ex.err != nil {
		d.Failure = ex.err.Error()
		var failure *domain.ExtractionFailure
		if errors.As(ex.err, &failure) {
			d.Passes = failure.Pass
		}
		return d
	}
	d.Extracted = ex.outcome.Extracted
	d.Coverage = ex.outcome.Decision
	d.Passes = ex.outcome.Passes
	d.Cached = ex.outcome.Cached
	d.Usage = ex.outcome.Usage
	return d
}

// objectKey names an upload. The key doubles as the stored reference, so
// it is known before the upload runs.
func objectKey(txID, hash, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return "transactions/" + txID + "/documents/" + hash + ext
}

// putObject uploads a document; its rollback deletes it.
type putObject struct {
	store    ports.ObjectStore
	key      string
	data     []byte
	mimeType string
}

func (a *putObject) Execute(ctx context.Context) error {
	_, err := a.store.Put(ctx, a.key, a.data, a.mimeType)
	return err
}

func (a *putObject) Rollback(ctx context.Context) error {
	return a.store.Delete(ctx, a.key)
}

func (a *putObject) Description() string { return "upload " + a.key }
