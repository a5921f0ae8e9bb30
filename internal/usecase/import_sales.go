package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/ingest"
)

type ImportSalesUseCase struct {
	Sales   entity.SaleRepositoryInterface
	Aliases ingest.AliasLookup
	Clients ingest.ClientLookup
	Events  EventPublisher
	Metrics ImportRecorder
	Logger  *zap.Logger
}

func NewImportSalesUseCase(
	sales entity.SaleRepositoryInterface,
	aliases ingest.AliasLookup,
	clients ingest.ClientLookup,
	events EventPublisher,
	metrics ImportRecorder,
	logger *zap.Logger,
) *ImportSalesUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &ImportSalesUseCase{
		Sales:   sales,
		Aliases: aliases,
		Clients: clients,
		Events:  events,
		Metrics: metrics,
		Logger:  logger,
	}
}

// Execute lê a planilha, resolve os clientes e grava tudo numa transação.
// Linhas ruins ou de cliente desconhecido entram em Rejected e não derrubam o lote.
func (uc *ImportSalesUseCase) Execute(ctx context.Context, input ImportSalesInput) (*ImportSalesOutput, error) {
	importID := uuid.NewString()
	log := uc.Logger.With(zap.String("import_id", importID), zap.String("file", input.FileName))

	out := &ImportSalesOutput{ImportID: importID, Rejected: []ingest.RowError{}}
	reject := func(e ingest.RowError) {
		log.Warn("sale row rejected", zap.Int("line", e.Line), zap.String("reason", e.Reason))
		out.Rejected = append(out.Rejected, e)
	}

	// 1. Parse
	parsed, err := ingest.ParseAll(ctx, input.Parser, reject)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &DomainError{Code: ErrCodeInvalidFile, Message: fmt.Sprintf("could not read file: %v", err)}
	}
	out.TotalRows = len(parsed) + len(out.Rejected)

	// 2. Resolve cliente de cada linha
	resolver := ingest.NewResolver(uc.Aliases, uc.Clients)
	sales := make([]entity.Sale, 0, len(parsed))
	occurrences := make(map[string]int, len(parsed))
	for _, p := range parsed {
		clientID, found, err := resolver.Resolve(ctx, p.Account)
		if err != nil {
			return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to resolve client", Err: err}
		}
		if !found {
			name := ingest.ExtractClientName(p.Account)
			reason := "client not found: " + name
			if name == "" {
				reason = "missing client reference"
			}
			reject(ingest.RowError{Line: p.Line, Reason: reason})
			continue
		}

		s := entity.NewSale(clientID, p.Amount, p.Date, p.Description, &importID)
		occurrences[s.Fingerprint]++
		s.Fingerprint = entity.OccurrenceFingerprint(s.Fingerprint, occurrences[s.Fingerprint])
		sales = append(sales, s)
	}

	if len(sales) == 0 {
		uc.Metrics.RecordSalesImport(0, 0, len(out.Rejected))
		log.Info("sales import had no valid rows", zap.Int("rejected", len(out.Rejected)))
		return nil, &DomainError{Code: ErrCodeNoValidRows, Message: "no valid sales data found"}
	}

	// 3. Grava (uma transação)
	inserted, err := uc.Sales.BulkInsert(ctx, sales, input.OnDuplicate != DuplicateFail)
	if err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, &DomainError{Code: ErrCodeDuplicateSale, Message: "file contains sales that were already imported"}
		}
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to store sales", Err: err}
	}
	out.Imported = inserted
	out.SkippedDuplicates = len(sales) - inserted

	uc.Metrics.RecordSalesImport(out.Imported, out.SkippedDuplicates, len(out.Rejected))
	log.Info("sales import finished",
		zap.Int("total_rows", out.TotalRows),
		zap.Int("imported", out.Imported),
		zap.Int("skipped_duplicates", out.SkippedDuplicates),
		zap.Int("rejected", len(out.Rejected)),
	)

	// 4. Evento (best effort)
	if uc.Events != nil && out.Imported > 0 {
		payload := queue.SalesImportedPayload{
			ImportID:          importID,
			FileName:          input.FileName,
			Imported:          out.Imported,
			SkippedDuplicates: out.SkippedDuplicates,
			Rejected:          len(out.Rejected),
			OccurredAt:        time.Now().UTC(),
		}
		if err := uc.Events.PublishSalesImported(ctx, payload); err != nil {
			log.Warn("failed to publish sales.imported", zap.Error(err))
		}
	}

	return out, nil
}
