package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type EventPublisher interface {
	PublishSalesImported(ctx context.Context, payload queue.SalesImportedPayload) error
	PublishLeadsSynced(ctx context.Context, payload queue.LeadsSyncedPayload) error
}

type LeadSource interface {
	FetchLeads(ctx context.Context) ([]chatbot.User, error)
}

// ImportRecorder e LeadSyncRecorder são implementados pelas métricas Prometheus.
type ImportRecorder interface {
	RecordSalesImport(imported, skipped, rejected int)
}

type LeadSyncRecorder interface {
	RecordLeadSync(fetched, inserted int, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordSalesImport(int, int, int) {}
func (noopRecorder) RecordLeadSync(int, int, error) {}
