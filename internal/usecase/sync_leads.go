package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type SyncLeadsUseCase struct {
	Source  LeadSource
	Leads   entity.LeadRepositoryInterface
	Events  EventPublisher
	Metrics LeadSyncRecorder
	Logger  *zap.Logger
}

func NewSyncLeadsUseCase(
	source LeadSource,
	leads entity.LeadRepositoryInterface,
	events EventPublisher,
	metrics LeadSyncRecorder,
	logger *zap.Logger,
) *SyncLeadsUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &SyncLeadsUseCase{
		Source:  source,
		Leads:   leads,
		Events:  events,
		Metrics: metrics,
		Logger:  logger,
	}
}

// Execute puxa os contatos do chatbot e insere só os que ainda não existem,
// comparando (nome, empresa, telefone). Rodar de novo sem novidade insere zero.
func (uc *SyncLeadsUseCase) Execute(ctx context.Context) (*SyncLeadsOutput, error) {
	users, err := uc.Source.FetchLeads(ctx)
	if err != nil {
		uc.Metrics.RecordLeadSync(0, 0, err)
		return nil, &TechnicalError{Code: ErrCodeLeadSource, Message: "error loading new leads", Err: err}
	}

	existing, err := uc.Leads.ExistingKeys(ctx)
	if err != nil {
		uc.Metrics.RecordLeadSync(len(users), 0, err)
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to load existing leads", Err: err}
	}

	fresh := make([]entity.Lead, 0, len(users))
	for _, u := range users {
		lead := NormalizeChatbotUser(u)
		key := lead.Key()
		if _, dup := existing[key]; dup {
			continue
		}
		// repetido no mesmo payload também conta como duplicado
		existing[key] = struct{}{}
		fresh = append(fresh, lead)
	}

	inserted, err := uc.Leads.BulkInsert(ctx, fresh)
	if err != nil {
		uc.Metrics.RecordLeadSync(len(users), 0, err)
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to store leads", Err: err}
	}

	out := &SyncLeadsOutput{
		Fetched:    len(users),
		Inserted:   inserted,
		Duplicates: len(users) - inserted,
	}
	uc.Metrics.RecordLeadSync(out.Fetched, out.Inserted, nil)
	uc.Logger.Info("lead sync finished",
		zap.Int("fetched", out.Fetched),
		zap.Int("inserted", out.Inserted),
		zap.Int("duplicates", out.Duplicates),
	)

	if uc.Events != nil && inserted > 0 {
		payload := queue.LeadsSyncedPayload{Inserted: inserted, OccurredAt: time.Now().UTC()}
		for _, l := range fresh {
			payload.Leads = append(payload.Leads, queue.SyncedLead{Name: l.Name, Company: l.Company, Phone: l.Phone})
		}
		if err := uc.Events.PublishLeadsSynced(ctx, payload); err != nil {
			uc.Logger.Warn("failed to publish leads.synced", zap.Error(err))
		}
	}

	return out, nil
}

// NormalizeChatbotUser mapeia user_number para phone, empresa vazia vira nil,
// e marca status new / source chatbot. id e create são descartados.
func NormalizeChatbotUser(u chatbot.User) entity.Lead {
	source := entity.LeadSourceChatbot
	return entity.Lead{
		Name:    strings.TrimSpace(string(u.Name)),
		Company: optional(string(u.Company)),
		Phone:   optional(string(u.UserNumber)),
		Status:  entity.LeadStatusNew,
		Source:  &source,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
