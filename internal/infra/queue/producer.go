package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type SalesImportedPayload struct {
	ImportID          string    `json:"import_id"`
	FileName          string    `json:"file_name"`
	Imported          int       `json:"imported"`
	SkippedDuplicates int       `json:"skipped_duplicates"`
	Rejected          int       `json:"rejected"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type SyncedLead struct {
	Name    string  `json:"name"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type LeadsSyncedPayload struct {
	Inserted   int          `json:"inserted"`
	Leads      []SyncedLead `json:"leads"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Channel é o pedaço do *amqp.Channel que o producer usa.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Channel
}

func NewProducer(ch Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishSalesImported(ctx context.Context, payload SalesImportedPayload) error {
	return p.publish(ctx, SalesImportedKey, payload)
}

func (p *RabbitMQProducer) PublishLeadsSynced(ctx context.Context, payload LeadsSyncedPayload) error {
	return p.publish(ctx, LeadsSyncedKey, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar %s no RabbitMQ: %w", key, err)
	}
	return nil
}

// LogProducer substitui o RabbitMQ quando RABBITMQ_URL está vazio: os eventos
// só vão pro log.
type LogProducer struct {
	Logger *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	return &LogProducer{Logger: logger}
}

func (p *LogProducer) PublishSalesImported(_ context.Context, payload SalesImportedPayload) error {
	p.Logger.Info("event sales.imported",
		zap.String("import_id", payload.ImportID),
		zap.Int("imported", payload.Imported),
		zap.Int("skipped_duplicates", payload.SkippedDuplicates),
		zap.Int("rejected", payload.Rejected),
	)
	return nil
}

func (p *LogProducer) PublishLeadsSynced(_ context.Context, payload LeadsSyncedPayload) error {
	p.Logger.Info("event leads.synced", zap.Int("inserted", payload.Inserted))
	return nil
}
