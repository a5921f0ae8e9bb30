package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LeadNotifier avisa o time comercial sobre leads novos (e-mail hoje).
type LeadNotifier interface {
	SendNewLeads(ctx context.Context, payload LeadsSyncedPayload) error
}

type Consumer interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier LeadNotifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("worker waiting for messages", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadsSyncedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid message body", zap.Error(err))
		// Mensagem podre: rejeita sem requeue, vai pra DLQ
		_ = d.Nack(false, false)
		return
	}

	if err := w.Notifier.SendNewLeads(ctx, payload); err != nil {
		w.Logger.Error("lead notification failed", zap.Int("leads", len(payload.Leads)), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	w.Logger.Info("lead notification sent", zap.Int("leads", len(payload.Leads)))
	_ = d.Ack(false)
}
