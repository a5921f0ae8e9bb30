package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.crm"
	DLXName      = "ex.crm.dlx" // Dead Letter Exchange

	SalesImportedKey = "k.sales.imported"
	LeadsSyncedKey   = "k.leads.synced"

	LeadNotificationsQueue = "q.lead-notifications"
	LeadNotificationsDLQ   = "q.lead-notifications.dlq"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("falha ao declarar topologia: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.Ch.Close(); err != nil {
		r.Conn.Close()
		return err
	}
	return r.Conn.Close()
}

// Healthy é usado pelo /health.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func setupTopology(ch *amqp.Channel) error {
	// DLX + DLQ primeiro, a fila principal referencia os dois
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(LeadNotificationsDLQ, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(LeadNotificationsDLQ, LeadsSyncedKey, DLXName, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,        // Se der Nack, manda pra DLX
		"x-dead-letter-routing-key": LeadsSyncedKey, // Com essa chave
	}
	if _, err := ch.QueueDeclare(LeadNotificationsQueue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(LeadNotificationsQueue, LeadsSyncedKey, ExchangeName, false, nil)
}
