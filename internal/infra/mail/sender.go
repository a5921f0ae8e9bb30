package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var newLeadsTmpl = template.Must(template.ParseFS(templateFS, "templates/new_leads.html"))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		From:   from,
		To:     to,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NewEmailSenderWithDialer permite trocar o SMTP (testes).
func NewEmailSenderWithDialer(d Dialer, from, to string) *EmailSender {
	return &EmailSender{From: from, To: to, dialer: d}
}

// SendNewLeads manda o resumo dos leads que o sync acabou de inserir.
func (s *EmailSender) SendNewLeads(ctx context.Context, payload queue.LeadsSyncedPayload) error {
	if s.To == "" {
		return errors.New("sales team email not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := NewLeadsEmailData{Count: payload.Inserted}
	for _, l := range payload.Leads {
		row := NewLeadRow{Name: l.Name}
		if l.Company != nil {
			row.Company = *l.Company
		}
		if l.Phone != nil {
			row.Phone = *l.Phone
		}
		data.Leads = append(data.Leads, row)
	}

	var body bytes.Buffer
	if err := newLeadsTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("CRM: %d new lead(s) from the chatbot", payload.Inserted))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
