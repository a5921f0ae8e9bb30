package mail

import "gopkg.in/gomail.v2"

type NewLeadsEmailData struct {
	Count int
	Leads []NewLeadRow
}

type NewLeadRow struct {
	Name    string
	Company string
	Phone   string
}

// Dialer é satisfeito por *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	dialer Dialer
}
