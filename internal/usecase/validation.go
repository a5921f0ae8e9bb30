package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrupa os erros de um payload; o handler devolve 400 com a lista.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func asError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return ValidationErrors(errs)
}

func ValidateClient(c *entity.Client) error {
	var errors []ValidationError

	if strings.TrimSpace(c.CompanyName) == "" {
		errors = append(errors, ValidationError{"companyName", "is required"})
	}
	if strings.TrimSpace(c.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(c.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	return asError(errors)
}

func ValidateLead(l *entity.Lead) error {
	var errors []ValidationError

	if strings.TrimSpace(l.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if l.Email != nil && !isValidEmail(*l.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if l.Status != "" && !l.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be one of new, contacted, qualified, converted, lost"})
	}

	return asError(errors)
}

func ValidateCreateSale(input CreateSaleInput) error {
	var errors []ValidationError

	if input.ClientID <= 0 {
		errors = append(errors, ValidationError{"clientId", "is required"})
	}
	if !input.Amount.IsPositive() {
		errors = append(errors, ValidationError{"amount", "must be greater than zero"})
	}
	if strings.TrimSpace(input.Date) == "" {
		errors = append(errors, ValidationError{"date", "is required"})
	}

	return asError(errors)
}

func ValidateContact(c *entity.Contact) error {
	var errors []ValidationError

	if strings.TrimSpace(c.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if !isValidEmail(c.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if c.ClientID <= 0 {
		errors = append(errors, ValidationError{"clientId", "is required"})
	}

	return asError(errors)
}

func ValidateInteraction(i *entity.Interaction) error {
	var errors []ValidationError

	if strings.TrimSpace(i.Type) == "" {
		errors = append(errors, ValidationError{"type", "is required"})
	}
	if i.ClientID == nil && i.ContactID == nil {
		errors = append(errors, ValidationError{"clientId", "clientId or contactId is required"})
	}

	return asError(errors)
}

func ValidateProject(p *entity.Project) error {
	var errors []ValidationError

	if strings.TrimSpace(p.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		errors = append(errors, ValidationError{"endDate", "must not be before startDate"})
	}

	return asError(errors)
}

func ValidateTask(t *entity.Task) error {
	var errors []ValidationError

	if strings.TrimSpace(t.Title) == "" {
		errors = append(errors, ValidationError{"title", "is required"})
	}
	if t.ProjectID <= 0 {
		errors = append(errors, ValidationError{"projectId", "is required"})
	}
	if t.Status != nil && !t.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is invalid"})
	}
	if t.Priority != nil && !t.Priority.Valid() {
		errors = append(errors, ValidationError{"priority", "is invalid"})
	}
	if t.Points != nil && *t.Points < 0 {
		errors = append(errors, ValidationError{"points", "must not be negative"})
	}

	return asError(errors)
}

func ValidateComment(c *entity.Comment) error {
	var errors []ValidationError

	if strings.TrimSpace(c.Text) == "" {
		errors = append(errors, ValidationError{"text", "is required"})
	}
	if c.UserID <= 0 {
		errors = append(errors, ValidationError{"userId", "is required"})
	}

	return asError(errors)
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
