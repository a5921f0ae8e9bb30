package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/ingest"
)

type CreateSaleInput struct {
	ClientID    int64           `json:"clientId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description *string         `json:"description"`
}

type CreateSaleUseCase struct {
	Sales entity.SaleRepositoryInterface
}

func NewCreateSaleUseCase(sales entity.SaleRepositoryInterface) *CreateSaleUseCase {
	return &CreateSaleUseCase{Sales: sales}
}

// Execute grava uma venda digitada à mão. Cliente inexistente vira 400.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, input CreateSaleInput) (*entity.Sale, error) {
	if err := ValidateCreateSale(input); err != nil {
		return nil, err
	}
	date, err := ingest.ParseDate(input.Date)
	if err != nil {
		return nil, ValidationErrors{{Field: "date", Message: err.Error()}}
	}
	amount, err := ingest.NormalizeAmount(input.Amount)
	if err != nil {
		return nil, ValidationErrors{{Field: "amount", Message: err.Error()}}
	}

	var desc *string
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		d := strings.TrimSpace(*input.Description)
		desc = &d
	}

	sale := entity.NewSale(input.ClientID, amount, date, desc, nil)
	if err := uc.Sales.Create(ctx, &sale); err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidReference):
			return nil, &DomainError{Code: ErrCodeInvalidRelation, Message: "Invalid clientId"}
		case errors.Is(err, entity.ErrDuplicate):
			return nil, &DomainError{Code: ErrCodeDuplicateSale, Message: "sale already exists"}
		}
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to create sale", Err: err}
	}
	return &sale, nil
}

type UpdateLeadStatusUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewUpdateLeadStatusUseCase(leads entity.LeadRepositoryInterface) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{Leads: leads}
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, id int64, status entity.LeadStatus) (*entity.Lead, error) {
	if !status.Valid() {
		return nil, ValidationErrors{{Field: "status", Message: "must be one of new, contacted, qualified, converted, lost"}}
	}

	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &DomainError{Code: ErrCodeNotFound, Message: "Lead not found"}
		}
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to load lead", Err: err}
	}

	if !lead.Status.CanTransitionTo(status) {
		return nil, &DomainError{
			Code:    ErrCodeInvalidStatus,
			Message: fmt.Sprintf("cannot move lead from %s to %s", lead.Status, status),
		}
	}
	if lead.Status == status {
		return lead, nil
	}

	updated, err := uc.Leads.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, &TechnicalError{Code: ErrCodeDatabase, Message: "failed to update lead", Err: err}
	}
	return updated, nil
}

type CreateTaskUseCase struct {
	Tasks    entity.TaskRepositoryInterface
	Projects entity.ProjectRepositoryInterface
	Users    entity.UserRepositoryInterface
}

func NewCreateTaskUseCase(tasks entity.TaskRepositoryInterface, projects entity.ProjectRepositoryInterface, users entity.UserRepositoryInterface) *CreateTaskUseCase {
	return &CreateTaskUseCase{Tasks: tasks, Projects: projects, Users: users}
}

// Execute confere projeto, autor e responsável antes de gravar.
func (uc *CreateTaskUseCase) Execute(ctx context.Context, t *entity.Task) error {
	if err := ValidateTask(t); err != nil {
		return err
	}

	if _, err := uc.Projects.FindByID(ctx, t.ProjectID); err != nil {
		return uc.referenceError(err, "Invalid projectId")
	}
	if t.AuthorUserID != nil {
		if _, err := uc.Users.FindByID(ctx, *t.AuthorUserID); err != nil {
			return uc.referenceError(err, "Invalid authorUserId")
		}
	}
	if t.AssignedUserID != nil {
		if _, err := uc.Users.FindByID(ctx, *t.AssignedUserID); err != nil {
			return uc.referenceError(err, "Invalid assignedUserId")
		}
	}

	if t.Status == nil {
		s := entity.TaskStatusToDo
		t.Status = &s
	}
	if err := uc.Tasks.Create(ctx, t); err != nil {
		return &TechnicalError{Code: ErrCodeDatabase, Message: "failed to create task", Err: err}
	}
	return nil
}

func (uc *CreateTaskUseCase) referenceError(err error, msg string) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &DomainError{Code: ErrCodeInvalidRelation, Message: msg}
	}
	return &TechnicalError{Code: ErrCodeDatabase, Message: "failed to validate task references", Err: err}
}
