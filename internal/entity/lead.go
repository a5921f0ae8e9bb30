package entity

import (
	"context"
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

const LeadSourceChatbot = "chatbot"

var leadStatusRank = map[LeadStatus]int{
	LeadStatusNew:       0,
	LeadStatusContacted: 1,
	LeadStatusQualified: 2,
	LeadStatusConverted: 3,
	LeadStatusLost:      4,
}

func (s LeadStatus) Valid() bool {
	_, ok := leadStatusRank[s]
	return ok
}

// Terminal reports whether no further status change is allowed.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// CanTransitionTo allows forward moves along new→contacted→qualified→converted
// and dropping to lost from any open status. Setting the current status again
// is a no-op and allowed.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == LeadStatusLost {
		return true
	}
	return leadStatusRank[next] > leadStatusRank[s]
}

type Lead struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Company    *string    `json:"company,omitempty"`
	Status     LeadStatus `json:"status"`
	Source     *string    `json:"source,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	ClientID   *int64     `json:"clientId,omitempty"`
	AssignedTo *int64     `json:"assignedTo,omitempty"`
	DedupeKey  *string    `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Key returns the (name, company, phone) identity used to deduplicate leads
// pulled from external sources. Missing company or phone count as empty.
func (l *Lead) Key() string {
	return LeadKey(l.Name, l.Company, l.Phone)
}

func LeadKey(name string, company, phone *string) string {
	c, p := "", ""
	if company != nil {
		c = *company
	}
	if phone != nil {
		p = *phone
	}
	return name + "\x1f" + c + "\x1f" + p
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]Lead, error)
	FindByID(ctx context.Context, id int64) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id int64, status LeadStatus) (*Lead, error)
	// ExistingKeys returns the dedupe key of every stored lead.
	ExistingKeys(ctx context.Context) (map[string]struct{}, error)
	// BulkInsert stores the leads in one transaction, skipping rows whose
	// dedupe key is already taken, and returns the number written.
	BulkInsert(ctx context.Context, leads []Lead) (int, error)
}
