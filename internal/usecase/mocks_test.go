package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockSaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id int64) (*entity.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) Create(ctx context.Context, s *entity.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSaleRepository) BulkInsert(ctx context.Context, sales []entity.Sale, skipDuplicates bool) (int, error) {
	args := m.Called(ctx, sales, skipDuplicates)
	return args.Int(0), args.Error(1)
}

func (m *MockSaleRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) SummaryByRegion(ctx context.Context) ([]entity.SalesSegment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.SalesSegment), args.Error(1)
}

func (m *MockSaleRepository) SummaryByIndustry(ctx context.Context) ([]entity.SalesSegment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.SalesSegment), args.Error(1)
}

// MockClientLookup
type MockClientLookup struct {
	mock.Mock
}

func (m *MockClientLookup) FindIDByCompanyName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id int64, status entity.LeadStatus) (*entity.Lead, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockLeadRepository) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

// MockLeadSource
type MockLeadSource struct {
	mock.Mock
}

func (m *MockLeadSource) FetchLeads(ctx context.Context) ([]chatbot.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chatbot.User), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishSalesImported(ctx context.Context, payload queue.SalesImportedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLeadsSynced(ctx context.Context, payload queue.LeadsSyncedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
