package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

func strPtr(s string) *string { return &s }

// TestSyncLeadsInsertsOnlyNew - set difference por (nome, empresa, telefone)
func TestSyncLeadsInsertsOnlyNew(t *testing.T) {
	source := new(MockLeadSource)
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)

	source.On("FetchLeads", mock.Anything).Return([]chatbot.User{
		{Name: "Ana", Company: "Acme", UserNumber: "111"},
		{Name: "Bruno", Company: "", UserNumber: "222"},
		{Name: "Bruno", Company: "", UserNumber: "222"}, // repetido no payload
		{Name: "Carla", Company: "Globex", UserNumber: "333"},
	}, nil)
	leads.On("ExistingKeys", mock.Anything).Return(map[string]struct{}{
		entity.LeadKey("Ana", strPtr("Acme"), strPtr("111")): {},
	}, nil)

	var inserted []entity.Lead
	leads.On("BulkInsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).([]entity.Lead) }).
		Return(2, nil)
	events.On("PublishLeadsSynced", mock.Anything, mock.MatchedBy(func(p queue.LeadsSyncedPayload) bool {
		return p.Inserted == 2 && len(p.Leads) == 2
	})).Return(nil)

	out, err := NewSyncLeadsUseCase(source, leads, events, nil, zap.NewNop()).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SyncLeadsOutput{Fetched: 4, Inserted: 2, Duplicates: 2}, out)
	require.Len(t, inserted, 2)
	assert.Equal(t, "Bruno", inserted[0].Name)
	assert.Nil(t, inserted[0].Company)
	assert.Equal(t, "222", *inserted[0].Phone)
	assert.Equal(t, entity.LeadStatusNew, inserted[0].Status)
	assert.Equal(t, entity.LeadSourceChatbot, *inserted[0].Source)
	events.AssertExpectations(t)
}

// TestSyncLeadsNothingNew - rodar de novo sem novidade insere zero
func TestSyncLeadsNothingNew(t *testing.T) {
	source := new(MockLeadSource)
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)

	source.On("FetchLeads", mock.Anything).Return([]chatbot.User{{Name: "Ana", UserNumber: "111"}}, nil)
	leads.On("ExistingKeys", mock.Anything).Return(map[string]struct{}{
		entity.LeadKey("Ana", nil, strPtr("111")): {},
	}, nil)
	leads.On("BulkInsert", mock.Anything, []entity.Lead{}).Return(0, nil)

	out, err := NewSyncLeadsUseCase(source, leads, events, nil, zap.NewNop()).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, out.Inserted)
	assert.Equal(t, 1, out.Duplicates)
	events.AssertNotCalled(t, "PublishLeadsSynced", mock.Anything, mock.Anything)
}

// TestSyncLeadsSourceFailure - erro do chatbot vira LEAD_SOURCE_ERROR com a mensagem do erro
func TestSyncLeadsSourceFailure(t *testing.T) {
	source := new(MockLeadSource)
	leads := new(MockLeadRepository)
	source.On("FetchLeads", mock.Anything).Return(nil, errors.New("chatbot returned status 502"))

	_, err := NewSyncLeadsUseCase(source, leads, nil, nil, zap.NewNop()).Execute(context.Background())

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrCodeLeadSource, te.Code)
	assert.Contains(t, te.Error(), "status 502")
	leads.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
}

func TestNormalizeChatbotUser(t *testing.T) {
	l := NormalizeChatbotUser(chatbot.User{Name: "  Ana ", Company: "  ", UserNumber: " 5511 "})
	assert.Equal(t, "Ana", l.Name)
	assert.Nil(t, l.Company)
	assert.Equal(t, "5511", *l.Phone)
}
