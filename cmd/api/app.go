package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// app é o grafo de dependências compartilhado por todos os comandos.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	db     *sql.DB
	rabbit *queue.RabbitMQ
	events usecase.EventPublisher

	clients      *database.ClientRepository
	aliases      *database.ClientAliasRepository
	sales        *database.SaleRepository
	leads        *database.LeadRepository
	contacts     *database.ContactRepository
	interactions *database.InteractionRepository
	projects     *database.ProjectRepository
	tasks        *database.TaskRepository
	users        *database.UserRepository

	importSales *usecase.ImportSalesUseCase
	syncLeads   *usecase.SyncLeadsUseCase
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Banco
	db, err := database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a := &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		clients:      database.NewClientRepository(db),
		aliases:      database.NewClientAliasRepository(db),
		sales:        database.NewSaleRepository(db),
		leads:        database.NewLeadRepository(db),
		contacts:     database.NewContactRepository(db),
		interactions: database.NewInteractionRepository(db),
		projects:     database.NewProjectRepository(db),
		tasks:        database.NewTaskRepository(db),
		users:        database.NewUserRepository(db),
	}

	// 2. Eventos: sem RABBITMQ_URL só loga
	a.events = queue.NewLogProducer(logger)
	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.rabbit = rabbit
		a.events = queue.NewProducer(rabbit.Ch)
	}

	// 3. UseCases
	metrics := middleware.Recorder{}
	a.importSales = usecase.NewImportSalesUseCase(a.sales, a.aliases, a.clients, a.events, metrics, logger)
	a.syncLeads = usecase.NewSyncLeadsUseCase(
		chatbot.NewClient(cfg.ChatbotURL, cfg.ChatbotTimeout),
		a.leads, a.events, metrics, logger,
	)

	return a, nil
}

// loadAliasesFile aplica o CLIENT_ALIASES_FILE (se houver) na tabela de aliases.
func (a *app) loadAliasesFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	aliases, err := config.LoadClientAliases(path)
	if err != nil {
		return 0, err
	}
	return a.aliases.Upsert(ctx, aliases)
}

func (a *app) Close() {
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.logger.Warn("closing rabbitmq", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", zap.Error(err))
	}
}
