package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/upload"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newServeCommand(c *cli) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the lead sync scheduler and the notification worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before starting")
	return cmd
}

func serve(ctx context.Context, c *cli, migrate bool) error {
	cfg, logger := c.cfg, c.logger

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if err := database.Migrate(ctx, a.db, cfg.DBDriver); err != nil {
			return err
		}
	}
	if n, err := a.loadAliasesFile(ctx, cfg.ClientAliasesFile); err != nil {
		return fmt.Errorf("loading client aliases: %w", err)
	} else if n > 0 {
		logger.Info("client aliases loaded", zap.Int("count", n), zap.String("file", cfg.ClientAliasesFile))
	}

	// Handlers
	var queueHealth handlers.QueueHealth
	if a.rabbit != nil {
		queueHealth = a.rabbit
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		AdminToken:  cfg.AdminToken,
		Health:      handlers.NewHealthHandler(a.db, queueHealth, cfg.ChatbotURL),
		Clients:     handlers.NewClientHandler(a.clients, logger),
		Aliases:     handlers.NewClientAliasHandler(a.aliases, logger),
		Sales: handlers.NewSaleHandler(a.sales, a.clients,
			usecase.NewCreateSaleUseCase(a.sales), a.importSales,
			upload.NewReceiver(cfg.UploadDir, cfg.UploadMaxBytes), logger),
		Leads: handlers.NewLeadHandler(ctx, a.leads,
			usecase.NewUpdateLeadStatusUseCase(a.leads), a.syncLeads, logger),
		Contacts: handlers.NewContactHandler(a.contacts, a.interactions, logger),
		Projects: handlers.NewProjectHandler(a.projects, logger),
		Tasks:    handlers.NewTaskHandler(a.tasks, usecase.NewCreateTaskUseCase(a.tasks, a.projects, a.users), logger),
		Users:    handlers.NewUserHandler(a.users, logger),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Montagem que pode falhar fica antes do ListenAndServe.
	// Cron do sync de leads
	var scheduler *worker.LeadSyncScheduler
	if cfg.LeadSyncSchedule != "" {
		loc, err := cfg.Location()
		if err != nil {
			return fmt.Errorf("TZ_NAME: %w", err)
		}
		if scheduler, err = worker.NewLeadSyncScheduler(a.syncLeads, cfg.LeadSyncSchedule, loc, logger); err != nil {
			return err
		}
	}

	// Worker de notificação (RabbitMQ -> e-mail)
	var notifier *queue.Worker
	if a.rabbit != nil && cfg.MailEnabled() {
		ch, err := a.rabbit.Conn.Channel()
		if err != nil {
			return fmt.Errorf("opening consumer channel: %w", err)
		}
		defer ch.Close()

		sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.SalesTeamEmail)
		notifier = queue.NewWorker(ch, sender, logger)
	}

	g, ctx := errgroup.WithContext(ctx)

	// HTTP
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if scheduler != nil {
		g.Go(func() error { return scheduler.Start(ctx) })
	}
	if notifier != nil {
		g.Go(func() error { return notifier.Start(ctx, queue.LeadNotificationsQueue) })
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
