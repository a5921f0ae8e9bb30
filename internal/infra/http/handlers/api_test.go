package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/chatbot"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/upload"
	"github.com/xavierca1/ligue-crm/internal/testhelpers"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const testAdminToken = "admin-secret"

type stubSource struct {
	users []chatbot.User
	err   error
}

func (s *stubSource) FetchLeads(ctx context.Context) ([]chatbot.User, error) {
	return s.users, s.err
}

type testAPI struct {
	handler http.Handler
	db      *sql.DB
	source  *stubSource
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWithLimit(t, upload.DefaultMaxBytes)
}

func newTestAPIWithLimit(t *testing.T, maxBytes int64) *testAPI {
	t.Helper()

	db := testhelpers.NewTestDB(t)
	logger := zap.NewNop()
	source := &stubSource{}
	events := queue.NewLogProducer(logger)

	clients := database.NewClientRepository(db)
	aliases := database.NewClientAliasRepository(db)
	sales := database.NewSaleRepository(db)
	leads := database.NewLeadRepository(db)
	contacts := database.NewContactRepository(db)
	interactions := database.NewInteractionRepository(db)
	projects := database.NewProjectRepository(db)
	tasks := database.NewTaskRepository(db)
	users := database.NewUserRepository(db)

	importUC := usecase.NewImportSalesUseCase(sales, aliases, clients, events, nil, logger)
	syncUC := usecase.NewSyncLeadsUseCase(source, leads, events, nil, logger)

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:     logger,
		AdminToken: testAdminToken,
		Health:     handlers.NewHealthHandler(db, nil, ""),
		Clients:    handlers.NewClientHandler(clients, logger),
		Aliases:    handlers.NewClientAliasHandler(aliases, logger),
		Sales: handlers.NewSaleHandler(sales, clients,
			usecase.NewCreateSaleUseCase(sales), importUC,
			upload.NewReceiver(t.TempDir(), maxBytes), logger),
		Leads: handlers.NewLeadHandler(t.Context(), leads,
			usecase.NewUpdateLeadStatusUseCase(leads), syncUC, logger),
		Contacts: handlers.NewContactHandler(contacts, interactions, logger),
		Projects: handlers.NewProjectHandler(projects, logger),
		Tasks:    handlers.NewTaskHandler(tasks, usecase.NewCreateTaskUseCase(tasks, projects, users), logger),
		Users:    handlers.NewUserHandler(users, logger),
	})

	return &testAPI{handler: router, db: db, source: source}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) upload(t *testing.T, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func serveFunc(h http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, path, nil))
	return rec
}
