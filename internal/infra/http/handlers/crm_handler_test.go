package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/testhelpers"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handlers.HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Dependencies["database"])
	assert.Equal(t, "not configured", body.Dependencies["rabbitmq"])
}

type fakeQueue bool

func (f fakeQueue) Healthy() bool { return bool(f) }

func TestHealth_DegradedQueue(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	h := handlers.NewHealthHandler(db, fakeQueue(false), "")

	rec := serveFunc(h.Handle, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClients(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/clients", map[string]any{
		"companyName": "Acme Corp", "email": "sales@acme.com", "region": "South", "position": []float64{-23.5, -46.6},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = api.do(t, http.MethodPost, "/clients", map[string]any{"companyName": "Other", "email": "sales@acme.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/clients", map[string]any{"companyName": "Other", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, idPath("/clients/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	client := decode[map[string]any](t, rec)
	assert.Equal(t, "Acme Corp", client["companyName"])
	assert.Equal(t, []any{-23.5, -46.6}, client["position"])

	rec = api.do(t, http.MethodGet, "/clients/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client not found", decode[handlers.ErrorResponse](t, rec).Message)

	list := decode[[]map[string]any](t, api.do(t, http.MethodGet, "/clients", nil))
	assert.Len(t, list, 1)
}

func TestClientAliases_DriveUploadResolution(t *testing.T) {
	api := newTestAPI(t)
	client := testhelpers.SeedClient(t, api.db, "Acme Corporation Ltda", "", "")

	rec := api.do(t, http.MethodPut, "/client-aliases", []map[string]any{{"name": "Acme", "clientId": client.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPut, "/client-aliases", []map[string]any{{"name": "Ghost", "clientId": 999}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPut, "/client-aliases", []map[string]any{{"name": "", "clientId": 0}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[handlers.ErrorResponse](t, rec).Details, 2)

	aliases := decode[[]map[string]any](t, api.do(t, http.MethodGet, "/client-aliases", nil))
	require.Len(t, aliases, 1)

	data := "Description,Amount,Date,Account\nFee,10.00,01-02-2024,Accounts::::Acme (Matriz)\n"
	rec = api.upload(t, "/sales/upload-csv", "sales.csv", []byte(data))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[uploadBody](t, rec).Imported)
}

func TestContactsAndInteractions(t *testing.T) {
	api := newTestAPI(t)
	client := testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")

	rec := api.do(t, http.MethodPost, "/contacts", map[string]any{"name": "Carla", "email": "carla@acme.com", "clientId": client.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contactID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = api.do(t, http.MethodPost, "/contacts", map[string]any{"name": "Ghost", "email": "g@x.com", "clientId": 999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, idPath("/contacts/%d", contactID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/interactions", map[string]any{
		"type": "call", "date": "2024-04-01T10:00:00Z", "clientId": client.ID, "contactId": contactID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	interactionID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = api.do(t, http.MethodGet, idPath("/interactions/%d", interactionID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, "/interactions", nil)), 1)
	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, "/contacts", nil)), 1)
}

func TestProjectsAndTasks(t *testing.T) {
	api := newTestAPI(t)
	acme := testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")
	other := testhelpers.SeedClient(t, api.db, "Other", "", "")
	ana := testhelpers.SeedUser(t, api.db, "ana")
	bob := testhelpers.SeedUser(t, api.db, "bob")

	rec := api.do(t, http.MethodPost, "/projects", map[string]any{"name": "Rollout", "clientId": acme.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	projectID := int64(decode[map[string]any](t, rec)["id"].(float64))
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/projects", map[string]any{"name": "Other", "clientId": other.ID}).Code)

	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, idPath("/projects?clientId=%d", acme.ID), nil)), 1)
	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, "/projects", nil)), 2)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/projects?clientId=x", nil).Code)

	rec = api.do(t, http.MethodPost, "/tasks", map[string]any{
		"title": "Kickoff", "projectId": projectID, "authorUserId": ana.ID, "assignedUserId": 999,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid assignedUserId", decode[handlers.ErrorResponse](t, rec).Message)

	rec = api.do(t, http.MethodPost, "/tasks", map[string]any{
		"title": "Kickoff", "projectId": projectID, "authorUserId": ana.ID, "assignedUserId": bob.ID, "priority": "High",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[map[string]any](t, rec)
	assert.Equal(t, "To Do", task["status"])
	taskID := int64(task["id"].(float64))

	tasks := decode[[]map[string]any](t, api.do(t, http.MethodGet, idPath("/tasks?projectId=%d", projectID), nil))
	require.Len(t, tasks, 1)
	assert.Equal(t, "bob", tasks[0]["assignee"].(map[string]any)["username"])
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/tasks", nil).Code)

	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, idPath("/tasks/user/%d", bob.ID), nil)), 1)
	assert.Len(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, idPath("/tasks/user/%d", ana.ID), nil)), 1)

	rec = api.do(t, http.MethodPatch, idPath("/tasks/%d/status", taskID), map[string]string{"status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Completed", decode[map[string]any](t, rec)["status"])
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPatch, idPath("/tasks/%d/status", taskID), map[string]string{"status": "Done"}).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPatch, "/tasks/999/status", map[string]string{"status": "Completed"}).Code)

	rec = api.do(t, http.MethodPost, idPath("/tasks/%d/comments", taskID), map[string]any{"text": "Looks good", "userId": ana.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comments := decode[[]map[string]any](t, api.do(t, http.MethodGet, idPath("/tasks/%d/comments", taskID), nil))
	require.Len(t, comments, 1)
	assert.Equal(t, "Looks good", comments[0]["text"])
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/tasks/999/comments", nil).Code)

	users := decode[[]map[string]any](t, api.do(t, http.MethodGet, "/users", nil))
	assert.Len(t, users, 2)
}
