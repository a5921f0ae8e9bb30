package handlers_test

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/testhelpers"
)

type uploadBody struct {
	Message           string `json:"message"`
	ImportID          string `json:"import_id"`
	Imported          int    `json:"imported"`
	SkippedDuplicates int    `json:"skipped_duplicates"`
	TotalRows         int    `json:"total_rows"`
	Rejected          []struct {
		Line   int    `json:"line"`
		Reason string `json:"reason"`
	} `json:"rejected"`
}

func salesCSV() string {
	var b strings.Builder
	b.WriteString("Description,Amount,Date,Account\n")
	for i := 0; i < 9; i++ {
		b.WriteString("Monthly fee,\"1,500.00\",15-01-2024,Accounts::::Acme Corp (Branch X)\n")
	}
	b.WriteString("Broken,abc,15-01-2024,Accounts::::Acme Corp\n")
	b.WriteString("Orphan,10.00,16-01-2024,Accounts::::Nobody Inc\n")
	return b.String()
}

func TestUploadSales_PartialSuccessAndIdempotency(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "South", "Retail")

	rec := api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[uploadBody](t, rec)
	assert.Equal(t, "File uploaded and data imported successfully", body.Message)
	assert.NotEmpty(t, body.ImportID)
	assert.Equal(t, 9, body.Imported)
	assert.Equal(t, 0, body.SkippedDuplicates)
	assert.Equal(t, 11, body.TotalRows)
	require.Len(t, body.Rejected, 2)
	assert.Equal(t, 11, body.Rejected[0].Line)
	assert.Equal(t, 12, body.Rejected[1].Line)
	assert.Equal(t, "client not found: Nobody Inc", body.Rejected[1].Reason)

	// mesmo arquivo de novo: nada novo é gravado
	rec = api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body = decode[uploadBody](t, rec)
	assert.Equal(t, 0, body.Imported)
	assert.Equal(t, 9, body.SkippedDuplicates)

	list := decode[[]map[string]any](t, api.do(t, http.MethodGet, "/sales", nil))
	assert.Len(t, list, 9)
}

func TestUploadSales_FailOnDuplicate(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")

	rec := api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.upload(t, "/sales/upload-csv?on_duplicate=fail", "sales.csv", []byte(salesCSV()))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_SALE", decode[handlers.ErrorResponse](t, rec).Error)

	rec = api.upload(t, "/sales/upload-csv?on_duplicate=maybe", "sales.csv", []byte(salesCSV()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSales_Errors(t *testing.T) {
	api := newTestAPIWithLimit(t, 512)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")

	t.Run("too large", func(t *testing.T) {
		rec := api.upload(t, "/sales/upload-csv", "sales.csv", []byte(strings.Repeat("x", 4096)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "FILE_TOO_LARGE", decode[handlers.ErrorResponse](t, rec).Error)
	})

	t.Run("unsupported type", func(t *testing.T) {
		rec := api.upload(t, "/sales/upload-csv", "sales.pdf", []byte("%PDF"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Equal(t, "UNSUPPORTED_FILE", decode[handlers.ErrorResponse](t, rec).Error)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/sales/upload-csv", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_FILE", decode[handlers.ErrorResponse](t, rec).Error)
	})

	t.Run("no valid rows", func(t *testing.T) {
		data := "Description,Amount,Date,Account\nx,abc,15-01-2024,Accounts::::Acme Corp\n"
		rec := api.upload(t, "/sales/upload-csv", "sales.csv", []byte(data))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[handlers.ErrorResponse](t, rec)
		assert.Equal(t, "NO_VALID_ROWS", resp.Error)
		assert.Equal(t, "no valid sales data found", resp.Message)
	})

	t.Run("header only", func(t *testing.T) {
		rec := api.upload(t, "/sales/upload-csv", "sales.csv", []byte("Description,Amount,Date,Account\n"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "no valid sales data found", decode[handlers.ErrorResponse](t, rec).Message)
	})

	t.Run("broken workbook", func(t *testing.T) {
		rec := api.upload(t, "/sales/upload-csv", "sales.xlsx", []byte("not a zip"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_FILE", decode[handlers.ErrorResponse](t, rec).Error)
	})

	// nenhum dos erros acima grava venda
	assert.Empty(t, decode[[]map[string]any](t, api.do(t, http.MethodGet, "/sales", nil)))
}

func TestUploadSales_XLSX(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Description", "Amount", "Date", "Account"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Setup", 250.5, "20-02-2024", "Accounts::::Acme Corp"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rec := api.upload(t, "/sales/upload-csv", "sales.xlsx", buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[uploadBody](t, rec).Imported)
}

func TestCreateSale(t *testing.T) {
	api := newTestAPI(t)
	client := testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")

	rec := api.do(t, http.MethodPost, "/sales", map[string]any{
		"clientId": client.ID, "amount": "99.90", "date": "2024-03-01", "description": "Manual",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[map[string]any](t, rec)

	rec = api.do(t, http.MethodGet, idPath("/sales/%d", int64(sale["id"].(float64))), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/sales", map[string]any{
		"clientId": 999, "amount": "10", "date": "2024-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid clientId", decode[handlers.ErrorResponse](t, rec).Message)

	rec = api.do(t, http.MethodGet, "/sales/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/sales/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportSales_CSVRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")
	require.Equal(t, http.StatusCreated, api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV())).Code)

	rec := api.do(t, http.MethodGet, "/sales/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	exported := rec.Body.Bytes()
	records, err := csv.NewReader(bytes.NewReader(exported)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, []string{"Description", "Amount", "Date", "Account"}, records[0])
	assert.Equal(t, []string{"Monthly fee", "1500.00", "15-01-2024", "Accounts::::Acme Corp"}, records[1])

	// reimportar o export não duplica nada
	rec = api.upload(t, "/sales/upload-csv", "export.csv", exported)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[uploadBody](t, rec).Imported)
}

func TestExportSales_XLSX(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")
	require.Equal(t, http.StatusCreated, api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV())).Code)

	rec := api.do(t, http.MethodGet, "/sales/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	rec = api.do(t, http.MethodGet, "/sales/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalesSummary(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "South", "Retail")
	require.Equal(t, http.StatusCreated, api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV())).Code)

	rec := api.do(t, http.MethodGet, "/sales/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Body.String()
	assert.Contains(t, raw, `"byRegion":[{"label":"South"`)
	assert.Contains(t, raw, `"byIndustry":[{"label":"Retail"`)
	assert.Contains(t, raw, `"count":9`)
}

func TestClearSales_RequiresAdminToken(t *testing.T) {
	api := newTestAPI(t)
	testhelpers.SeedClient(t, api.db, "Acme Corp", "", "")
	require.Equal(t, http.StatusCreated, api.upload(t, "/sales/upload-csv", "sales.csv", []byte(salesCSV())).Code)

	rec := api.do(t, http.MethodDelete, "/admin/sales", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptestRequest(http.MethodDelete, "/admin/sales")
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec = serve(api, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(9), decode[map[string]any](t, rec)["deleted"])

	list := decode[[]map[string]any](t, api.do(t, http.MethodGet, "/sales", nil))
	assert.Empty(t, list)
}
