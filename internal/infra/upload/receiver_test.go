package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/ingest"
)

func multipartRequest(t *testing.T, field, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sales/upload-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReceive_CSV(t *testing.T) {
	rc := NewReceiver(t.TempDir(), 0)
	data := "Description,Amount,Date,Account\nRenewal,10.00,15-01-2024,Accounts::::Acme\n"
	req := multipartRequest(t, "file", "sales.csv", "text/csv", []byte(data))

	f, err := rc.Receive(httptest.NewRecorder(), req, "file")
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, "sales.csv", f.Name)
	assert.Equal(t, FormatCSV, f.Format)
	assert.Equal(t, int64(len(data)), f.Size)

	p, err := f.Parser()
	require.NoError(t, err)
	defer p.Close()

	var rejected []ingest.RowError
	sales, err := ingest.ParseAll(context.Background(), p, func(e ingest.RowError) { rejected = append(rejected, e) })
	require.NoError(t, err)
	assert.Len(t, sales, 1)
	assert.Empty(t, rejected)
}

func TestReceive_RemoveDeletesTempFile(t *testing.T) {
	rc := NewReceiver(t.TempDir(), 0)
	req := multipartRequest(t, "file", "sales.csv", "application/vnd.ms-excel", []byte("a,b\n"))

	f, err := rc.Receive(httptest.NewRecorder(), req, "file")
	require.NoError(t, err)

	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))
	// segunda chamada não falha
	assert.NoError(t, f.Remove())
}

func TestReceive_TooLarge(t *testing.T) {
	rc := NewReceiver(t.TempDir(), 1024)
	req := multipartRequest(t, "file", "sales.csv", "text/csv", []byte(strings.Repeat("x", 4096)))

	_, err := rc.Receive(httptest.NewRecorder(), req, "file")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestReceive_MissingFile(t *testing.T) {
	rc := NewReceiver(t.TempDir(), 0)

	req := multipartRequest(t, "other", "sales.csv", "text/csv", []byte("a,b\n"))
	_, err := rc.Receive(httptest.NewRecorder(), req, "file")
	assert.ErrorIs(t, err, ErrMissingFile)

	req = httptest.NewRequest(http.MethodPost, "/sales/upload-csv", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	_, err = rc.Receive(httptest.NewRecorder(), req, "file")
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestReceive_UnsupportedType(t *testing.T) {
	rc := NewReceiver(t.TempDir(), 0)

	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"pdf extension", "report.pdf", "application/pdf"},
		{"csv with image type", "sales.csv", "image/png"},
		{"legacy xls", "sales.xls", "application/vnd.ms-excel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, "file", tt.filename, tt.contentType, []byte("data"))
			_, err := rc.Receive(httptest.NewRecorder(), req, "file")
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestReceive_NoTempFileLeftOnRejection(t *testing.T) {
	dir := t.TempDir()
	rc := NewReceiver(dir, 0)
	req := multipartRequest(t, "file", "report.pdf", "application/pdf", []byte("data"))

	_, err := rc.Receive(httptest.NewRecorder(), req, "file")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileParser_ClosesUnderlyingFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sales.csv"
	require.NoError(t, os.WriteFile(path, []byte("Description,Amount,Date,Account\n"), 0o600))

	f := &File{Name: "sales.csv", Path: path, Format: FormatCSV}
	p, err := f.Parser()
	require.NoError(t, err)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, p.Close())
	require.NoError(t, f.Remove())
}

func TestParser_MissingFileIsNotUnreadable(t *testing.T) {
	f := &File{Name: "sales.csv", Path: t.TempDir() + "/gone.csv", Format: FormatCSV}

	_, err := f.Parser()
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ingest.ErrUnreadable)
}

func TestParser_CorruptWorkbookIsUnreadable(t *testing.T) {
	path := t.TempDir() + "/sales.xlsx"
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

	_, err := (&File{Name: "sales.xlsx", Path: path, Format: FormatXLSX}).Parser()
	assert.ErrorIs(t, err, ingest.ErrUnreadable)
}

func TestLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/Sales.XLSX"
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	f, err := LocalFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f.Format)
	assert.Equal(t, "Sales.XLSX", f.Name)

	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("x"), 0o600))
	_, err = LocalFile(dir + "/notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = LocalFile(dir + "/missing.csv")
	assert.Error(t, err)
}
