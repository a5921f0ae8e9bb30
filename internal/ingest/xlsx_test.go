package ingest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestXLSXParser(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Description", "Amount", "Date", "Account"},
		{"Renewal", 1500.5, "15-01-2024", "Accounts::::Acme Corp"},
		{"Upsell", "oops", "15-01-2024", "Globex"},
	})

	src, err := NewXLSXParser(buf)
	require.NoError(t, err)
	defer src.Close()

	var rejected []RowError
	sales, err := ParseAll(context.Background(), src, func(e RowError) { rejected = append(rejected, e) })
	require.NoError(t, err)

	require.Len(t, sales, 1)
	assert.Equal(t, "1500.5", sales[0].Amount.String())
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(sales[0].Date))
	require.Len(t, rejected, 1)
	assert.Equal(t, 3, rejected[0].Line)
}

func TestXLSXParser_RejectsGarbage(t *testing.T) {
	_, err := NewXLSXParser(bytes.NewBufferString("definitely not a zip"))
	assert.Error(t, err)
}

func TestSerialToDate(t *testing.T) {
	assert.Equal(t, "15-01-2024", serialToDate("45306"))
	assert.Equal(t, "15-01-2024", serialToDate("15-01-2024"))
}
