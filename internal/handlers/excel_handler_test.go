package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sijil-crm/config"
	"sijil-crm/models"
)

var importHeader = []any{
	"رقم", "الاسم و اللقب", "تاريخ و مكان الميلاد", "الاختصاص", "دورة",
	"الفوج", "مبلغ الملف", "الوسيط", "الدفعة 1", "تاريخ الدفعة 1",
	"الدفعة 2", "تاريخ الدفعة 2", "الديبلوم", "ملاحظة",
}

func sheetBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func doUpload(t *testing.T, r *gin.Engine, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "students.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-excel", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportInsertsEveryRow(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("UPLOADS_DIR", t.TempDir())

	content := sheetBytes(t, [][]any{
		importHeader,
		{"12", "Ahmed Benali", "1998 الجزائر", "إعلام آلي", "2024", "G1", 1000, "", 400, "2024-01-10", 100, "2024-02-10", "", ""},
		{"13", "Sara Khaled", "", "", "", "", "1500", "", "junk", "", 300, "", "", "ملاحظة"},
	})

	w := doUpload(t, r, content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Imported int    `json:"imported"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Imported)
	assert.NotEmpty(t, result.Message)

	var recs []models.Record
	require.NoError(t, config.DB.Order("id asc").Find(&recs).Error)
	require.Len(t, recs, 2)

	assert.Equal(t, "12", recs[0].Number)
	assert.Equal(t, "Ahmed Benali", recs[0].FullName)
	assert.Equal(t, models.Amount(1000), recs[0].FileAmount)
	assert.Equal(t, models.Amount(500), recs[0].Remaining, "remaining derived on insert")

	// numeric string parses, garbage coerces to 0
	assert.Equal(t, models.Amount(1500), recs[1].FileAmount)
	assert.Equal(t, models.Amount(0), recs[1].Payment1)
	assert.Equal(t, models.Amount(300), recs[1].Payment2)
	assert.Equal(t, models.Amount(1200), recs[1].Remaining)
}

func TestImportAlwaysInsertsNeverDeduplicates(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("UPLOADS_DIR", t.TempDir())

	content := sheetBytes(t, [][]any{
		importHeader,
		{"12", "Ahmed Benali"},
	})

	w := doUpload(t, r, content)
	require.Equal(t, http.StatusOK, w.Code)
	w = doUpload(t, r, content)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Record{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "same sheet imported twice duplicates rows")
}

func TestImportRejectsEmptySheet(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("UPLOADS_DIR", t.TempDir())

	// header only, zero data rows
	w := doUpload(t, r, sheetBytes(t, [][]any{importHeader}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// data rows present but entirely blank
	w = doUpload(t, r, sheetBytes(t, [][]any{importHeader, {"", ""}, {""}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Record{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "nothing inserted before the rejection")
}

func TestImportUnknownColumnsIgnored(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("UPLOADS_DIR", t.TempDir())

	content := sheetBytes(t, [][]any{
		{"عمود غريب", "رقم", "الاسم و اللقب"},
		{"ignored", "44", "Yacine M."},
	})

	w := doUpload(t, r, content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec models.Record
	require.NoError(t, config.DB.First(&rec).Error)
	assert.Equal(t, "44", rec.Number)
	assert.Equal(t, "Yacine M.", rec.FullName)
	assert.Equal(t, models.Amount(0), rec.FileAmount, "absent column defaults to 0")
}

func TestImportWithoutFile(t *testing.T) {
	r := setupRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportRejectsGarbageFile(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("UPLOADS_DIR", t.TempDir())
	w := doUpload(t, r, []byte("this is not a spreadsheet"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
