// sijil-crm/internal/handlers/excel_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sijil-crm/config"
	"sijil-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// importColumns maps the sheet header labels to record field keys. The labels
// are the exact column titles of the administration's sheets; a header cell
// that matches nothing is ignored and the field keeps its default.
var importColumns = map[string]string{
	"رقم":                  "number",
	"الاسم و اللقب":        "fullName",
	"تاريخ و مكان الميلاد": "birthInfo",
	"الاختصاص":             "specialization",
	"دورة":                 "cycle",
	"الفوج":                "group",
	"مبلغ الملف":           "fileAmount",
	"الوسيط":               "intermediary",
	"الدفعة 1":             "payment1",
	"تاريخ الدفعة 1":       "paymentDate1",
	"الدفعة 2":             "payment2",
	"تاريخ الدفعة 2":       "paymentDate2",
	"الديبلوم":             "diploma",
	"ملاحظة":               "note",
}

// headerKeys resolves the header row to a per-column field key, "" for
// columns outside the expected label set.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	for i, label := range header {
		keys[i] = importColumns[strings.TrimSpace(label)]
	}
	return keys
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// recordFromRow normalizes one sheet row into a store-ready record. Text
// columns default to empty strings, money columns go through the lenient
// numeric parse and default to 0.
func recordFromRow(keys []string, row []string) models.Record {
	var rec models.Record
	for i, key := range keys {
		if key == "" || i >= len(row) {
			continue
		}
		cell := row[i]
		switch key {
		case "number":
			rec.Number = strings.TrimSpace(cell)
		case "fullName":
			rec.FullName = strings.TrimSpace(cell)
		case "birthInfo":
			rec.BirthInfo = cell
		case "specialization":
			rec.Specialization = cell
		case "cycle":
			rec.Cycle = cell
		case "group":
			rec.Group = cell
		case "fileAmount":
			rec.FileAmount = models.ParseAmount(cell)
		case "intermediary":
			rec.Intermediary = cell
		case "payment1":
			rec.Payment1 = models.ParseAmount(cell)
		case "paymentDate1":
			rec.PaymentDate1 = cell
		case "payment2":
			rec.Payment2 = models.ParseAmount(cell)
		case "paymentDate2":
			rec.PaymentDate2 = cell
		case "diploma":
			rec.Diploma = cell
		case "note":
			rec.Note = cell
		}
	}
	return rec
}

// ImportExcelHandler bulk-inserts the rows of an uploaded spreadsheet. Every
// row becomes a new record, imports never update or deduplicate against
// existing records. Rows are inserted one by one without batch atomicity; a
// failing insert aborts the import but earlier rows stay.
func ImportExcelHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	dir := uploadsBaseDir()
	if err := ensureDir(dir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not prepare upload directory"})
		return
	}
	tmpPath := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store uploaded file"})
		return
	}
	defer os.Remove(tmpPath)

	f, err := excelize.OpenFile(tmpPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "فشل في معالجة الملف"})
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الملف فارغ أو لا يحتوي على بيانات"})
		return
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "فشل في معالجة الملف"})
		return
	}

	// Normalize everything first: an empty sheet must be rejected before any
	// insert happens.
	var pending []models.Record
	if len(rows) > 1 {
		keys := headerKeys(rows[0])
		for _, row := range rows[1:] {
			if rowIsEmpty(row) {
				continue
			}
			pending = append(pending, recordFromRow(keys, row))
		}
	}
	if len(pending) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الملف فارغ أو لا يحتوي على بيانات"})
		return
	}

	imported := 0
	for i := range pending {
		if err := config.DB.Create(&pending[i]).Error; err != nil {
			invalidateRecordsCache()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("فشل في استيراد الصف %d: %v", imported+1, err),
			})
			return
		}
		imported++
	}
	invalidateRecordsCache()

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("تم استيراد %d سجل بنجاح", imported),
		"imported": imported,
	})
}
