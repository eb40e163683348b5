// sijil-crm/internal/client/export.go
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"sijil-crm/models"
)

// exportColumns is the column order of exported sheets: the raw in-memory
// record shape, internal bookkeeping fields included.
var exportColumns = []string{
	"id",
	"number",
	"fullName",
	"birthInfo",
	"specialization",
	"cycle",
	"group",
	"fileAmount",
	"intermediary",
	"payment1",
	"paymentDate1",
	"payment2",
	"paymentDate2",
	"remaining",
	"diploma",
	"note",
	"rowColor",
	"columnColors",
	"createdAt",
	"updatedAt",
}

// Export writes the current working copy, possibly filtered and edited, to an
// xlsx file. This is a purely local operation, the store is not involved.
func (c *Client) Export(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Records"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, rec := range c.records {
		for colIdx, key := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, exportValue(rec, key))
		}
	}

	return f.SaveAs(path)
}

func exportValue(rec models.Record, key string) any {
	switch key {
	case "id":
		return rec.ID
	case "number":
		return rec.Number
	case "fullName":
		return rec.FullName
	case "birthInfo":
		return rec.BirthInfo
	case "specialization":
		return rec.Specialization
	case "cycle":
		return rec.Cycle
	case "group":
		return rec.Group
	case "fileAmount":
		return float64(rec.FileAmount)
	case "intermediary":
		return rec.Intermediary
	case "payment1":
		return float64(rec.Payment1)
	case "paymentDate1":
		return rec.PaymentDate1
	case "payment2":
		return float64(rec.Payment2)
	case "paymentDate2":
		return rec.PaymentDate2
	case "remaining":
		return float64(rec.Remaining)
	case "diploma":
		return rec.Diploma
	case "note":
		return rec.Note
	case "rowColor":
		return rec.RowColor
	case "columnColors":
		if len(rec.ColumnColors) == 0 {
			return "{}"
		}
		b, err := json.Marshal(rec.ColumnColors)
		if err != nil {
			return "{}"
		}
		return string(b)
	case "createdAt":
		return rec.CreatedAt.Format(time.RFC3339)
	case "updatedAt":
		return rec.UpdatedAt.Format(time.RFC3339)
	}
	return fmt.Sprintf("unknown column %q", key)
}
