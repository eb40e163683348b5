// sijil-crm/internal/handlers/record_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sijil-crm/config"
	"sijil-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecordInput is the partial-record payload accepted by create and update.
// Pointer fields distinguish "absent, keep current" from "present, set", so a
// payment can be set back to zero. Monetary fields coerce leniently through
// models.Amount; remaining is deliberately not accepted, the server derives it.
type RecordInput struct {
	Number         *string        `json:"number"`
	FullName       *string        `json:"fullName"`
	BirthInfo      *string        `json:"birthInfo"`
	Specialization *string        `json:"specialization"`
	Cycle          *string        `json:"cycle"`
	Group          *string        `json:"group"`
	FileAmount     *models.Amount `json:"fileAmount"`
	Intermediary   *string        `json:"intermediary"`
	Payment1       *models.Amount `json:"payment1"`
	PaymentDate1   *string        `json:"paymentDate1"`
	Payment2       *models.Amount `json:"payment2"`
	PaymentDate2   *string        `json:"paymentDate2"`
	Diploma        *string        `json:"diploma"`
	Note           *string        `json:"note"`
	RowColor       *string        `json:"rowColor"`
}

func (in *RecordInput) apply(rec *models.Record) {
	if in.Number != nil {
		rec.Number = *in.Number
	}
	if in.FullName != nil {
		rec.FullName = *in.FullName
	}
	if in.BirthInfo != nil {
		rec.BirthInfo = *in.BirthInfo
	}
	if in.Specialization != nil {
		rec.Specialization = *in.Specialization
	}
	if in.Cycle != nil {
		rec.Cycle = *in.Cycle
	}
	if in.Group != nil {
		rec.Group = *in.Group
	}
	if in.FileAmount != nil {
		rec.FileAmount = *in.FileAmount
	}
	if in.Intermediary != nil {
		rec.Intermediary = *in.Intermediary
	}
	if in.Payment1 != nil {
		rec.Payment1 = *in.Payment1
	}
	if in.PaymentDate1 != nil {
		rec.PaymentDate1 = *in.PaymentDate1
	}
	if in.Payment2 != nil {
		rec.Payment2 = *in.Payment2
	}
	if in.PaymentDate2 != nil {
		rec.PaymentDate2 = *in.PaymentDate2
	}
	if in.Diploma != nil {
		rec.Diploma = *in.Diploma
	}
	if in.Note != nil {
		rec.Note = *in.Note
	}
	if in.RowColor != nil {
		rec.RowColor = *in.RowColor
	}
}

// ListRecordsHandler returns every record, oldest first, each carrying the
// shared column color mapping. The serialized list is cached in Redis and
// dropped on any mutation.
func ListRecordsHandler(c *gin.Context) {
	if data := cachedRecordsJSON(); data != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}

	var records []models.Record
	if err := config.DB.Order("created_at asc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch records"})
		return
	}
	if records == nil {
		records = make([]models.Record, 0)
	}

	colors, err := models.LoadColumnColors(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch column colors"})
		return
	}
	models.AttachColumnColors(records, colors)

	data, err := json.Marshal(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not serialize records"})
		return
	}
	storeRecordsCache(data)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// CreateRecordHandler inserts one record. Missing fields default to empty
// strings and zero amounts; remaining is computed in the model's BeforeSave.
func CreateRecordHandler(c *gin.Context) {
	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record payload"})
		return
	}

	var rec models.Record
	input.apply(&rec)

	if err := config.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create record"})
		return
	}
	invalidateRecordsCache()

	colors, _ := models.LoadColumnColors(config.DB)
	rec.ColumnColors = colors
	c.JSON(http.StatusCreated, rec)
}

// UpdateRecordHandler applies a partial update to one record, recomputes the
// derived balance and refreshes updatedAt. Last writer wins; there is no
// version check.
func UpdateRecordHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	var rec models.Record
	if err := config.DB.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load record"})
		return
	}

	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record payload"})
		return
	}
	input.apply(&rec)

	if err := config.DB.Save(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update record"})
		return
	}
	invalidateRecordsCache()

	colors, _ := models.LoadColumnColors(config.DB)
	rec.ColumnColors = colors
	c.JSON(http.StatusOK, rec)
}

// DeleteRecordHandler removes one record. Bulk deletion is a batch of these
// individual calls, there is no multi-delete endpoint.
func DeleteRecordHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	var rec models.Record
	if err := config.DB.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load record"})
		return
	}

	if err := config.DB.Delete(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete record"})
		return
	}
	invalidateRecordsCache()

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}
