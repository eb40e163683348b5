// sijil-crm/internal/handlers/color_handler.go
package handlers

import (
	"net/http"

	"sijil-crm/config"
	"sijil-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// UpdateColumnColorHandler sets the display color of one column. The mapping
// is a single row per field in column_colors, so this is one upsert and every
// record observes the new color on its next read, including records created
// before the call.
func UpdateColumnColorHandler(c *gin.Context) {
	var body struct {
		Field string `json:"field" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field is required"})
		return
	}

	cc := models.ColumnColor{Field: body.Field, Color: body.Color}
	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "field"}},
		DoUpdates: clause.AssignmentColumns([]string{"color", "updated_at"}),
	}).Create(&cc).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update column color"})
		return
	}
	invalidateRecordsCache()

	c.JSON(http.StatusOK, gin.H{"message": "Column color updated"})
}

// UpdateRowColorsHandler sets rowColor on every record whose id is listed.
// Records outside ids are untouched; an empty list is a successful no-op.
func UpdateRowColorsHandler(c *gin.Context) {
	var body struct {
		IDs   []uint `json:"ids"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if len(body.IDs) > 0 {
		err := config.DB.Model(&models.Record{}).
			Where("id IN ?", body.IDs).
			Update("row_color", body.Color).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update row colors"})
			return
		}
		invalidateRecordsCache()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Row colors updated"})
}
