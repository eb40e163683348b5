// sijil-crm/models/column_color.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// ColorMap is the per-field display color mapping attached to serialized
// records.
type ColorMap map[string]string

// ColumnColor holds the display color of one table column. There is exactly
// one row per field, so a column recolor is a single upsert instead of a
// write to every record.
type ColumnColor struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Field     string    `gorm:"uniqueIndex;size:64;not null" json:"field"`
	Color     string    `gorm:"size:32" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoadColumnColors reads the full field -> color mapping. The map is never
// nil so it serializes as {} rather than null.
func LoadColumnColors(db *gorm.DB) (ColorMap, error) {
	var colors []ColumnColor
	if err := db.Find(&colors).Error; err != nil {
		return nil, err
	}
	m := make(ColorMap, len(colors))
	for _, cc := range colors {
		m[cc.Field] = cc.Color
	}
	return m, nil
}

// AttachColumnColors copies the shared mapping onto every record in the
// slice, so each serialized record carries an identical columnColors object.
func AttachColumnColors(records []Record, colors ColorMap) {
	for i := range records {
		records[i].ColumnColors = colors
	}
}
