// sijil-crm/internal/routes/api_routes.go
package routes

import (
	"sijil-crm/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers the record store API. Paths are flat and
// unversioned, the table client consumes them as-is.
func RegisterAPIRoutes(r *gin.Engine) {
	r.GET("/records", handlers.ListRecordsHandler)
	r.POST("/records", handlers.CreateRecordHandler)
	r.PUT("/records/:id", handlers.UpdateRecordHandler)
	r.DELETE("/records/:id", handlers.DeleteRecordHandler)

	r.POST("/update-column-color", handlers.UpdateColumnColorHandler)
	r.POST("/update-row-colors", handlers.UpdateRowColorsHandler)
	r.POST("/upload-excel", handlers.ImportExcelHandler)
}
