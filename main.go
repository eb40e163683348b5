package main

import (
	"log/slog"
	"os"

	"sijil-crm/config"
	"sijil-crm/internal/routes"
	"sijil-crm/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(&models.Record{}, &models.ColumnColor{}); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	// The table client is served from another origin.
	r.Use(cors.Default())
	routes.RegisterAPIRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("server listening", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
