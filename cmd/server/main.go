package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"versehub/config"
	"versehub/controllers"
	"versehub/internal/battle"
	"versehub/routes"
	"versehub/services"
	"versehub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func configPath() string {
	if path := os.Getenv("VERSEHUB_CONFIG"); path != "" {
		return path
	}
	return "./config/config.yml"
}

func main() {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	generator, err := services.NewGenerator(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize verse backend: %v", err)
	}

	registry := battle.NewRegistry()
	controllers.InitBattleController(registry, generator, cfg)
	websocket.InitBattleHub(registry)

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	routes.SetupBattleRoutes(router)

	return router
}
