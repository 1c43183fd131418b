package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"allai/config"
	"allai/routes"
	"allai/services"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	store, closeStore, err := services.OpenUserStore(context.Background(), config.GetStoreOptions())
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer closeStore()

	if config.GetOpenAIKey() == "" {
		log.Println("OPENAI_API_KEY not set, /api/enhance will return prompts unchanged")
	}

	router := routes.SetupRouter(routes.Options{
		Auth:          services.NewAuthService(store, config.GetJWTSecret()),
		Enhancer:      services.NewEnhancer(config.GetOpenAIKey(), config.GetOpenAIModel()),
		AuthRateLimit: config.GetAuthRateLimit(),
	})

	port := ":" + config.GetPort()
	log.Printf("Server starting on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
