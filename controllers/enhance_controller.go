package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"allai/models"
	"allai/services"
)

type EnhanceController struct {
	enhancer *services.Enhancer
}

func NewEnhanceController(enhancer *services.Enhancer) *EnhanceController {
	return &EnhanceController{enhancer: enhancer}
}

func (e *EnhanceController) Enhance(c *gin.Context) {
	var request models.EnhanceRequest
	_ = c.ShouldBindJSON(&request)
	prompt := strings.TrimSpace(request.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
		return
	}

	improved, err := e.enhancer.Enhance(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("Error enhancing prompt: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "LLM service unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.EnhanceResponse{Improved: improved})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
