package routes

import (
	"github.com/gin-gonic/gin"

	"allai/controllers"
	"allai/middlewares"
	"allai/services"
)

// Options carries what SetupRouter wires into the handlers.
type Options struct {
	Auth          *services.AuthService
	Enhancer      *services.Enhancer
	AuthRateLimit float64
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.Logger(), middlewares.CORS())

	api := r.Group("/api")
	api.GET("/health", controllers.Health)

	// 認証
	auth := controllers.NewAuthController(opts.Auth)
	authGroup := api.Group("/auth")
	authGroup.Use(middlewares.RateLimit(opts.AuthRateLimit))
	authGroup.POST("/signup", auth.SignUp)
	authGroup.POST("/signin", auth.SignIn)
	authGroup.GET("/me", middlewares.RequireAuth(opts.Auth), auth.Me)

	// プロンプト改善
	enhance := controllers.NewEnhanceController(opts.Enhancer)
	api.POST("/enhance", enhance.Enhance)

	return r
}
