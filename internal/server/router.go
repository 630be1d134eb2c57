package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tripacker/tripacker-backend/internal/handlers"
	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/middleware"
	"github.com/tripacker/tripacker-backend/internal/services"
	"github.com/tripacker/tripacker-backend/internal/utils"
)

type RouterDeps struct {
	Log           *logger.Logger
	AuthService   services.AuthService
	Healthcheck   *handlers.HealthcheckHandler
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Trip          *handlers.TripHandler
	GeneratedList *handlers.GeneratedListHandler
	SpecialList   *handlers.SpecialListHandler
	Item          *handlers.ItemHandler
	SSE           *handlers.SSEHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if strings.EqualFold(utils.GetEnv("APP_ENV", "dev", deps.Log), "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	origins := strings.Split(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173", deps.Log), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", deps.Healthcheck.Healthcheck)
	router.POST("/register", deps.Auth.Register)
	router.POST("/login", deps.Auth.Login)

	authed := router.Group("/")
	authed.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
	{
		authed.POST("/refresh", deps.Auth.Refresh)
		authed.POST("/logout", deps.Auth.Logout)
		authed.GET("/user", deps.User.GetMe)
		authed.GET("/sse/stream", deps.SSE.Stream)
	}

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
	{
		api.POST("/trips", deps.Trip.Create)
		api.GET("/trips", deps.Trip.List)
		api.GET("/trips/:id", deps.Trip.GetByID)
		api.POST("/trips/:id/generate", deps.Trip.Generate)
		api.GET("/trips/:id/generated-list", deps.Trip.GetGeneratedList)

		api.GET("/generated-lists", deps.GeneratedList.List)
		api.GET("/generated-lists/:id", deps.GeneratedList.GetByID)
		api.PATCH("/generated-lists/:id/items/:itemID", deps.GeneratedList.UpdateItem)

		api.POST("/special-lists", deps.SpecialList.Create)
		api.GET("/special-lists", deps.SpecialList.List)
		api.GET("/special-lists/:id", deps.SpecialList.GetByID)
		api.PUT("/special-lists/:id", deps.SpecialList.Update)
		api.DELETE("/special-lists/:id", deps.SpecialList.Delete)
		api.POST("/special-lists/:id/items", deps.SpecialList.AddItem)
		api.PUT("/special-lists/:id/items/:itemID", deps.SpecialList.UpdateItem)
		api.DELETE("/special-lists/:id/items/:itemID", deps.SpecialList.RemoveItem)
		api.POST("/special-lists/:id/tags", deps.SpecialList.AddTag)
		api.DELETE("/special-lists/:id/tags/:tagID", deps.SpecialList.RemoveTag)

		api.POST("/items", deps.Item.Create)
		api.GET("/items", deps.Item.List)
	}

	return router
}
