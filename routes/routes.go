package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/handlers"
	"github.com/aliblock43/point-property-hub/middleware"
)

func RegisterRoutes(e *echo.Echo, hub *feed.Hub) {
	e.GET("/health", handlers.HealthCheck)

	propertyController := handlers.NewPropertyController()
	blogController := handlers.NewBlogController()
	messageController := handlers.NewMessageController()
	adminController := handlers.NewAdminController()
	statsController := handlers.NewStatsController()
	uploadController := handlers.NewUploadController()

	// public surface
	api := e.Group("/api")
	api.GET("/properties", propertyController.ListProperties)
	api.GET("/properties/:slug", propertyController.GetPropertyBySlug)
	api.GET("/blog", blogController.ListPosts)
	api.GET("/blog/:slug", blogController.GetPostBySlug)
	api.POST("/contact", messageController.CreateMessage)
	api.POST("/admin/login", adminController.Login)

	// live change feed
	e.GET("/ws/feed", feed.WSHandler(hub))

	// uploaded images
	e.Static("/uploads", uploadController.Dir())

	// admin surface, token-guarded
	admin := api.Group("/admin", middleware.JWTMiddleware())
	admin.GET("/profile", adminController.Profile)
	admin.GET("/stats", statsController.Dashboard)
	admin.POST("/upload", uploadController.Upload)

	admin.GET("/properties", propertyController.AdminListProperties)
	admin.POST("/properties", propertyController.CreateProperty)
	admin.GET("/properties/:id", propertyController.AdminGetProperty)
	admin.PUT("/properties/:id", propertyController.UpdateProperty)
	admin.DELETE("/properties/:id", propertyController.DeleteProperty)

	admin.GET("/blog", blogController.AdminListPosts)
	admin.POST("/blog", blogController.CreatePost)
	admin.GET("/blog/:id", blogController.AdminGetPost)
	admin.PUT("/blog/:id", blogController.UpdatePost)
	admin.DELETE("/blog/:id", blogController.DeletePost)

	admin.GET("/messages", messageController.AdminListMessages)
	admin.PATCH("/messages/:id/read", messageController.MarkMessageRead)
	admin.DELETE("/messages/:id", messageController.DeleteMessage)
}
