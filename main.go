package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aliblock43/point-property-hub/config"
	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/handlers"
	"github.com/aliblock43/point-property-hub/routes"
	"github.com/aliblock43/point-property-hub/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.ConnectDB()

	utils.InitRedis()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := handlers.NewAdminController().EnsureDefaultAdmin(ctx); err != nil {
		log.Printf("Failed to seed admin account: %v", err)
	}

	hub := feed.NewHub()
	feed.NewTailer(config.DB, hub).Run(ctx)

	// any committed change invalidates that collection's cached queries
	for _, collection := range feed.WatchedCollections() {
		name := collection
		hub.Subscribe(name, func(event feed.Event) {
			if err := utils.InvalidatePrefix(context.Background(), name); err != nil {
				log.Printf("Failed to invalidate %s cache: %v", name, err)
			}
		})
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.RegisterRoutes(e, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
