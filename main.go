package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Avanquish/DoughNation-sub000/cmd"
	"github.com/Avanquish/DoughNation-sub000/internal/container"
	"github.com/Avanquish/DoughNation-sub000/internal/core/logger"
	"github.com/Avanquish/DoughNation-sub000/internal/database"
	"github.com/Avanquish/DoughNation-sub000/internal/listings"
	"github.com/Avanquish/DoughNation-sub000/internal/middleware"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func sweepInterval() time.Duration {
	raw := os.Getenv("SWEEP_INTERVAL")
	if raw == "" {
		return listings.DefaultSweepInterval
	}

	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Printf("Warning: invalid SWEEP_INTERVAL %q, using default %s", raw, listings.DefaultSweepInterval)
		return listings.DefaultSweepInterval
	}

	return interval
}

func main() {
	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	app := container.NewAppContainer(db, sweepInterval(), appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Scheduler.Start(ctx)
	middleware.WatchDatabase(ctx, db, 30*time.Second)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(appLogger))

	app.LoginHandler.RegisterRoutes(router)
	app.InventoryHandler.RegisterRoutes(router)
	app.ListingHandler.RegisterRoutes(router)
	app.RequestHandler.RegisterRoutes(router)
	app.DonationHandler.RegisterRoutes(router)
	app.NotificationHandler.RegisterRoutes(router)
	app.UserHandler.RegisterRoutes(router)

	router.GET("/health", middleware.HealthCheckHandler())

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
