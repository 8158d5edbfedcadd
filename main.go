package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"arena-app/database"
	"arena-app/jobs"
	"arena-app/logger"
	"arena-app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded: %v", err)
	}

	database.Connect()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app)
	scheduler := jobs.Start()

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("server running at %s", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Fatal("failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("gracefully shutting down")
	if err := scheduler.Shutdown(); err != nil {
		logger.Error("scheduler shutdown: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		logger.Fatal("server forced to shutdown: %v", err)
	}
	logger.Sync()
	logger.Info("server exited cleanly")
}
