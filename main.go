package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"leanmaker_backend/internals/configs"
	database "leanmaker_backend/internals/databases"
	scheduler "leanmaker_backend/internals/features/users/auth/scheduler"
	"leanmaker_backend/internals/middlewares"
	routes "leanmaker_backend/internals/route"
	"leanmaker_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		AppName:      "LeanMaker API",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(etag.New())

	// request id + timing, cheap enough to run on every request
	app.Use(func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = utils.UUIDv4()
		}
		c.Set("X-Request-ID", rid)

		start := time.Now()
		err := c.Next()
		c.Set("X-Response-Time", time.Since(start).String())
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("[ERROR] migration failed: %v", err)
	}
	seeds.RunAllSeeds(database.DB)

	scheduler.StartTokenCleanupScheduler(database.DB)

	routes.SetupRoutes(app, database.DB)

	port := configs.GetEnv("PORT", "8080")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("[ERROR] server stopped: %v", err)
		}
	}()
	log.Printf("[INFO] LeanMaker API listening on :%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("[INFO] Bye.")
}
