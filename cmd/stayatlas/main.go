package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/cache"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/database"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/env"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/metrics/counter"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/router"
)

const counterFlushInterval = time.Minute

func main() {
	log := logrus.StandardLogger()

	app := NewApplication(log)

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), config.Get().AppPort)
	log.WithField("addr", addr).Info("starting directory server")
	log.Fatal(app.Listen(addr))
}

func NewApplication(log *logrus.Logger) *fiber.App {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsDev() {
		log.SetLevel(logrus.DebugLevel)
	}
	log.WithFields(logrus.Fields{
		"env":             cfg.AppEnv,
		"report_timezone": cfg.ReportTimezone,
	}).Info("configuration loaded")

	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:   "StayAtlas",
		BodyLimit: 1 << 20, // JSON API; webhook payloads stay well under 1 MiB
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	// Drain pending click counters into the properties table periodically.
	go flushCountersLoop(log)

	return app
}

func flushCountersLoop(log *logrus.Logger) {
	ticker := time.NewTicker(counterFlushInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := counter.FlushAll(); err != nil {
			log.WithError(err).Warn("click counter flush failed")
		}
	}
}
