package main

import (
	"log"
	"net/http"
	"os"
	"time"

	_ "attendance-engine/docs"
	"attendance-engine/internal/adapters/notify/webhook"
	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/cache"
	"attendance-engine/internal/platform/logger"
	"attendance-engine/internal/router"

	"github.com/joho/godotenv"
)

// @title Attendance Engine API
// @version 1.0
// @description Registro de asistencia por escaneo y sincronización de estado para dashboards multi-locación.
// @BasePath /
func main() {
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	appLog := logger.NewFromEnv()
	b := bus.New(appLog)

	// Puente opcional hacia dashboards externos (DASHBOARD_WEBHOOK_URL).
	notifier, err := webhook.New(webhook.Config{
		BaseURL: os.Getenv("DASHBOARD_WEBHOOK_URL"),
	}, appLog)
	if err != nil {
		log.Fatalf("invalid dashboard webhook config: %v", err)
	}
	notifier.Attach(b)

	ttl := cache.DefaultTTL
	if v := os.Getenv("SUBJECT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: nil, // sin verifier para modo dev (X-Station-ID)
		Bus:          b,
		Logger:       appLog,
		CacheTTL:     ttl,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
