package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/config"
	"github.com/iliyamo/school-qr-register/internal/database"
	"github.com/iliyamo/school-qr-register/internal/handler"
	"github.com/iliyamo/school-qr-register/internal/queue"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/router"
	"github.com/iliyamo/school-qr-register/internal/scan"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema init failed: %v", err)
	}
	cancel()

	// Redis is optional: nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	staffRepo := repository.NewStaffRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	noteRepo := repository.NewNoteRepo(db)
	schoolRepo := repository.NewSchoolRepo(db)

	scanner := scan.NewManager(cfg.ScanSettle)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, staffRepo, tokenRepo, schoolRepo),
		Students: handler.NewStudentHandler(studentRepo, staffRepo),
		Notes:    handler.NewNoteHandler(noteRepo, studentRepo, staffRepo),
		Scan:     handler.NewScanHandler(scanner, studentRepo),
		QR:       handler.NewQRHandler(studentRepo),
	}

	e := echo.New()
	router.RegisterRoutes(e, h, cfg, rdb)

	// Audit consumer reconnects forever in the background.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s school=%s)", addr, cfg.Env, cfg.SchoolID)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
