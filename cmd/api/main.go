package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amalasyrafInvoke/set-finalproject/internal/audit"
	"github.com/amalasyrafInvoke/set-finalproject/internal/auth"
	"github.com/amalasyrafInvoke/set-finalproject/internal/config"
	"github.com/amalasyrafInvoke/set-finalproject/internal/database"
	apphttp "github.com/amalasyrafInvoke/set-finalproject/internal/http"
	"github.com/amalasyrafInvoke/set-finalproject/internal/ledger"
	"github.com/amalasyrafInvoke/set-finalproject/internal/reports"
	"github.com/amalasyrafInvoke/set-finalproject/internal/router"
	"github.com/amalasyrafInvoke/set-finalproject/internal/savings"
	"github.com/amalasyrafInvoke/set-finalproject/internal/transactions"
	"github.com/amalasyrafInvoke/set-finalproject/internal/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.Env == "production",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(router.RequestID())
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	secret := []byte(cfg.JWTSecret)
	store := ledger.NewPostgresStore(pool)
	engine := ledger.NewEngine(store)
	auditLog := &audit.Logger{Pool: pool}

	r := &router.Router{
		AuthHandler:         &apphttp.AuthHandler{DB: pool, Secret: secret},
		WalletHandler:       wallet.NewHandler(store, auditLog),
		TransactionsHandler: transactions.NewHandler(engine, store, auditLog),
		SavingsHandler:      savings.NewHandler(engine, store, auditLog),
		ReportsHandler:      reports.NewHandler(store),
		AuthMW:              auth.Middleware(secret),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		requestID, _ := c.Locals("request_id").(string)
		log.Printf("%s %s %d %s %s", c.Method(), c.Path(), status, time.Since(start), requestID)
		return err
	}
}
