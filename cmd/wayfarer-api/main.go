package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/config"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/handlers"
	authmw "github.com/wayfarer-app/wayfarer-api/internal/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
	"github.com/wayfarer-app/wayfarer-api/internal/sse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	tripService := services.NewTripService(db)
	invitationService := services.NewInvitationService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	hub := sse.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	tripHandler := handlers.NewTripHandler(tripService, invitationService, userService, emailService, hub, cfg.BaseURL)
	invitationHandler := handlers.NewInvitationHandler(invitationService, tripService, userService, emailService, hub, cfg.BaseURL)
	invitationPageHandler := handlers.NewInvitationPageHandler(invitationService, cfg.AppURL)
	sseHandler := handlers.NewSSEHandler(hub, tripService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/trips", tripHandler.List)
	protected.Post("/trips", tripHandler.Create)
	protected.Get("/trips/:tripId", tripHandler.Get)
	protected.Patch("/trips/:tripId", tripHandler.Update)
	protected.Delete("/trips/:tripId", tripHandler.Delete)
	protected.Get("/trips/:tripId/collaborators", tripHandler.GetCollaborators)
	protected.Delete("/trips/:tripId/collaborators/:userId", tripHandler.RemoveCollaborator)

	protected.Post("/trips/:tripId/invitations", invitationHandler.Create)
	protected.Get("/trips/:tripId/invitations", invitationHandler.ListForTrip)
	protected.Delete("/trips/:tripId/invitations/:invitationId", invitationHandler.Cancel)

	protected.Get("/invitations", invitationHandler.ListMine)
	protected.Post("/invitations/:invitationId/accept", invitationHandler.Accept)
	protected.Post("/invitations/:invitationId/decline", invitationHandler.Decline)

	protected.Get("/public/trips", tripHandler.ListPublic)

	protected.Get("/trips/:tripId/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:tripId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:tripId", sseHandler.Unsubscribe)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public invitation landing pages (no auth required)
	app.Get("/invitations/:invitationId", invitationPageHandler.View)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
