package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/wayfarer-app/wayfarer-api/internal/config"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: promote-agency <email> <agency-name>")
		os.Exit(1)
	}

	email := os.Args[1]
	agencyName := os.Args[2]

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

	userService := services.NewUserService(db)

	user, err := userService.PromoteToAgency(ctx, email, agencyName)
	if err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	fmt.Printf("Successfully promoted %s to agency account %q\n", user.Email, agencyName)
}
