package main // Seeds the database with the schema, the admin account and demo data

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

func strPtr(s string) *string { return &s }

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Println("schema ensured")

	admins := repository.NewAdminRepo(db)
	if _, err := admins.Get(ctx); err != nil {
		if !errors.Is(err, repository.ErrAdminNotFound) {
			log.Fatalf("admin lookup: %v", err)
		}
		email := os.Getenv("ADMIN_EMAIL")
		if email == "" {
			email = "admin@example.com"
		}
		secret := os.Getenv("ADMIN_SECRET")
		if secret == "" {
			log.Fatal("ADMIN_SECRET must be set to seed the admin account")
		}
		hash, err := utils.HashSecret(secret, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin secret: %v", err)
		}
		if err := admins.Create(ctx, &model.Admin{
			Email:       email,
			SecretHash:  hash,
			DisplayName: "Administrator",
		}); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		log.Printf("admin account created (%s)", email)
	} else {
		log.Println("admin account already present, skipping")
	}

	events := repository.NewEventRepo(db)
	if existing, err := events.List(ctx); err != nil {
		log.Fatalf("list events: %v", err)
	} else if len(existing) == 0 {
		demo := []model.Event{
			{
				Name:             "Summer Open Air",
				Description:      "Open-air concert at the riverside stage.",
				StartsAt:         time.Now().UTC().AddDate(0, 1, 0),
				Location:         "Riverside Stage",
				PriceCents:       5000,
				TicketsTotal:     200,
				TicketsAvailable: 200,
				PaymentLink:      strPtr("https://pay.example.com/summer-open-air"),
				Status:           model.EventStatusActive,
			},
			{
				Name:             "Tech Meetup",
				Description:      "Monthly engineering meetup with two talks.",
				StartsAt:         time.Now().UTC().AddDate(0, 0, 14),
				Location:         "Downtown Hub",
				PriceCents:       1500,
				TicketsTotal:     80,
				TicketsAvailable: 80,
				Status:           model.EventStatusActive,
			},
		}
		for i := range demo {
			if err := events.Create(ctx, &demo[i]); err != nil {
				log.Fatalf("create event %q: %v", demo[i].Name, err)
			}
			log.Printf("event created: %s (id=%d)", demo[i].Name, demo[i].ID)
		}
	} else {
		log.Println("events already present, skipping")
	}

	parties := repository.NewPartyRepo(db)
	if existing, err := parties.List(ctx); err != nil {
		log.Fatalf("list parties: %v", err)
	} else if len(existing) == 0 {
		demo := []model.Party{
			{
				Name:           "New Year Party",
				QuantityTotal:  300,
				QuantitySold:   120,
				UnitPriceCents: 8000,
				StartsAt:       time.Date(2026, 12, 31, 22, 0, 0, 0, time.UTC),
				Status:         model.PartyStatusActive,
			},
			{
				Name:           "Spring Festival",
				QuantityTotal:  150,
				QuantitySold:   150,
				UnitPriceCents: 4500,
				StartsAt:       time.Now().UTC().AddDate(0, 2, 0),
				Status:         model.PartyStatusActive,
			},
		}
		for i := range demo {
			if err := parties.Create(ctx, &demo[i]); err != nil {
				log.Fatalf("create party %q: %v", demo[i].Name, err)
			}
			log.Printf("party created: %s", demo[i].Name)
		}
	} else {
		log.Println("parties already present, skipping")
	}

	log.Println("seed complete")
}
