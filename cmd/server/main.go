package main // Entry point for the ticketing API server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
)

func main() {
	_ = godotenv.Load() // pick up a local .env during development

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: cache and rate limiting degrade to no-ops when the
	// client is nil.
	rdb := config.NewRedisClient()

	events := repository.NewEventRepo(db)
	guests := repository.NewGuestRepo(db)
	tickets := repository.NewTicketRepo(db)
	admins := repository.NewAdminRepo(db)
	parties := repository.NewPartyRepo(db)

	eventHandler := handler.NewEventHandler(events, guests)
	guestHandler := handler.NewGuestHandler(guests)
	ticketHandler := handler.NewTicketHandler(tickets, events)
	adminHandler := handler.NewAdminHandler(admins, events, tickets, parties,
		cfg.JWTSecret, cfg.AdminTokenTTLMin)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	origins := []string{"http://localhost:3000"}
	if cfg.CORSOrigin != "" {
		origins = append(origins, cfg.CORSOrigin)
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, eventHandler, guestHandler, ticketHandler, rdb)
	router.RegisterAdmin(e, adminHandler, eventHandler, guestHandler, ticketHandler, cfg.JWTSecret)

	// Consume ticket.issued messages in the background; the consumer keeps
	// its own reconnect loop.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
