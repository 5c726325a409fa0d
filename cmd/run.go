package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"collector/bot"
	"collector/config"
	"collector/database"
	"collector/events"
	"collector/repository"
	"collector/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting collector bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	log.Println("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Initialize services
	log.Println("Initializing services...")
	roller := service.NewRoller(cfg.StatRollSeed)
	playerService := service.NewPlayerService(uowFactory)
	cardService := service.NewCardService(uowFactory, roller)
	deckService := service.NewDeckService(uowFactory)
	collectionService := service.NewCollectionService(uowFactory)
	inventoryService := service.NewInventoryService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Telegram bot
	log.Println("Initializing Telegram bot...")
	botConfig := bot.Config{
		Token: cfg.TelegramToken,
	}
	telegramBot, err := bot.New(botConfig, playerService, cardService, deckService, collectionService, inventoryService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Println("Telegram bot initialized successfully")

	// Block polling for updates until the context is cancelled
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	if err := telegramBot.Run(ctx); err != nil {
		return fmt.Errorf("bot stopped: %w", err)
	}

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
