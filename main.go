package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/feldspar-labs/inkwell-backend/api"
	"github.com/feldspar-labs/inkwell-backend/config"
	"github.com/feldspar-labs/inkwell-backend/database"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr, err := config.Require(c, config.KeyDatabaseURL)
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}
	if _, err := config.Require(c, config.KeyAdminSecret); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Bound connection lifetimes so a stale connection is discarded and
	// redialed lazily rather than poisoning the pool.
	sqlDB, err := db.DB()
	if err != nil {
		fmt.Printf("Error accessing connection pool: %v\n", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	// Schema setup happens once here, before any request is served
	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB.PostRepo())
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
