package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gearshed/internal/auth"
	"gearshed/internal/config"
	"gearshed/internal/database"
	"gearshed/internal/email"
	"gearshed/internal/handlers"
	"gearshed/internal/logger"
	"gearshed/internal/middleware"

	"github.com/gin-gonic/gin"
)

const (
	migrationsDir   = "internal/database/migrations"
	shutdownTimeout = 10 * time.Second
)

const usage = `Usage: gearshed [command]

Commands:
  serve                   Start the API server (default)
  migrate [up]            Apply pending migrations
  migrate down            Roll back the last applied migration
  migrate status          List migrations and whether they are applied
  migrate create <name>   Write a new migration template
  seed                    Load categories and the demo account`

func main() {
	cfg := config.Load()
	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	var err error
	switch command {
	case "serve":
		err = serve(cfg)
	case "migrate":
		err = migrate(cfg, args)
	case "seed":
		err = seed(cfg)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", command, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func serve(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	emailService := email.NewService(cfg)
	if emailService.IsEnabled() {
		logger.Info("Email service enabled with Mailgun")
	} else {
		logger.Info("Email service disabled - Mailgun not configured")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	handlers.SetupRoutes(r, &handlers.Server{
		DB:           db,
		Config:       cfg,
		JWT:          auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration()),
		EmailService: emailService,
		Metrics:      middleware.NewMetrics(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

func migrate(cfg *config.Config, args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	if action == "create" {
		if len(args) < 2 {
			return errors.New("usage: gearshed migrate create <name>")
		}
		path, err := database.CreateMigration(migrationsDir, args[1], time.Now())
		if err != nil {
			return err
		}
		fmt.Println("Created", path)
		return nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "up":
		return database.Migrate(db)
	case "down":
		filename, err := database.Rollback(db)
		if err != nil {
			return err
		}
		fmt.Println("Rolled back", filename)
		return nil
	case "status":
		statuses, err := database.GetMigrationStatus(db)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
				if s.ExecutedAt != nil {
					state += " " + s.ExecutedAt.Format(time.RFC3339)
				}
			}
			fmt.Printf("%-45s %s\n", s.Filename, state)
		}
		return nil
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
}

func seed(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.Seed(context.Background(), db); err != nil {
		return err
	}

	logger.Info("Seed complete", "demo_email", database.DemoEmail)
	return nil
}
