package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"careplan/cmd"
	"careplan/internal/adapters/out/postgres"
	"careplan/internal/core/application/dispatch"
	"careplan/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	db, err := gorm.Open(gormpostgres.Open(dsn(configs)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cmd.NewCompositionRoot(configs, db, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             envOrDefault("DB_PORT", "5432"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          envOrDefault("DB_SSLMODE", "disable"),
		MS365TenantID:      goDotEnvVariable("MS365_TENANT_ID"),
		MS365ClientID:      goDotEnvVariable("MS365_CLIENT_ID"),
		MS365ClientSecret:  goDotEnvVariable("MS365_CLIENT_SECRET"),
		SenderEmail:        goDotEnvVariable("SENDER_EMAIL"),
		FormBaseURL:        envOrDefault("FORM_BASE_URL", cmd.DefaultFormBaseURL),
		AnthropicAPIKey:    goDotEnvVariable("ANTHROPIC_API_KEY"),
		AnthropicModel:     goDotEnvVariable("ANTHROPIC_MODEL"),
		JobsSchedule:       envOrDefault("JOBS_SCHEDULE", jobs.DefaultSchedule),
		JobsBatchSize:      envInt("JOBS_BATCH_SIZE", dispatch.DefaultBatchSize),
		JobsRetryDelay:     envDuration("JOBS_RETRY_DELAY", time.Hour),
		JobsRetryJitter:    envDuration("JOBS_RETRY_JITTER", 0),
		JobsHandlerTimeout: envDuration("JOBS_HANDLER_TIMEOUT", dispatch.DefaultHandlerTimeout),
	}
	return config
}

func goDotEnvVariable(key string) string {
	return os.Getenv(key)
}

func envOrDefault(key, fallback string) string {
	if v := goDotEnvVariable(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func dsn(c cmd.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	app.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
