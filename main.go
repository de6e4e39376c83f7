package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/router"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store/mongostore"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store/sqlstore"
)

func openStore(ctx context.Context, cfg cliparse.Config) (store.Store, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseMongo:
		return mongostore.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	case cliparse.DatabasePostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
	default:
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DatabaseURL)
	}
}

func openSessions(ctx context.Context, cfg cliparse.Config) (session.Store, error) {
	if cfg.SessionStore == cliparse.SessionStoreRedis {
		return session.NewRedisStore(ctx, cfg.RedisURL)
	}
	return session.NewMemoryStore(), nil
}

func main() {
	var err error

	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Connect and create schema or indexes
	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer st.Close(context.Background())
	slog.Info("Database ready", "type", cfg.DatabaseType)

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		slog.Error("session store unavailable", "error", err, "store", cfg.SessionStore)
		os.Exit(1)
	}
	defer sessions.Close()

	if cfg.SeedAdmin() {
		created, err := st.Admins().Ensure(ctx, models.Admin{
			Identity: cfg.AdminIdentity,
			Name:     cfg.AdminName,
			DOB:      cfg.AdminDOB,
		})
		if err != nil {
			slog.Error("admin seed failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin seed", "created", created)
	}

	// Create router
	mux := router.NewRouter(st, sessions, cfg, metrics.NewWithRuntime())

	// Create server
	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
