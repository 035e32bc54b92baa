package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/bekzodm/nasiya/internal/auth"
	"github.com/bekzodm/nasiya/internal/middleware"
	"github.com/bekzodm/nasiya/internal/server"
	"github.com/bekzodm/nasiya/internal/service"
	"github.com/bekzodm/nasiya/internal/storage/sqlite"
	"github.com/bekzodm/nasiya/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/nasiya.db")
	port := getEnv("PORT", "8080")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET not set, using an insecure development secret")
		secret = "dev-secret-do-not-use"
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	tokens := auth.NewTokenManager(secret, tokenDuration)
	api := server.New(
		service.NewAuthService(auth.NewAuthenticator(store), tokens),
		service.NewCapitalService(store),
		service.NewClientService(store),
		service.NewExpenseService(store),
		service.NewDashboardService(store),
		tokens,
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.Routes())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)))

	// h2c keeps HTTP/2 available for clients that want it without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := ":" + port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
