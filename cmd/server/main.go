package main

import (
	"context"
	"hireflow/internal/app"
	"hireflow/internal/config"
	"hireflow/internal/formprops"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest"
	"hireflow/internal/transport/ws"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "path to a YAML config file (default hireflow.yaml)")
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.UsingDevSecret() {
		log.Println("Warning: JWT_SECRET not set, using development secret")
	}
	if cfg.ShowsOTPCodes() && cfg.Storage != config.StorageMemory {
		log.Println("Warning: login codes are written to the server log")
	}

	catalog, err := formprops.Load(cfg.FormProperties)
	if err != nil {
		log.Fatal("Failed to load form properties:", err)
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	notifier := service.LogNotifier{ShowCodes: cfg.ShowsOTPCodes()}
	router := rest.NewRouter(a.Container(cfg, catalog, notifier, wsHub))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on :%s (storage=%s)", cfg.Port, cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
