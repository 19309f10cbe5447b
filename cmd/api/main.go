package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spgate.dev/internal/config"
	"spgate.dev/internal/httpapi"
	"spgate.dev/internal/obs"
	"spgate.dev/internal/routes"
	"spgate.dev/internal/store/mssql"
	"spgate.dev/internal/token"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	configPath := flag.String("config", envOr("SPGATE_CONFIG", "config/config.yaml"), "path to configuration file")
	flag.Parse()

	// A missing .env is fine; deployments supply real environment.
	_ = godotenv.Load()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	table, err := routes.Load(cfg.Routes.Path)
	if err != nil {
		log.Fatalf("load routes: %v", err)
	}

	db, err := mssql.Open(cfg.SQL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	tokens, err := token.NewScheme(cfg.Token.Secret, cfg.Token.Algorithm)
	if err != nil {
		log.Fatalf("token scheme: %v", err)
	}

	api := httpapi.New(cfg, db, table, tokens, version)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Printf("Starting spgate-api %s on %s (%d routes)", version, srv.Addr, table.Len())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
