package main

import (
	"log"

	"qdash/internal/config"
	httpapi "qdash/internal/http"
)

var version = "dev"

func main() {
	cfg := config.FromEnv()
	srv, err := httpapi.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}

	log.Printf("starting QDash API version=%s on %s", version, cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
