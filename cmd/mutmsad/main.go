// 12 Oct 2026
// Serve the mutation code over http.

package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/andrew-torda/mutmsa/pkg/server"
)

func main() {
	addr := envOrDefault("MUTMSA_HTTP_ADDR", "127.0.0.1:8080")
	maxBody, err := strconv.ParseInt(envOrDefault("MUTMSA_MAX_BODY", "0"), 10, 64)
	if err != nil {
		log.Fatalf("MUTMSA_MAX_BODY: %v", err)
	}
	lg := log.New(os.Stderr, "mutmsad ", log.LstdFlags)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewServer(&server.Options{MaxBody: maxBody, Logger: lg}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lg.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Fatalf("server failed: %v", err)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
