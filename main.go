// Command ircd runs the IRC server.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"ircd/config"
	"ircd/server"
)

func main() {
	configPath := flag.String("config", "", "Path or URL of the configuration file")
	host := flag.String("host", "", "Host to listen on, overrides the configuration")
	port := flag.Int("port", 0, "Port to listen on, overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("IRC server started on %s", cfg.ListenAddress())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, stopping server...")

	if err := srv.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
}
