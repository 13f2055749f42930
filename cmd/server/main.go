package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/madhavkalra7/LegalEase/internal/config"
	"github.com/madhavkalra7/LegalEase/internal/llm"
	"github.com/madhavkalra7/LegalEase/internal/mock"
	"github.com/madhavkalra7/LegalEase/internal/orchestrator"
	"github.com/madhavkalra7/LegalEase/internal/session"
	"github.com/madhavkalra7/LegalEase/internal/ws"
)

func main() {
	mockMode := flag.Bool("mock", false, "Use canned chat replies (no API key needed)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No config file at %s, using defaults", *configPath)
			cfg = config.Default()
		} else {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}

	registry := session.NewRegistry()

	// The scripted driver is the in-tree automation agent; real browser
	// drivers plug in through agent.Factory.
	factory := mock.NewFactory(cfg.Automation)

	var replies orchestrator.ReplyGenerator
	if *mockMode || cfg.LLM.APIKey == "" {
		log.Println("Using canned chat replies")
		replies = mock.NewReplies()
	} else {
		replies = llm.NewClient(cfg.LLM)
	}

	orch := orchestrator.New(cfg, registry, factory, replies)
	server := ws.NewServer(cfg, registry, orch.HandleSession)

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		for _, h := range registry.All() {
			h.Close("server shutting down")
		}
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
