package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/madhavkalra7/LegalEase/internal/config"
	"github.com/madhavkalra7/LegalEase/internal/session"
)

// SessionHandler runs a session over an upgraded connection. It owns
// the connection from the moment it is called.
type SessionHandler func(conn *websocket.Conn)

type Server struct {
	config         *config.Config
	registry       *session.Registry
	handleSession  SessionHandler
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	authToken      string
	proc           *process.Process
}

func NewServer(cfg *config.Config, registry *session.Registry, handleSession SessionHandler) *Server {
	s := &Server{
		config:         cfg,
		registry:       registry,
		handleSession:  handleSession,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		authToken:      cfg.Server.AuthToken,
	}

	for _, origin := range cfg.Server.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = proc
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/automation/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/sessions", s.handleSessions)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("WebSocket client connected: %s", r.RemoteAddr)
	go s.handleSession(conn)
}

type healthProcess struct {
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
}

type healthResponse struct {
	Status         string         `json:"status"`
	ActiveSessions int            `json:"active_sessions"`
	RunningTasks   int            `json:"running_tasks"`
	Timestamp      string         `json:"timestamp"`
	Process        *healthProcess `json:"process,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "healthy",
		ActiveSessions: s.registry.Count(),
		RunningTasks:   s.registry.RunningCount(),
		Timestamp:      time.Now().Format(time.RFC3339),
	}

	// Process telemetry is best-effort; the health check itself does
	// not depend on it.
	if s.proc != nil {
		hp := &healthProcess{}
		if mem, err := s.proc.MemoryInfo(); err == nil {
			hp.RSSBytes = mem.RSS
		}
		if cpu, err := s.proc.CPUPercent(); err == nil {
			hp.CPUPercent = cpu
		}
		resp.Process = hp
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.registry.Snapshots())
}

func (s *Server) authorize(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}

	if r.URL.Query().Get("token") == s.authToken {
		return true
	}

	if r.Header.Get("X-LegalEase-Token") == s.authToken {
		return true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.authToken {
		return true
	}

	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
