// Package server exposes the trainer engine over WebSocket. The protocol
// is message-based: state mutations are acknowledged with a full state
// snapshot, and simulations stream progress followed by exactly one
// terminal message.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

// Server accepts trainer clients over WebSocket, one session each.
type Server struct {
	addr     string
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader

	mu          sync.Mutex
	connections map[*Connection]struct{}
	httpServer  *http.Server
}

// New creates a server listening on addr once Run is called.
func New(addr string, logger *log.Logger, clock quartz.Clock) *Server {
	return &Server{
		addr:   addr,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The trainer UI is served from anywhere during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connections: make(map[*Connection]struct{}),
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	s.mu.Lock()
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown closes all connections and stops the listener.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	// Close outside the lock; each close unregisters itself.
	for _, conn := range conns {
		_ = conn.Close()
	}

	if httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s.clock)
	conn.onClose = s.removeConnection
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("client connected", "remote", r.RemoteAddr)
	conn.Start()

	// Push the initial state so the UI renders without a round trip.
	conn.sendState()
}

// removeConnection unregisters a closed connection.
func (s *Server) removeConnection(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client disconnected", "total", total)
}

// ConnectionCount reports the number of registered connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}
