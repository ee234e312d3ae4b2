// Package control serves a browser panel that drives the scene's sliders and toggles over a WebSocket.
package control

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/blocky-world/engine/scene"
	"github.com/gorilla/websocket"
)

// DefaultAddr is the address the control server listens on unless WithAddr is given.
const DefaultAddr = "127.0.0.1:8090"

//go:embed assets/control.html
var controlPage []byte

// errorReply is sent in place of a Status when a control message could not be applied.
type errorReply struct {
	Error string `json:"error"`
}

// serverImpl is the implementation of the Server interface.
type serverImpl struct {
	mu *sync.Mutex

	state           scene.SceneState
	addr            string
	shutdownTimeout time.Duration
	upgrader        websocket.Upgrader

	clients map[*websocket.Conn]struct{}
}

// Server exposes a SceneState to a browser.
//
// GET / serves the control panel. GET /ws upgrades to a WebSocket that accepts JSON scene.Control messages and
// answers each one with the resulting scene.Status, or with {"error": "..."} if the control was rejected.
// The current Status is also sent as soon as a connection opens.
type Server interface {
	// Handler returns the HTTP handler serving the panel and the WebSocket endpoint.
	Handler() http.Handler

	// Addr returns the address ListenAndServe binds.
	Addr() string

	// Clients returns the number of open WebSocket connections.
	Clients() int

	// ListenAndServe serves until ctx is done, then shuts the server down.
	//
	// Parameters:
	//   - ctx: stops the server when done
	//
	// Returns:
	//   - error: an error if the listener failed; nil after a clean shutdown
	ListenAndServe(ctx context.Context) error
}

var _ Server = &serverImpl{}

// NewServer creates a control server for the given scene state.
//
// Parameters:
//   - state: the scene the controls are applied to
//   - options: variadic list of ServerBuilderOption functions
//
// Returns:
//   - Server: the new server
func NewServer(state scene.SceneState, options ...ServerBuilderOption) Server {
	s := &serverImpl{
		mu:              &sync.Mutex{},
		state:           state,
		addr:            DefaultAddr,
		shutdownTimeout: 2 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *serverImpl) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveHome)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

func (s *serverImpl) Addr() string {
	return s.addr
}

func (s *serverImpl) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *serverImpl) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Control] Shutdown error: %v", err)
		}
		s.closeClients()
	}()

	log.Printf("[Control] Serving controls on http://%s", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return fmt.Errorf("control server: %w", err)
}

func (s *serverImpl) serveHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(controlPage); err != nil {
		log.Printf("[Control] Failed to write control page: %v", err)
	}
}

func (s *serverImpl) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Control] WebSocket upgrade error: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	if err := conn.WriteJSON(s.state.Status()); err != nil {
		log.Printf("[Control] WebSocket write error: %v", err)
		return
	}

	for {
		var msg scene.Control
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Control] WebSocket read error: %v", err)
			}
			return
		}

		var reply any
		if err := s.state.ApplyControl(msg); err != nil {
			reply = errorReply{Error: err.Error()}
		} else {
			reply = s.state.Status()
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[Control] WebSocket write error: %v", err)
			return
		}
	}
}

func (s *serverImpl) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
	}
}
