// Package inspect serves a read-only debug view of the running engine over
// HTTP: the scene tree, single nodes and per-frame pass statistics, with a
// websocket stream of the statistics.
package inspect

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/render"
)

var ErrNoFrame = errors.New("no frame published yet")

type Server struct {
	mu      sync.Mutex
	snap    *Snapshot
	stats   []byte
	clients map[*client]bool

	router    *mux.Router
	upgrader  websocket.Upgrader
	accessLog io.Writer
}

// NewServer builds the routes. Access logs go to accessLog when it is not nil.
func NewServer(accessLog io.Writer) *Server {
	s := &Server{
		clients:   make(map[*client]bool),
		router:    mux.NewRouter(),
		accessLog: accessLog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.router.HandleFunc("/json/scene", s.handleScene).Methods(http.MethodGet)
	s.router.HandleFunc("/json/node/{id}", s.handleNode).Methods(http.MethodGet)
	s.router.HandleFunc("/json/stats", s.handleStats).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/stats", s.handleStatsStream)
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.accessLog != nil {
		h = handlers.LoggingHandler(s.accessLog, h)
	}
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
}

func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[inspect] Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Publish captures the frame and pushes its statistics to stream clients.
// Call it from an AfterRender hook.
func (s *Server) Publish(f *render.Frame) {
	snap := Capture(f)
	data, err := json.Marshal(&snap.Stats)
	if err != nil {
		log.Printf("[inspect] Failed to marshal stats: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.stats = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client, drop this frame
		}
	}
}

func (s *Server) snapshot() (*Snapshot, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, s.stats
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoFrame)
		return
	}
	writeJSON(w, &snap.Scene)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoFrame)
		return
	}
	id := mux.Vars(r)["id"]
	node, ok := snap.Node(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("node %q not found", id))
		return
	}
	writeJSON(w, node)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, stats := s.snapshot()
	if stats == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoFrame)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeResult(w, stats)
}

func (s *Server) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[inspect] ws upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32), closed: make(chan struct{})}

	s.mu.Lock()
	s.clients[c] = true
	if s.stats != nil {
		c.send <- s.stats
	}
	s.mu.Unlock()

	go c.writePump(func() { s.unregister(c) })
	go c.readPump()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

// ClientCount returns the number of connected stream clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

func (c *client) writePump(done func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		done()
		c.conn.Close()
	}()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[inspect] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[inspect] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames until the peer goes away.
func (c *client) readPump() {
	defer close(c.closed)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		log.Printf("[inspect] Error when writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, _ := json.Marshal(&jError{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeResult(w, data)
}
