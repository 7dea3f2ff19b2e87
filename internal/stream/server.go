package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"citysim/internal/city"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server publishes world snapshots to websocket clients on /ws.
type Server struct {
	hub   *Hub
	hello []byte
	every uint64
	log   zerolog.Logger
}

// NewServer prepares the hello message for w. every is how many frames pass
// between published snapshots; values below 1 publish every frame.
func NewServer(hub *Hub, session string, w *city.World, every int, log zerolog.Logger) (*Server, error) {
	hello, err := marshalEnvelope(TypeHello, Hello{Session: session, Layout: w.LayoutSnapshot()})
	if err != nil {
		return nil, err
	}
	if every < 1 {
		every = 1
	}
	return &Server{hub: hub, hello: hello, every: uint64(every), log: log}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("stream upgrade failed")
		return
	}
	c := &Client{id: uuid.NewString(), conn: conn, send: make(chan []byte, clientBuffer)}
	// Queued before registering so hello always precedes the first frame.
	c.send <- s.hello
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	go c.writer()
	go c.reader(s.hub)
}

// Publish broadcasts the world's snapshot when its frame counter lands on
// the publish interval. Must be called from the goroutine driving w.
func (s *Server) Publish(w *city.World) error {
	if w.Frames%s.every != 0 || s.hub.Clients() == 0 {
		return nil
	}
	msg, err := marshalEnvelope(TypeFrame, w.Snapshot())
	if err != nil {
		return err
	}
	s.hub.Broadcast(msg)
	return nil
}

// Serve accepts clients on ln until ctx is cancelled. The hub must be
// running.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("stream listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("stream serve: %w", err)
	}
	return nil
}
