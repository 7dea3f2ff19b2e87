package stream

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"citysim/internal/city"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorld(t *testing.T) *city.World {
	t.Helper()
	return city.NewWorld(city.Params{CitySize: 0, TrafficCount: 2, WeatherParticles: 10}, 7, zerolog.Nop())
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zerolog.Nop())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func dial(t *testing.T, srv *httptest.Server) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func readEnvelope(t *testing.T, c *ws.Conn) Envelope {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestServer_HelloThenFrames(t *testing.T) {
	w := testWorld(t)
	hub := startHub(t)
	s, err := NewServer(hub, "session-1", w, 2, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	c := dial(t, srv)

	env := readEnvelope(t, c)
	require.Equal(t, TypeHello, env.Type)
	var hello Hello
	require.NoError(t, json.Unmarshal(env.Payload, &hello))
	assert.Equal(t, "session-1", hello.Session)
	assert.Equal(t, w.Layout.Bound, hello.Layout.Bound)
	assert.Len(t, hello.Layout.Buildings, len(w.Layout.Buildings))

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	// Frame 1 is off the interval, frame 2 is published.
	w.Frame(1.0/60, city.Input{})
	require.NoError(t, s.Publish(w))
	w.Frame(1.0/60, city.Input{})
	require.NoError(t, s.Publish(w))

	env = readEnvelope(t, c)
	require.Equal(t, TypeFrame, env.Type)
	var snap city.Snapshot
	require.NoError(t, json.Unmarshal(env.Payload, &snap))
	assert.Equal(t, uint64(2), snap.Frame)
	assert.Equal(t, "on_foot", snap.Mode)
	assert.Len(t, snap.Vehicles, len(w.Traffic.Cars)+len(w.Parking.Cars))
}

func TestServer_InboundMessagesIgnored(t *testing.T) {
	w := testWorld(t)
	hub := startHub(t)
	s, err := NewServer(hub, "s", w, 1, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	c := dial(t, srv)
	readEnvelope(t, c)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, c.WriteMessage(ws.TextMessage, []byte(`{"type":"drive"}`)))
	w.Frame(1.0/60, city.Input{})
	require.NoError(t, s.Publish(w))
	assert.Equal(t, TypeFrame, readEnvelope(t, c).Type)
	assert.Equal(t, 1, hub.Clients())
}

func TestServer_DisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	s, err := NewServer(hub, "s", testWorld(t), 1, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	c := dial(t, srv)
	readEnvelope(t, c)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	c.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := &Client{id: "slow", send: make(chan []byte, 1)}
	require.True(t, hub.join(slow))
	require.Equal(t, 1, hub.Clients())

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte("a"), <-slow.send)
	_, open := <-slow.send
	assert.False(t, open, "dropped client's queue is closed")
}

func TestHub_StopDisconnectsAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	c := &Client{id: "c", send: make(chan []byte, 1)}
	require.True(t, hub.join(c))
	cancel()

	_, open := <-c.send
	assert.False(t, open)
	assert.False(t, hub.join(&Client{id: "late", send: make(chan []byte, 1)}), "stopped hub refuses clients")
}

func TestPublish_SkipsWithoutClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	s, err := NewServer(hub, "s", testWorld(t), 1, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Publish(testWorld(t)))
	assert.Empty(t, hub.broadcast)
}

func TestServe_StopsWithContext(t *testing.T) {
	hub := startHub(t)
	s, err := NewServer(hub, "s", testWorld(t), 1, zerolog.Nop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	c, _, err := ws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, TypeHello, readEnvelope(t, c).Type)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
