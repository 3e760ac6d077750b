package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn upgrades a server-side websocket through httptest and returns
// both ends.
func dialTestConn(t *testing.T, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	<-registered
	return client
}

func TestHub_ConcurrentSendsToOneUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	client := dialTestConn(t, hub, 1)

	const goroutines = 16
	const perGoroutine = 25

	var sent int64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				if hub.SendToUser(1, map[string]any{"event": "notification"}) {
					atomic.AddInt64(&sent, 1)
				}
			}
		}()
	}

	// Drain the client side while the senders run.
	var received int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.SetReadDeadline(time.Now().Add(5 * time.Second))
		for atomic.LoadInt64(&received) < goroutines*perGoroutine {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
			atomic.AddInt64(&received, 1)
		}
	}()

	wg.Wait()
	hub.Unregister(1, nil) // wrong conn identity, must be a no-op
	assert.True(t, hub.IsOnline(1))

	hub.Close()
	<-done

	assert.Positive(t, atomic.LoadInt64(&sent))
	assert.Equal(t, atomic.LoadInt64(&sent), atomic.LoadInt64(&received))
}

func TestHub_SendToOfflineUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	assert.False(t, hub.SendToUser(99, map[string]any{"event": "notification"}))
	assert.False(t, hub.IsOnline(99))
}

func TestHub_ReconnectReplacesConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := dialTestConn(t, hub, 7)
	second := dialTestConn(t, hub, 7)

	assert.True(t, hub.IsOnline(7))
	assert.True(t, hub.SendToUser(7, map[string]any{"event": "notification"}))

	// The replaced connection is closed by its pump; the new one delivers.
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "notification")

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}
}
