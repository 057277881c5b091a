package roomba

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// echoServer echoes binary messages and sends a text message first,
// which the connection must skip.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); ok && (user != "roomba" || pass != "secret") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketConn_RoundTrip(t *testing.T) {
	srv := echoServer(t)

	conn, err := DialWebSocket(context.Background(), wsURL(srv), "roomba", "secret", false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg := []byte{19, 3, 22, 0x3A, 0x98, 0}
	if _, err := conn.Write(msg); err != nil {
		t.Fatal(err)
	}

	// Read in small pieces to exercise buffering across calls.
	var got []byte
	buf := make([]byte, 4)
	for len(got) < len(msg) {
		n, err := conn.Read(buf)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, buf[:n]...)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("got %v, want %v", got, msg)
	}
}

func TestWebSocketConn_BadAuth(t *testing.T) {
	srv := echoServer(t)

	if _, err := DialWebSocket(context.Background(), wsURL(srv), "roomba", "wrong", false); err == nil {
		t.Error("expected dial failure")
	}
}

func TestDialWebSocket_BadScheme(t *testing.T) {
	if _, err := DialWebSocket(context.Background(), "http://example.com", "", "", false); err == nil {
		t.Error("expected scheme error")
	}
}

func TestWebSocketConn_ClosedAfterError(t *testing.T) {
	srv := echoServer(t)

	conn, err := DialWebSocket(context.Background(), wsURL(srv), "", "", false)
	if err != nil {
		t.Fatal(err)
	}
	_ = conn.Close()

	if _, err := conn.Read(make([]byte, 4)); err == nil {
		t.Fatal("expected read error on closed connection")
	}
	if _, err := conn.Read(make([]byte, 4)); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}
