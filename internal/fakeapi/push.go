package fakeapi

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gorilla "github.com/gorilla/websocket"
)

var upgrader = gorilla.Upgrader{}

func (s *Server) servePush(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()})
	s.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.sockets[conn] = struct{}{}
	s.mu.Unlock()
	select {
	case s.joined <- struct{}{}:
	default:
	}

	// read until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.sockets, conn)
	s.mu.Unlock()
	conn.Close()
}

// WaitPushClient blocks until a websocket client connected or timeout passed.
func (s *Server) WaitPushClient(timeout time.Duration) bool {
	select {
	case <-s.joined:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Push sends v as JSON to every connected websocket client.
func (s *Server) Push(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.sockets {
		if err := c.WriteMessage(gorilla.TextMessage, data); err != nil {
			return err
		}
	}
	return nil
}

// DropPushClients closes every websocket connection from the server side.
func (s *Server) DropPushClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.sockets {
		c.Close()
	}
}
