// Package fakeapi provides an in-process fake of the placement REST API for tests.
//
// Responses are stubbed per method and path. A path can be held so that requests to it
// block until released, which lets tests interleave scope changes with in-flight
// fetches. Every request is recorded with its headers and body. The /ws/ endpoint
// accepts websocket clients and forwards whatever Push sends.
package fakeapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	gorilla "github.com/gorilla/websocket"
)

// PushPath is where websocket clients connect.
const PushPath = "/ws/"

// Request is a recorded request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type stub struct {
	status int
	body   []byte
}

type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	stubs    map[string]stub
	holds    map[string]*Hold
	requests []Request
	sockets  map[*gorilla.Conn]struct{}
	joined   chan struct{}
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		stubs:   map[string]stub{},
		holds:   map[string]*Hold{},
		sockets: map[*gorilla.Conn]struct{}{},
		joined:  make(chan struct{}, 16),
	}

	r := mux.NewRouter()
	r.HandleFunc(PushPath, s.servePush).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(s.serve)

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// URL returns the absolute URL of path.
func (s *Server) URL(path string) string {
	return s.srv.URL + path
}

// PushURL is the websocket URL of the push endpoint.
func (s *Server) PushURL() string {
	return "ws" + s.srv.URL[len("http"):] + PushPath
}

// Handle stubs method and path with a JSON encoding of body.
func (s *Server) Handle(method, path string, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[method+" "+path] = stub{status: status, body: data}
}

// JSON stubs a successful GET.
func (s *Server) JSON(path string, body any) {
	s.Handle(http.MethodGet, path, http.StatusOK, body)
}

// Fail stubs method and path with an error status and a {"detail": message} body.
func (s *Server) Fail(method, path string, status int, message string) {
	s.Handle(method, path, status, map[string]string{"detail": message})
}

// Hold makes requests to path, of any method, block until the hold is released.
func (s *Server) Hold(path string) *Hold {
	h := &Hold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[path] = h
	return h
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Close releases every hold and stops the server.
func (s *Server) Close() {
	s.mu.Lock()
	for _, h := range s.holds {
		h.Release()
	}
	for c := range s.sockets {
		c.Close()
	}
	s.mu.Unlock()
	s.srv.Close()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h := s.holds[r.URL.Path]
	st, ok := s.stubs[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if h != nil {
		h.arrive()
		select {
		case <-h.release:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
		return
	}
	w.WriteHeader(st.status)
	if st.status != http.StatusNoContent {
		_, _ = w.Write(st.body)
	}
}
