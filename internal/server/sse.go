package server

import (
	"fmt"
	"net/http"
)

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan struct{}, 1)
	s.clientMu.Lock()
	s.clients[clientChan] = struct{}{}
	s.clientMu.Unlock()

	defer func() {
		s.clientMu.Lock()
		delete(s.clients, clientChan)
		s.clientMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-clientChan:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// Reload tells every connected page to reload. Clients with a reload
// already pending are skipped.
func (s *Server) Reload() {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	for clientChan := range s.clients {
		select {
		case clientChan <- struct{}{}:
		default:
		}
	}
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	return len(s.clients)
}

// closeClients ends every open event stream so Shutdown does not wait on them.
func (s *Server) closeClients() {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	for clientChan := range s.clients {
		close(clientChan)
		delete(s.clients, clientChan)
	}
}
