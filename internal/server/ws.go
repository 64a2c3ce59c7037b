package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/cybrdelic/repotronium/internal/pipeline"
)

// wsEvent is one message on the analysis progress stream.
type wsEvent struct {
	Type    string           `json:"type"` // "progress", "result", or "error"
	Stage   string           `json:"stage,omitempty"`
	Message string           `json:"message,omitempty"`
	Bundle  *pipeline.Bundle `json:"bundle,omitempty"`
}

// handleAnalyzeWS runs an analysis while streaming stage transitions over a
// websocket, then sends the finished bundle as the final event. Report
// generation is opted into with ?reports=1.
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	opts := pipeline.Options{
		// The pipeline invokes the callback inline, so writes stay
		// serialized on this connection.
		OnProgress: func(stage pipeline.Stage, message string) {
			if err := conn.WriteJSON(wsEvent{Type: "progress", Stage: string(stage), Message: message}); err != nil {
				log.Printf("server: websocket write: %v", err)
			}
		},
	}
	if r.URL.Query().Get("reports") == "1" {
		opts.Kinds = allKinds()
	}

	bundle, err := s.runner.Run(r.Context(), owner, repo, opts)
	if err != nil {
		conn.WriteJSON(wsEvent{Type: "error", Message: err.Error()})
		return
	}

	conn.WriteJSON(wsEvent{Type: "result", Bundle: bundle})
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
