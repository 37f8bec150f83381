package httpresults

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Server recibe resultados de partidas desde fuera de Discord (paneles de
// admin, integraciones). Mismo camino que el modal de score, como staff.
type Server struct {
	secret   string
	mux      *http.ServeMux
	onResult func(ctx context.Context, guildID string, matchID, scoreA, scoreB int)
}

func New(secret string, onResult func(ctx context.Context, guildID string, matchID, scoreA, scoreB int)) *Server {
	s := &Server{secret: secret, mux: http.NewServeMux(), onResult: onResult}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/results/webhook", s.handleResult)
}

type resultPayload struct {
	GuildID string `json:"guild_id"`
	MatchID int    `json:"match_id"`
	ScoreA  int    `json:"score_a"`
	ScoreB  int    `json:"score_b"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	got := r.Header.Get("X-T0G-WH")
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	body, _ := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	_ = r.Body.Close()

	var evt resultPayload
	if err := json.Unmarshal(body, &evt); err != nil || evt.GuildID == "" || evt.MatchID <= 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	log.Printf("webhook: result guild=%s match=%d %d-%d", evt.GuildID, evt.MatchID, evt.ScoreA, evt.ScoreB)
	if s.onResult != nil {
		go s.onResult(context.Background(), evt.GuildID, evt.MatchID, evt.ScoreA, evt.ScoreB)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) Start(addr string) {
	log.Printf("🌐 HTTP listening on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
