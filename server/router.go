package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"ai-banker/server/engine"
	"ai-banker/server/session"
	"ai-banker/server/store"
)

var validate = validator.New()

type chatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type cardRequest struct {
	Card int `json:"card" validate:"required,gt=0"`
}

type createGameResponse struct {
	GameID        string           `json:"game_id"`
	GameState     engine.GameState `json:"game_state"`
	BankerMessage string           `json:"banker_message"`
}

type historyResponse struct {
	GameID        string             `json:"game_id"`
	Messages      []session.ChatTurn `json:"messages"`
	FinalResult   *string            `json:"final_result"`
	TotalWinnings *int               `json:"total_winnings"`
}

func Router(sessions *session.Store, db *store.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":    "healthy",
				"agent":     "banker",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.Route("/games", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, req *http.Request) {
				state, welcome, err := sessions.Create(req.Context())
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusCreated, createGameResponse{
					GameID:        state.GameID,
					GameState:     state,
					BankerMessage: welcome.Message,
				})
			})

			r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
				ids := sessions.ListActive()
				writeJSON(w, http.StatusOK, map[string]any{
					"active_games": ids,
					"total_games":  len(ids),
					"timestamp":    time.Now().UTC().Format(time.RFC3339),
				})
			})

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, req *http.Request) {
					state, err := sessions.Get(chi.URLParam(req, "gameID"))
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, state)
				})

				r.Post("/chat", func(w http.ResponseWriter, req *http.Request) {
					var body chatRequest
					if !decode(w, req, &body) {
						return
					}
					resp, err := sessions.Apply(req.Context(), chi.URLParam(req, "gameID"), body.Message)
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, map[string]any{"banker_response": resp})
				})

				r.Get("/history", func(w http.ResponseWriter, req *http.Request) {
					gameID := chi.URLParam(req, "gameID")
					turns, err := sessions.History(gameID)
					if err != nil {
						writeError(w, err)
						return
					}
					out := historyResponse{GameID: gameID, Messages: turns}
					if state, err := sessions.Get(gameID); err == nil && state.Status == engine.StatusCompleted {
						result := string(state.Status)
						out.FinalResult = &result
						out.TotalWinnings = state.CurrentOffer
					}
					writeJSON(w, http.StatusOK, out)
				})

				r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
					stats, err := sessions.Stats(chi.URLParam(req, "gameID"))
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, stats)
				})

				r.Post("/burn", func(w http.ResponseWriter, req *http.Request) {
					var body cardRequest
					if !decode(w, req, &body) {
						return
					}
					state, err := sessions.Burn(req.Context(), chi.URLParam(req, "gameID"), body.Card)
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, state)
				})

				r.Post("/select-case", func(w http.ResponseWriter, req *http.Request) {
					var body cardRequest
					if !decode(w, req, &body) {
						return
					}
					state, err := sessions.SelectCase(req.Context(), chi.URLParam(req, "gameID"), body.Card)
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, state)
				})

				r.Post("/abandon", func(w http.ResponseWriter, req *http.Request) {
					state, err := sessions.Abandon(req.Context(), chi.URLParam(req, "gameID"))
					if err != nil {
						writeError(w, err)
						return
					}
					writeJSON(w, http.StatusOK, state)
				})
			})
		})

		// Archive browsing; only wired when Postgres is configured.
		if db != nil {
			r.Get("/archive", func(w http.ResponseWriter, req *http.Request) {
				games, err := db.RecentGames(req.Context(), 100)
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"games": games})
			})
		}
	})

	return r
}

func decode(w http.ResponseWriter, req *http.Request, dst any) bool {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrTerminalGame):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrAlreadySelected):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidCard):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
